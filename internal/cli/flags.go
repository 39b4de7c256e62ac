package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	switchFlagTypeName        = "bool"
	switchFlagTrueLiteral     = "true"
	switchFlagAcceptedListing = "true, false, yes, no, on, off, 1, 0"
)

var switchLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func parseSwitchLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = switchFlagTrueLiteral
	}
	parsed, known := switchLiterals[normalized]
	return parsed, known
}

// switchValue is a boolean flag that also accepts yes/no and on/off.
type switchValue struct {
	target *bool
	name   string
}

func (value *switchValue) Set(input string) error {
	parsed, known := parseSwitchLiteral(input)
	if !known {
		return fmt.Errorf("invalid boolean value %q for --%s; accepted values: %s", input, value.name, switchFlagAcceptedListing)
	}
	*value.target = parsed
	return nil
}

func (value *switchValue) String() string {
	if value == nil || value.target == nil {
		return "false"
	}
	return strconv.FormatBool(*value.target)
}

func (value *switchValue) Type() string {
	return switchFlagTypeName
}

// registerSwitch adds a boolean flag that may be given bare or with a literal.
func registerSwitch(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&switchValue{target: target, name: name}, name, usage)
	flag := flagSet.Lookup(name)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = switchFlagTrueLiteral
}

// normalizeSwitchArguments rewrites "--flag no" into "--flag=no" for switch
// flags, since pflag never consumes a separate value for NoOptDefVal flags.
func normalizeSwitchArguments(command *cobra.Command, arguments []string) []string {
	switchNames := map[string]struct{}{}
	collectSwitchNames(command, switchNames)
	if len(switchNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		name := strings.TrimPrefix(current, "--")
		if _, isSwitch := switchNames[name]; isSwitch && name != current && index+1 < len(arguments) {
			next := arguments[index+1]
			if _, known := switchLiterals[strings.ToLower(strings.TrimSpace(next))]; known && !strings.HasPrefix(next, "-") {
				normalized = append(normalized, fmt.Sprintf("--%s=%s", name, next))
				index++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func collectSwitchNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == switchFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectSwitchNames(child, target)
	}
}
