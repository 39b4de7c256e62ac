package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitingest-agent/internal/config"
	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	initUse              = types.CommandInit
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to .gitingest-agent.yaml in the working directory,
or to ~/.gitingest-agent/config.yaml with --global.`
	initUsageExample = `  gitingest-agent init
  gitingest-agent init --global --force`

	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration file"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
)

func createInitCommand(app *application) *cobra.Command {
	var global bool
	var force bool
	command := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Long:    initLongDescription,
		Example: initUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := app.workingDirectory()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if err != nil {
				return err
			}
			newReporter(command).Success("Configuration written to %s", path)
			return nil
		},
	}
	registerSwitch(command.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerSwitch(command.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return command
}
