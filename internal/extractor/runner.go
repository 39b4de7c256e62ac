// Package extractor drives the gitingest executable and turns its output into extraction results.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitingest-agent/internal/types"
)

// DefaultExecutable is the name of the wrapped extraction tool.
const DefaultExecutable = "gitingest"

// terminationGracePeriod bounds how long Run waits for output pipes after the
// tool is killed. Descendants such as git can hold them open past the deadline.
const terminationGracePeriod = 2 * time.Second

const (
	timeoutMessageFormat       = "GitIngest timed out after %ds"
	executableMissingFormat    = "%s executable not found; install it with 'pip install gitingest'"
	repositoryNotFoundFormat   = "Repository not found: %s"
	authenticationFailedText   = "Authentication failed (private repository?)"
	networkFailureText         = "Network error: Unable to reach GitHub"
	genericFailureFormat       = "GitIngest error: %s"
	defaultRepositoryReference = "repository"
)

// Runner executes the extraction tool with arguments and returns its standard output.
type Runner interface {
	Run(ctx context.Context, arguments []string, timeout time.Duration) (string, error)
}

// CommandRunner runs the extraction tool as a subprocess.
type CommandRunner struct {
	executable string
	logger     *zap.Logger
}

// NewCommandRunner constructs a CommandRunner. Empty executable selects DefaultExecutable.
func NewCommandRunner(executable string, logger *zap.Logger) CommandRunner {
	if strings.TrimSpace(executable) == "" {
		executable = DefaultExecutable
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return CommandRunner{executable: executable, logger: logger}
}

// Run executes the tool. A timeout is fatal for the call and is not retried.
func (runner CommandRunner) Run(ctx context.Context, arguments []string, timeout time.Duration) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runContext, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204
	command := exec.CommandContext(runContext, runner.executable, arguments...)
	configureProcessTree(command)
	command.WaitDelay = terminationGracePeriod
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	startedAt := time.Now()
	runner.logger.Debug("running extraction tool",
		zap.String("executable", runner.executable),
		zap.Strings("arguments", arguments),
		zap.Duration("timeout", timeout),
	)
	runErr := command.Run()
	runner.logger.Debug("extraction tool finished",
		zap.Duration("elapsed", time.Since(startedAt)),
		zap.Int("stdoutBytes", stdout.Len()),
		zap.Error(runErr),
	)

	if errors.Is(runContext.Err(), context.DeadlineExceeded) {
		return "", types.ExtractionError(types.ReasonTimeout, fmt.Sprintf(timeoutMessageFormat, int(timeout.Seconds())), runContext.Err())
	}
	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) {
			return "", types.ExtractionError(types.ReasonGeneric, fmt.Sprintf(executableMissingFormat, runner.executable), runErr)
		}
		return "", ClassifyFailure(arguments, stderr.String())
	}
	return stdout.String(), nil
}

// ClassifyFailure maps the tool's error output onto an extraction error.
func ClassifyFailure(arguments []string, stderr string) error {
	lowered := strings.ToLower(stderr)
	switch {
	case strings.Contains(lowered, "not found") || strings.Contains(lowered, "404"):
		reference := defaultRepositoryReference
		if len(arguments) > 0 {
			reference = arguments[0]
		}
		return types.ExtractionError(types.ReasonNotFound, fmt.Sprintf(repositoryNotFoundFormat, reference), nil)
	case strings.Contains(lowered, "bad credentials") ||
		strings.Contains(lowered, "authentication") ||
		strings.Contains(lowered, "permission denied"):
		return types.ExtractionError(types.ReasonAuth, authenticationFailedText, nil)
	case strings.Contains(lowered, "could not resolve host"):
		return types.ExtractionError(types.ReasonNetwork, networkFailureText, nil)
	default:
		return types.ExtractionError(types.ReasonGeneric, fmt.Sprintf(genericFailureFormat, strings.TrimSpace(stderr)), nil)
	}
}

var _ Runner = CommandRunner{}
