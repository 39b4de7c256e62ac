package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/gitingest-agent/internal/cli"
	"github.com/temirov/gitingest-agent/internal/output"
	"github.com/temirov/gitingest-agent/internal/utils"
)

const failureExitCode = 1

// main is the entry point for the gitingest-agent command.
func main() {
	loggerInstance, loggerLevel, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	applicationExecutionError := cli.Execute(loggerInstance, loggerLevel)
	if applicationExecutionError == nil {
		_ = loggerInstance.Sync()
		return
	}
	loggerInstance.Debug("command failed", zap.Error(applicationExecutionError))
	_ = loggerInstance.Sync()
	output.NewReporter(os.Stdout, os.Stderr).Error("%s", cli.DescribeError(applicationExecutionError))
	os.Exit(failureExitCode)
}
