// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/gitingest-agent/internal/config"
	"github.com/temirov/gitingest-agent/internal/extractor"
	"github.com/temirov/gitingest-agent/internal/github"
	"github.com/temirov/gitingest-agent/internal/services/clipboard"
	"github.com/temirov/gitingest-agent/internal/storage"
	"github.com/temirov/gitingest-agent/internal/types"
	"github.com/temirov/gitingest-agent/internal/utils"
	"github.com/temirov/gitingest-agent/internal/workflow"
)

const (
	rootUse              = utils.ApplicationName
	rootShortDescription = "gitingest-agent command line interface"
	rootLongDescription  = `gitingest-agent extracts GitHub repositories into text for analysis.
It estimates repository size, routes small repositories to a full extraction,
and extracts filtered content from large ones, prompting to narrow the selection
whenever the result still exceeds 200,000 tokens.`

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "gitingest-agent version: %s\n"

	verboseFlagName        = "verbose"
	verboseFlagDescription = "log extraction tool invocations"
	configFlagName         = "config"
	configFlagDescription  = "path to a configuration file"
	outputDirFlagName      = "output-dir"
	outputDirDescription   = "write artifacts under this directory instead of the detected layout"
	copyFlagName           = "copy"
	copyFlagDescription    = "copy the extracted text to the clipboard"
	typeFlagName           = "type"

	invalidInputLabel     = "Invalid input"
	storageErrorLabel     = "Storage error"
	extractionFailedLabel = "Extraction failed"
	genericErrorLabel     = "Error"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// RepositoryLookup fetches repository metadata for the info command.
type RepositoryLookup interface {
	Repository(ctx context.Context, locator types.Locator) (github.RepositoryInfo, error)
}

// Dependencies replaces collaborators of the commands. Zero values select the real implementations.
type Dependencies struct {
	Runner           extractor.Runner
	Prompter         workflow.Prompter
	Copier           clipboard.Copier
	NewGitHub        func(ctx context.Context, token string) RepositoryLookup
	WorkingDirectory string
	Now              func() time.Time
}

// application holds the state shared by every command of one invocation.
type application struct {
	logger          *zap.Logger
	level           zap.AtomicLevel
	dependencies    Dependencies
	configPath      string
	outputDirectory string
	verbose         bool
	configuration   config.ApplicationConfiguration
}

// Execute runs the gitingest-agent application.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := NewRootCommand(logger, level, Dependencies{})
	rootCommand.SetArgs(normalizeSwitchArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(logger *zap.Logger, level zap.AtomicLevel, dependencies Dependencies) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &application{logger: logger, level: level, dependencies: dependencies}
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return app.prepare(command)
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	registerSwitch(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.outputDirectory, outputDirFlagName, "", outputDirDescription)

	rootCommand.AddCommand(
		createCheckSizeCommand(app),
		createExtractFullCommand(app),
		createExtractTreeCommand(app),
		createExtractSpecificCommand(app),
		createSaveAnalysisCommand(app),
		createInfoCommand(app),
		createInitCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// prepare applies --verbose and resolves configuration once per invocation.
func (app *application) prepare(command *cobra.Command) error {
	if app.verbose {
		app.level.SetLevel(zapcore.DebugLevel)
	}
	if command.Name() == types.CommandInit {
		return nil
	}
	workingDirectory, err := app.workingDirectory()
	if err != nil {
		return err
	}
	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: app.configPath,
	})
	if err != nil {
		return err
	}
	app.configuration = configuration
	app.logger.Debug("configuration resolved",
		zap.String("executable", configuration.GitIngest.Executable),
		zap.String("outputDirectory", configuration.Storage.OutputDirectory),
		zap.String("tokenModel", configuration.Tokens.Model),
	)
	return nil
}

func (app *application) workingDirectory() (string, error) {
	if app.dependencies.WorkingDirectory != "" {
		return app.dependencies.WorkingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

// storageManager resolves the layout for this invocation.
func (app *application) storageManager() (*storage.Manager, error) {
	workingDirectory, err := app.workingDirectory()
	if err != nil {
		return nil, err
	}
	outputDirectory := app.configuration.Storage.OutputDirectory
	if app.outputDirectory != "" {
		outputDirectory = app.outputDirectory
	}
	layout := storage.ResolveLayout(workingDirectory, outputDirectory)
	app.logger.Debug("storage layout resolved",
		zap.Stringer("mode", layout.Mode),
		zap.String("base", layout.BaseDirectory),
	)
	manager := storage.NewManager(layout, app.logger)
	if app.dependencies.Now != nil {
		manager = manager.WithClock(app.dependencies.Now)
	}
	return manager, nil
}

func (app *application) extractorService() (*extractor.Service, error) {
	manager, err := app.storageManager()
	if err != nil {
		return nil, err
	}
	runner := app.dependencies.Runner
	if runner == nil {
		runner = extractor.NewCommandRunner(app.configuration.GitIngest.Executable, app.logger)
	}
	gitingest := app.configuration.GitIngest
	timeouts := extractor.Timeouts{
		Full:     gitingest.FullTimeout,
		Filtered: gitingest.FilteredTimeout,
		Report:   gitingest.ReportTimeout,
		Tree:     gitingest.TreeTimeout,
	}
	return extractor.NewService(runner, manager, encodingDetector(), timeouts), nil
}

func (app *application) copier() clipboard.Copier {
	if app.dependencies.Copier != nil {
		return app.dependencies.Copier
	}
	return clipboard.NewService()
}

func (app *application) copyByDefault() bool {
	copySetting := app.configuration.Output.Copy
	return copySetting != nil && *copySetting
}

// DescribeError renders err as "<category>: <message>" for the fatal error line.
func DescribeError(err error) string {
	var applicationError *types.Error
	if !errors.As(err, &applicationError) {
		return genericErrorLabel + ": " + err.Error()
	}
	switch applicationError.Kind {
	case types.KindValidation:
		return invalidInputLabel + ": " + applicationError.Error()
	case types.KindStorage:
		return storageErrorLabel + ": " + applicationError.Error()
	case types.KindExtraction:
		message := applicationError.Message
		if message == "" {
			message = applicationError.Error()
		}
		return extractionFailedLabel + ": " + message
	default:
		return genericErrorLabel + ": " + applicationError.Error()
	}
}
