package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitingest-agent/internal/encoding"
	"github.com/temirov/gitingest-agent/internal/filters"
	"github.com/temirov/gitingest-agent/internal/output"
	"github.com/temirov/gitingest-agent/internal/repository"
	"github.com/temirov/gitingest-agent/internal/tokenizer"
	"github.com/temirov/gitingest-agent/internal/types"
	"github.com/temirov/gitingest-agent/internal/workflow"
)

const (
	checkSizeUse              = types.CommandCheckSize + " <url>"
	checkSizeShortDescription = "estimate repository tokens and choose an extraction route"
	checkSizeLongDescription  = `Estimate the token count of a repository without saving any content.
Repositories under 200,000 tokens route to full extraction; larger ones to selective extraction.`
	checkSizeUsageExample = `  gitingest-agent check-size https://github.com/tiangolo/fastapi`

	extractFullUse              = types.CommandExtractFull + " <url>"
	extractFullShortDescription = "extract the entire repository"
	extractFullLongDescription  = `Extract every file of a repository into digest.txt.
Intended for repositories under 200,000 tokens.`
	extractFullUsageExample = `  gitingest-agent extract-full https://github.com/octocat/Hello-World

  # Copy the digest to the clipboard as well
  gitingest-agent extract-full --copy https://github.com/octocat/Hello-World`

	extractTreeUse              = types.CommandExtractTree + " <url>"
	extractTreeShortDescription = "extract the repository file tree"
	extractTreeLongDescription  = `Extract the directory structure of a repository with minimal file content.
Use it on large repositories before choosing a content type for extract-specific.`
	extractTreeUsageExample = `  gitingest-agent extract-tree https://github.com/fastapi/fastapi`

	extractSpecificUse              = types.CommandExtractSpecific + " <url> --type <content-type>"
	extractSpecificShortDescription = "extract filtered content with overflow prevention"
	extractSpecificLongDescription  = `Extract a preset selection of files:
  docs          documentation files (*.md, docs/**, README)
  installation  setup files (README, setup.py, package.json)
  code          source code (src/**/*.py, lib/**/*.py)
  auto          README and markdown docs
When the result exceeds 200,000 tokens you are asked to narrow the selection or proceed.`
	extractSpecificUsageExample = `  gitingest-agent extract-specific https://github.com/fastapi/fastapi --type docs`
	typeFlagDescription         = "content type to extract (docs, installation, code, auto)"

	fullEncodingWarningLimit = 5
	countFailedMessage       = "Failed to read extracted content"
	modelCountFormat         = "Model token count (%s): %s"
	copiedMessage            = "Copied to clipboard"
	copyFailedMessage        = "Failed to copy to clipboard"
)

func encodingDetector() encoding.Detector {
	return encoding.NewDetector()
}

func createCheckSizeCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:     checkSizeUse,
		Short:   checkSizeShortDescription,
		Long:    checkSizeLongDescription,
		Example: checkSizeUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			locator, err := repository.ParseLocator(arguments[0])
			if err != nil {
				return err
			}
			service, err := app.extractorService()
			if err != nil {
				return err
			}
			reporter := newReporter(command)
			reporter.Line("Checking repository size...")
			report, err := service.Report(command.Context(), locator)
			if err != nil {
				return err
			}
			tokens := tokenizer.EstimateFromReport(report)
			reporter.TokenCount(tokens)
			reporter.Line("Route: %s", tokenizer.Route(tokens))
			return nil
		},
	}
}

func createExtractFullCommand(app *application) *cobra.Command {
	var copyEnabled bool
	command := &cobra.Command{
		Use:     extractFullUse,
		Short:   extractFullShortDescription,
		Long:    extractFullLongDescription,
		Example: extractFullUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			locator, err := repository.ParseLocator(arguments[0])
			if err != nil {
				return err
			}
			service, err := app.extractorService()
			if err != nil {
				return err
			}
			reporter := newReporter(command)
			reporter.Line("Extracting full repository...")
			result, err := service.ExtractAll(command.Context(), locator)
			if err != nil {
				return err
			}
			tokens, err := tokenizer.CountFile(result.Path)
			if err != nil {
				return types.StorageError(countFailedMessage, err)
			}
			reporter.Success("Saved to: %s", result.Path)
			reporter.TokenCount(tokens)
			app.reportModelCount(reporter, result.Path)
			reporter.EncodingWarnings(result.EncodingErrors, fullEncodingWarningLimit)
			if copyEnabled || (!command.Flags().Changed(copyFlagName) && app.copyByDefault()) {
				content, readErr := os.ReadFile(result.Path)
				if readErr != nil {
					return types.StorageError(countFailedMessage, readErr)
				}
				app.copyText(reporter, string(content))
			}
			return nil
		},
	}
	registerSwitch(command.Flags(), &copyEnabled, copyFlagName, false, copyFlagDescription)
	return command
}

func createExtractTreeCommand(app *application) *cobra.Command {
	var copyEnabled bool
	command := &cobra.Command{
		Use:     extractTreeUse,
		Short:   extractTreeShortDescription,
		Long:    extractTreeLongDescription,
		Example: extractTreeUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			locator, err := repository.ParseLocator(arguments[0])
			if err != nil {
				return err
			}
			service, err := app.extractorService()
			if err != nil {
				return err
			}
			reporter := newReporter(command)
			reporter.Line("Extracting tree structure...")
			result, err := service.ExtractTree(command.Context(), locator)
			if err != nil {
				return err
			}
			reporter.Blank()
			reporter.Success("Tree structure extracted")
			reporter.Blank()
			reporter.Line("%s", strings.TrimRight(result.Content, "\n"))
			reporter.Blank()
			reporter.Success("Saved to: %s", result.Path)
			reporter.EncodingWarnings(result.EncodingErrors, 0)
			if copyEnabled || (!command.Flags().Changed(copyFlagName) && app.copyByDefault()) {
				app.copyText(reporter, result.Content)
			}
			return nil
		},
	}
	registerSwitch(command.Flags(), &copyEnabled, copyFlagName, false, copyFlagDescription)
	return command
}

func createExtractSpecificCommand(app *application) *cobra.Command {
	var contentType string
	command := &cobra.Command{
		Use:     extractSpecificUse,
		Short:   extractSpecificShortDescription,
		Long:    extractSpecificLongDescription,
		Example: extractSpecificUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			locator, err := repository.ParseLocator(arguments[0])
			if err != nil {
				return err
			}
			if _, err := filters.ParseContentType(contentType); err != nil {
				return err
			}
			service, err := app.extractorService()
			if err != nil {
				return err
			}
			reporter := newReporter(command)
			prompter := app.dependencies.Prompter
			if prompter == nil {
				prompter = workflow.NewConsolePrompter(command.InOrStdin(), command.OutOrStdout())
			}
			loop := workflow.NewLoop(service, prompter, reporter, app.logger)
			outcome, err := loop.Run(command.Context(), locator, contentType)
			if err != nil {
				return err
			}
			app.logger.Debug("selective extraction finished",
				zap.Int("iterations", outcome.Iterations),
				zap.Int("tokens", outcome.Tokens),
				zap.Bool("overflowAccepted", outcome.OverflowAccepted),
			)
			app.reportModelCount(reporter, outcome.Result.Path)
			return nil
		},
	}
	command.Flags().StringVar(&contentType, typeFlagName, "", typeFlagDescription)
	_ = command.MarkFlagRequired(typeFlagName)
	return command
}

func newReporter(command *cobra.Command) *output.Reporter {
	return output.NewReporter(command.OutOrStdout(), command.ErrOrStderr())
}

// reportModelCount prints a tokenizer-accurate count when tokens.model is configured.
// Routing never uses it; failures are logged and skipped.
func (app *application) reportModelCount(reporter *output.Reporter, path string) {
	model := strings.TrimSpace(app.configuration.Tokens.Model)
	if model == "" {
		return
	}
	counter, resolvedModel, err := tokenizer.NewCounter(tokenizer.Config{Model: model})
	if err != nil {
		app.logger.Warn("model tokenizer unavailable", zap.String("model", model), zap.Error(err))
		return
	}
	count, err := tokenizer.CountFileWith(counter, path)
	if err != nil {
		app.logger.Warn("model token count failed", zap.String("path", path), zap.Error(err))
		return
	}
	reporter.Line(modelCountFormat, resolvedModel, output.FormatTokenCount(count))
}

func (app *application) copyText(reporter *output.Reporter, text string) {
	if err := app.copier().Copy(text); err != nil {
		app.logger.Warn(copyFailedMessage, zap.Error(err))
		reporter.Warning("%s: %v", copyFailedMessage, err)
		return
	}
	reporter.Success(copiedMessage)
}
