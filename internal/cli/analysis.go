package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/gitingest-agent/internal/repository"
	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	saveAnalysisUse              = types.CommandSaveAnalysis + " <url> --type <analysis-type>"
	saveAnalysisShortDescription = "save an analysis document for a repository"
	saveAnalysisLongDescription  = `Save markdown analysis content with a metadata header.
Content is read from --file, or from standard input when --file is "-" or omitted.
In a project layout the document lands in analyze/<type>/<repo>.md; otherwise next to the extracted artifacts.`
	saveAnalysisUsageExample = `  gitingest-agent save-analysis https://github.com/facebook/react --type installation --file notes.md

  # Pipe the analysis from another tool
  cat notes.md | gitingest-agent save-analysis https://github.com/facebook/react --type installation`

	fileFlagName                = "file"
	fileFlagDescription         = `analysis file to read, "-" for standard input`
	analysisTypeFlagDescription = "analysis type, e.g. installation or architecture"
	standardInputPath           = "-"

	emptyAnalysisMessage    = "Analysis content is empty"
	analysisReadFailMessage = "Failed to read analysis content"
)

func createSaveAnalysisCommand(app *application) *cobra.Command {
	var analysisType string
	var sourcePath string
	command := &cobra.Command{
		Use:     saveAnalysisUse,
		Short:   saveAnalysisShortDescription,
		Long:    saveAnalysisLongDescription,
		Example: saveAnalysisUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			locator, err := repository.ParseLocator(arguments[0])
			if err != nil {
				return err
			}
			content, err := readAnalysisContent(command.InOrStdin(), sourcePath)
			if err != nil {
				return err
			}
			manager, err := app.storageManager()
			if err != nil {
				return err
			}
			savedPath, err := manager.SaveAnalysis(content, locator, analysisType)
			if err != nil {
				return err
			}
			newReporter(command).Success("Analysis saved to: %s", savedPath)
			return nil
		},
	}
	command.Flags().StringVar(&analysisType, typeFlagName, "", analysisTypeFlagDescription)
	command.Flags().StringVar(&sourcePath, fileFlagName, standardInputPath, fileFlagDescription)
	_ = command.MarkFlagRequired(typeFlagName)
	return command
}

func readAnalysisContent(standardInput io.Reader, sourcePath string) (string, error) {
	var data []byte
	var err error
	if sourcePath == "" || sourcePath == standardInputPath {
		data, err = io.ReadAll(standardInput)
	} else {
		// #nosec G304
		data, err = os.ReadFile(sourcePath)
	}
	if err != nil {
		return "", types.StorageError(analysisReadFailMessage, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", types.ValidationError(emptyAnalysisMessage)
	}
	return string(data), nil
}
