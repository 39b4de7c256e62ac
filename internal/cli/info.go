package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/temirov/gitingest-agent/internal/github"
	"github.com/temirov/gitingest-agent/internal/output"
	"github.com/temirov/gitingest-agent/internal/repository"
	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	infoUse              = types.CommandInfo + " <url>"
	infoShortDescription = "show repository metadata from the GitHub API"
	infoLongDescription  = `Show the description, default branch, language, stars, and size of a repository.
Set github.token or GITHUB_TOKEN for private repositories and higher rate limits.`
	infoUsageExample = `  gitingest-agent info https://github.com/tiangolo/fastapi`

	kilobyte = 1024
)

func createInfoCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:     infoUse,
		Short:   infoShortDescription,
		Long:    infoLongDescription,
		Example: infoUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			locator, err := repository.ParseLocator(arguments[0])
			if err != nil {
				return err
			}
			lookup := app.repositoryLookup(command.Context())
			info, err := lookup.Repository(command.Context(), locator)
			if err != nil {
				return err
			}
			reporter := newReporter(command)
			reporter.Line("Repository: %s", info.FullName)
			if info.Description != "" {
				reporter.Line("Description: %s", info.Description)
			}
			reporter.Line("Default branch: %s", info.DefaultBranch)
			if info.Language != "" {
				reporter.Line("Language: %s", info.Language)
			}
			reporter.Line("Stars: %s", output.FormatNumber(info.Stars))
			reporter.Line("Forks: %s", output.FormatNumber(info.Forks))
			reporter.Line("Size: %s", output.FormatBytes(int64(info.SizeKilobytes)*kilobyte))
			if info.Archived {
				reporter.Warning("Repository is archived")
			}
			return nil
		},
	}
}

func (app *application) repositoryLookup(ctx context.Context) RepositoryLookup {
	token := app.configuration.GitHub.Token
	if app.dependencies.NewGitHub != nil {
		return app.dependencies.NewGitHub(ctx, token)
	}
	return github.NewClient(ctx, token)
}
