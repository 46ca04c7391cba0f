package repos

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubauth"
	"github.com/temirov/forksweep/internal/repos/shared"
	"github.com/temirov/forksweep/internal/repos/visibility"
)

const (
	privatizeUseConstant          = "repo-privatize"
	privatizeShortDescription     = "Make every public non-fork repository private"
	privatizeLongDescription      = "repo-privatize lists the public repositories owned by the authenticated GitHub account, skips public forks, and makes the rest private after the phrase MAKE PRIVATE is typed."
	privatizeSummaryLogMessage    = "repo-privatize summary"
	privatizeOutcomeLogField      = "outcome"
	privatizeSkippedForksLogField = "skipped_forks"
)

// PrivatizeCommandBuilder assembles the repo-privatize command.
type PrivatizeCommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       func() PrivatizeConfiguration
	GitHubConfigurationProvider func() GitHubConfiguration
	TokenResolver               githubauth.TokenResolver
	Lister                      shared.RepositoryLister
	Editor                      shared.VisibilityEditor
	PrompterFactory             PrompterFactory
}

// Build constructs the repo-privatize command.
func (builder *PrivatizeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   privatizeUseConstant,
		Short: privatizeShortDescription,
		Long:  privatizeLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	bindCommandFlags(command)

	return command, nil
}

func (builder *PrivatizeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := resolveLogger(builder.LoggerProvider)

	lister := builder.Lister
	editor := builder.Editor
	if lister == nil || editor == nil {
		client, clientError := resolveGitHubClient(command, builder.TokenResolver, builder.GitHubConfigurationProvider, logger)
		if clientError != nil {
			return clientError
		}
		if lister == nil {
			lister = client
		}
		if editor == nil {
			editor = client
		}
	}

	executor := visibility.NewExecutor(visibility.Dependencies{
		Lister:   lister,
		Editor:   editor,
		Prompter: resolvePrompter(builder.PrompterFactory, command),
		Output:   resolveOutput(command),
		Logger:   logger,
	})

	summary, executionError := executor.Execute(command.Context(), visibility.Options{
		ConfirmationPolicy: resolveConfirmationPolicy(command, configuration.AssumeYes),
	})
	if executionError != nil {
		return executionError
	}

	logger.Debug(privatizeSummaryLogMessage,
		zap.String(privatizeOutcomeLogField, string(summary.Outcome)),
		zap.Int(privatizeSkippedForksLogField, summary.SkippedForks),
	)
	return nil
}

func (builder *PrivatizeCommandBuilder) resolveConfiguration() PrivatizeConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().Privatize
	}
	return builder.ConfigurationProvider()
}
