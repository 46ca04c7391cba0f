package repos

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubauth"
	"github.com/temirov/forksweep/internal/repos/detach"
	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	forksDetachUseConstant         = "repo-forks-detach"
	forksDetachShortDescription    = "Detach every fork from its network and make it private"
	forksDetachLongDescription     = "repo-forks-detach detaches each fork owned by the authenticated GitHub account from its upstream fork network and then makes it private, after the phrase DETACH FORKS is typed. Forks GitHub refuses to privatize are reported with manual steps."
	forksDetachSummaryLogMessage   = "repo-forks-detach summary"
	forksDetachOutcomeLogField     = "outcome"
	forksDetachUnsupportedLogField = "unsupported"
)

// ForksDetachCommandBuilder assembles the repo-forks-detach command.
type ForksDetachCommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       func() ForksDetachConfiguration
	GitHubConfigurationProvider func() GitHubConfiguration
	TokenResolver               githubauth.TokenResolver
	Lister                      shared.RepositoryLister
	Detacher                    shared.ForkNetworkDetacher
	Editor                      shared.VisibilityEditor
	PrompterFactory             PrompterFactory
}

// Build constructs the repo-forks-detach command.
func (builder *ForksDetachCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   forksDetachUseConstant,
		Short: forksDetachShortDescription,
		Long:  forksDetachLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	bindCommandFlags(command)

	return command, nil
}

func (builder *ForksDetachCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := resolveLogger(builder.LoggerProvider)

	lister := builder.Lister
	detacher := builder.Detacher
	editor := builder.Editor
	if lister == nil || detacher == nil || editor == nil {
		client, clientError := resolveGitHubClient(command, builder.TokenResolver, builder.GitHubConfigurationProvider, logger)
		if clientError != nil {
			return clientError
		}
		if lister == nil {
			lister = client
		}
		if detacher == nil {
			detacher = client
		}
		if editor == nil {
			editor = client
		}
	}

	executor := detach.NewExecutor(detach.Dependencies{
		Lister:   lister,
		Detacher: detacher,
		Editor:   editor,
		Prompter: resolvePrompter(builder.PrompterFactory, command),
		Output:   resolveOutput(command),
		Logger:   logger,
	})

	summary, executionError := executor.Execute(command.Context(), detach.Options{
		ConfirmationPolicy: resolveConfirmationPolicy(command, configuration.AssumeYes),
	})
	if executionError != nil {
		return executionError
	}

	logger.Debug(forksDetachSummaryLogMessage,
		zap.String(forksDetachOutcomeLogField, string(summary.Outcome)),
		zap.Int(forksDetachUnsupportedLogField, summary.Unsupported),
	)
	return nil
}

func (builder *ForksDetachCommandBuilder) resolveConfiguration() ForksDetachConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().ForksDetach
	}
	return builder.ConfigurationProvider()
}
