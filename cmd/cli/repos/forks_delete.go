package repos

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubauth"
	"github.com/temirov/forksweep/internal/repos/deletion"
	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	forksDeleteUseConstant              = "repo-forks-delete"
	forksDeleteShortDescription         = "Delete every fork owned by the authenticated account"
	forksDeleteLongDescription          = "repo-forks-delete lists the forks owned by the authenticated GitHub account and deletes each one after the phrase DELETE ALL FORKS is typed. Deletion cannot be undone."
	forksDeleteSummaryLogMessage        = "repo-forks-delete summary"
	forksDeleteOutcomeLogField          = "outcome"
	forksDeletePermissionDeniedLogField = "permission_denied"
)

// ForksDeleteCommandBuilder assembles the repo-forks-delete command.
type ForksDeleteCommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       func() ForksDeleteConfiguration
	GitHubConfigurationProvider func() GitHubConfiguration
	TokenResolver               githubauth.TokenResolver
	Lister                      shared.RepositoryLister
	Deleter                     shared.RepositoryDeleter
	PrompterFactory             PrompterFactory
}

// Build constructs the repo-forks-delete command.
func (builder *ForksDeleteCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   forksDeleteUseConstant,
		Short: forksDeleteShortDescription,
		Long:  forksDeleteLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	bindCommandFlags(command)

	return command, nil
}

func (builder *ForksDeleteCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := resolveLogger(builder.LoggerProvider)

	lister := builder.Lister
	deleter := builder.Deleter
	if lister == nil || deleter == nil {
		client, clientError := resolveGitHubClient(command, builder.TokenResolver, builder.GitHubConfigurationProvider, logger)
		if clientError != nil {
			return clientError
		}
		if lister == nil {
			lister = client
		}
		if deleter == nil {
			deleter = client
		}
	}

	executor := deletion.NewExecutor(deletion.Dependencies{
		Lister:   lister,
		Deleter:  deleter,
		Prompter: resolvePrompter(builder.PrompterFactory, command),
		Output:   resolveOutput(command),
		Logger:   logger,
	})

	summary, executionError := executor.Execute(command.Context(), deletion.Options{
		ConfirmationPolicy: resolveConfirmationPolicy(command, configuration.AssumeYes),
	})
	if executionError != nil {
		return executionError
	}

	logger.Debug(forksDeleteSummaryLogMessage,
		zap.String(forksDeleteOutcomeLogField, string(summary.Outcome)),
		zap.Strings(forksDeletePermissionDeniedLogField, summary.PermissionDenied),
	)
	return nil
}

func (builder *ForksDeleteCommandBuilder) resolveConfiguration() ForksDeleteConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().ForksDelete
	}
	return builder.ConfigurationProvider()
}
