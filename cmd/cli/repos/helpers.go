package repos

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubauth"
	"github.com/temirov/forksweep/internal/repos/dependencies"
	"github.com/temirov/forksweep/internal/repos/shared"
	"github.com/temirov/forksweep/internal/utils"
	flagutils "github.com/temirov/forksweep/internal/utils/flags"
)

const (
	tokenSourceFlagNameConstant    = "token-source"
	tokenSourceFlagUsageConstant   = "Token source override (env:NAME or file:PATH). Defaults to GH_TOKEN, GITHUB_TOKEN, then GITHUB_API_TOKEN."
	assumeYesFlagNameConstant      = "yes"
	assumeYesFlagShorthandConstant = "y"
	assumeYesFlagUsageConstant     = "Skip the typed confirmation phrase."
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// PrompterFactory creates confirmation prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) shared.ConfirmationPrompter

// GitHubClient combines every repository operation the fork commands issue.
type GitHubClient interface {
	shared.RepositoryLister
	shared.RepositoryDeleter
	shared.VisibilityEditor
	shared.ForkNetworkDetacher
}

func bindCommandFlags(command *cobra.Command) {
	command.Flags().String(tokenSourceFlagNameConstant, "", tokenSourceFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, assumeYesFlagNameConstant, assumeYesFlagShorthandConstant, false, assumeYesFlagUsageConstant)
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolvePrompter(factory PrompterFactory, command *cobra.Command) shared.ConfirmationPrompter {
	var prompter shared.ConfirmationPrompter
	if factory != nil {
		prompter = factory(command)
	}
	return dependencies.ResolvePrompter(prompter, command.InOrStdin(), command.OutOrStdout())
}

func resolveOutput(command *cobra.Command) io.Writer {
	return utils.NewFlushingWriter(command.OutOrStdout())
}

// resolveConfirmationPolicy lets an explicit --yes flag override the configured assume_yes value.
func resolveConfirmationPolicy(command *cobra.Command, configuredAssumeYes bool) shared.ConfirmationPolicy {
	assumeYes := configuredAssumeYes
	if command.Flags().Changed(assumeYesFlagNameConstant) {
		if flagValue, flagError := command.Flags().GetBool(assumeYesFlagNameConstant); flagError == nil {
			assumeYes = flagValue
		}
	}
	return shared.ConfirmationPolicyFromBool(assumeYes)
}

func resolveGitHubConfiguration(provider func() GitHubConfiguration) GitHubConfiguration {
	if provider == nil {
		return DefaultGitHubConfiguration()
	}
	return provider().sanitize()
}

// resolveGitHubClient builds an API client, preferring --token-source over the configured token source.
func resolveGitHubClient(command *cobra.Command, tokenResolver githubauth.TokenResolver, configurationProvider func() GitHubConfiguration, logger *zap.Logger) (GitHubClient, error) {
	configuration := resolveGitHubConfiguration(configurationProvider)

	tokenSource := configuration.TokenSource
	if command.Flags().Changed(tokenSourceFlagNameConstant) {
		if flagValue, flagError := command.Flags().GetString(tokenSourceFlagNameConstant); flagError == nil {
			tokenSource = flagValue
		}
	}

	client, clientError := dependencies.ResolveGitHubClient(command.Context(), tokenResolver, tokenSource, configuration.APIConfiguration(), logger)
	if clientError != nil {
		return nil, clientError
	}
	return client, nil
}
