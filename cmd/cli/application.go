package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/forksweep/cmd/cli/repos"
	"github.com/temirov/forksweep/internal/utils"
)

const (
	applicationNameConstant                 = "forksweep"
	applicationShortDescriptionConstant     = "Bulk clean-up of the repositories owned by a GitHub account"
	applicationLongDescriptionConstant      = "forksweep enumerates the repositories owned by the authenticated GitHub account and deletes forks, privatizes public repositories, or detaches forks from their networks behind a typed confirmation phrase."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level (debug, info, warn, error)."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	githubConfigurationKeyConstant          = "github"
	toolsConfigurationKeyConstant           = "tools"
	environmentPrefixConstant               = "FORKSWEEP"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = "forksweep"
)

// applicationVersion is overridden at build time through -ldflags.
var applicationVersion = "dev"

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	GitHub repos.GitHubConfiguration      `mapstructure:"github"`
	Tools  repos.ToolsConfiguration       `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       applicationVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	gitHubConfigurationProvider := func() repos.GitHubConfiguration {
		return application.configuration.GitHub
	}

	forksDeleteBuilder := repos.ForksDeleteCommandBuilder{
		LoggerProvider:              loggerProvider,
		GitHubConfigurationProvider: gitHubConfigurationProvider,
		ConfigurationProvider: func() repos.ForksDeleteConfiguration {
			return application.configuration.Tools.ForksDelete
		},
	}
	forksDeleteCommand, forksDeleteBuildError := forksDeleteBuilder.Build()
	if forksDeleteBuildError == nil {
		cobraCommand.AddCommand(forksDeleteCommand)
	}

	privatizeBuilder := repos.PrivatizeCommandBuilder{
		LoggerProvider:              loggerProvider,
		GitHubConfigurationProvider: gitHubConfigurationProvider,
		ConfigurationProvider: func() repos.PrivatizeConfiguration {
			return application.configuration.Tools.Privatize
		},
	}
	privatizeCommand, privatizeBuildError := privatizeBuilder.Build()
	if privatizeBuildError == nil {
		cobraCommand.AddCommand(privatizeCommand)
	}

	forksDetachBuilder := repos.ForksDetachCommandBuilder{
		LoggerProvider:              loggerProvider,
		GitHubConfigurationProvider: gitHubConfigurationProvider,
		ConfigurationProvider: func() repos.ForksDetachConfiguration {
			return application.configuration.Tools.ForksDetach
		},
	}
	forksDetachCommand, forksDetachBuildError := forksDetachBuilder.Build()
	if forksDetachBuildError == nil {
		cobraCommand.AddCommand(forksDetachCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the command hierarchy under a context that SIGINT or SIGTERM cancels,
// aborting the in-flight GitHub request.
func (application *Application) ExecuteContext(parentContext context.Context) error {
	signalContext, stopSignalNotifications := signal.NotifyContext(parentContext, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignalNotifications()

	executionError := application.rootCommand.ExecuteContext(signalContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// DefaultConfigurationValues returns the Viper defaults applied beneath every configuration layer.
func DefaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range repos.DefaultGitHubConfigurationValues(githubConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues(toolsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	return defaultValues
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, DefaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// configurationSearchPaths lists the working directory followed by the per-user configuration directory.
func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}
