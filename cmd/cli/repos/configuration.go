package repos

import (
	"strings"
	"time"

	"github.com/temirov/forksweep/internal/githubapi"
)

const (
	forksDeleteConfigurationKeyConstant = "forks_delete"
	privatizeConfigurationKeyConstant   = "privatize"
	forksDetachConfigurationKeyConstant = "forks_detach"
	configurationAssumeYesKeyConstant   = "assume_yes"
	githubTokenSourceKeyConstant        = "token_source"
	githubAPIBaseURLKeyConstant         = "api_base_url"
	githubGraphQLURLKeyConstant         = "graphql_url"
	githubAffiliationKeyConstant        = "affiliation"
	githubPageSizeKeyConstant           = "page_size"
	githubRequestTimeoutKeyConstant     = "request_timeout"
	configurationKeySeparatorConstant   = "."
	defaultRequestTimeoutConstant       = time.Duration(0)
	defaultTokenSourceConstant          = ""
)

// GitHubConfiguration describes how commands authenticate against and reach GitHub.
type GitHubConfiguration struct {
	TokenSource    string        `mapstructure:"token_source"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	GraphQLURL     string        `mapstructure:"graphql_url"`
	Affiliation    string        `mapstructure:"affiliation"`
	PageSize       int           `mapstructure:"page_size"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ToolsConfiguration captures per-command configuration sections.
type ToolsConfiguration struct {
	ForksDelete ForksDeleteConfiguration `mapstructure:"forks_delete"`
	Privatize   PrivatizeConfiguration   `mapstructure:"privatize"`
	ForksDetach ForksDetachConfiguration `mapstructure:"forks_detach"`
}

// ForksDeleteConfiguration describes configuration values for repo-forks-delete.
type ForksDeleteConfiguration struct {
	AssumeYes bool `mapstructure:"assume_yes"`
}

// PrivatizeConfiguration describes configuration values for repo-privatize.
type PrivatizeConfiguration struct {
	AssumeYes bool `mapstructure:"assume_yes"`
}

// ForksDetachConfiguration describes configuration values for repo-forks-detach.
type ForksDetachConfiguration struct {
	AssumeYes bool `mapstructure:"assume_yes"`
}

// DefaultGitHubConfiguration returns the public GitHub endpoints with owner affiliation.
func DefaultGitHubConfiguration() GitHubConfiguration {
	return GitHubConfiguration{
		TokenSource:    defaultTokenSourceConstant,
		APIBaseURL:     githubapi.DefaultAPIBaseURL,
		GraphQLURL:     githubapi.DefaultGraphQLURL,
		Affiliation:    githubapi.DefaultAffiliation,
		PageSize:       githubapi.DefaultPageSize,
		RequestTimeout: defaultRequestTimeoutConstant,
	}
}

// DefaultToolsConfiguration returns baseline configuration values for the fork commands.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{
		ForksDelete: ForksDeleteConfiguration{AssumeYes: false},
		Privatize:   PrivatizeConfiguration{AssumeYes: false},
		ForksDetach: ForksDetachConfiguration{AssumeYes: false},
	}
}

// DefaultGitHubConfigurationValues produces Viper defaults for the GitHub section rooted at rootKey.
func DefaultGitHubConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultGitHubConfiguration()
	return map[string]any{
		joinConfigurationKey(rootKey, githubTokenSourceKeyConstant):    defaults.TokenSource,
		joinConfigurationKey(rootKey, githubAPIBaseURLKeyConstant):     defaults.APIBaseURL,
		joinConfigurationKey(rootKey, githubGraphQLURLKeyConstant):     defaults.GraphQLURL,
		joinConfigurationKey(rootKey, githubAffiliationKeyConstant):    defaults.Affiliation,
		joinConfigurationKey(rootKey, githubPageSizeKeyConstant):       defaults.PageSize,
		joinConfigurationKey(rootKey, githubRequestTimeoutKeyConstant): defaults.RequestTimeout,
	}
}

// DefaultConfigurationValues produces Viper defaults for the fork commands rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultToolsConfiguration()
	return map[string]any{
		joinConfigurationKey(rootKey, forksDeleteConfigurationKeyConstant, configurationAssumeYesKeyConstant): defaults.ForksDelete.AssumeYes,
		joinConfigurationKey(rootKey, privatizeConfigurationKeyConstant, configurationAssumeYesKeyConstant):   defaults.Privatize.AssumeYes,
		joinConfigurationKey(rootKey, forksDetachConfigurationKeyConstant, configurationAssumeYesKeyConstant): defaults.ForksDetach.AssumeYes,
	}
}

// APIConfiguration converts the section into client settings. The token is filled in after resolution.
func (configuration GitHubConfiguration) APIConfiguration() githubapi.Configuration {
	return githubapi.Configuration{
		APIBaseURL:     configuration.APIBaseURL,
		GraphQLURL:     configuration.GraphQLURL,
		Affiliation:    configuration.Affiliation,
		PageSize:       configuration.PageSize,
		RequestTimeout: configuration.RequestTimeout,
	}.Sanitize()
}

func (configuration GitHubConfiguration) sanitize() GitHubConfiguration {
	sanitized := configuration
	sanitized.TokenSource = strings.TrimSpace(configuration.TokenSource)
	apiConfiguration := configuration.APIConfiguration()
	sanitized.APIBaseURL = apiConfiguration.APIBaseURL
	sanitized.GraphQLURL = apiConfiguration.GraphQLURL
	sanitized.Affiliation = apiConfiguration.Affiliation
	sanitized.PageSize = apiConfiguration.PageSize
	sanitized.RequestTimeout = apiConfiguration.RequestTimeout
	return sanitized
}

func joinConfigurationKey(segments ...string) string {
	return strings.Join(segments, configurationKeySeparatorConstant)
}
