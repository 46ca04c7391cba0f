package githubapi

import (
	"strings"
	"time"
)

const (
	// DefaultAPIBaseURL is the public GitHub REST endpoint.
	DefaultAPIBaseURL = "https://api.github.com/"
	// DefaultGraphQLURL is the public GitHub GraphQL endpoint.
	DefaultGraphQLURL = "https://api.github.com/graphql"
	// DefaultAffiliation restricts enumeration to repositories owned by the authenticated user.
	DefaultAffiliation = "owner"
	// DefaultPageSize is the largest page size accepted by the repository listing endpoint.
	DefaultPageSize = 100

	maximumPageSizeConstant  = 100
	urlPathSeparatorConstant = "/"
)

// Configuration describes how the client reaches and authenticates against GitHub.
type Configuration struct {
	Token          string
	APIBaseURL     string
	GraphQLURL     string
	Affiliation    string
	PageSize       int
	RequestTimeout time.Duration
}

// Sanitize trims values and applies defaults to unset fields.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Token = strings.TrimSpace(configuration.Token)

	sanitized.APIBaseURL = strings.TrimSpace(configuration.APIBaseURL)
	if len(sanitized.APIBaseURL) == 0 {
		sanitized.APIBaseURL = DefaultAPIBaseURL
	}
	if !strings.HasSuffix(sanitized.APIBaseURL, urlPathSeparatorConstant) {
		sanitized.APIBaseURL += urlPathSeparatorConstant
	}

	sanitized.GraphQLURL = strings.TrimSpace(configuration.GraphQLURL)
	if len(sanitized.GraphQLURL) == 0 {
		sanitized.GraphQLURL = DefaultGraphQLURL
	}

	sanitized.Affiliation = strings.TrimSpace(configuration.Affiliation)
	if len(sanitized.Affiliation) == 0 {
		sanitized.Affiliation = DefaultAffiliation
	}

	if sanitized.PageSize <= 0 || sanitized.PageSize > maximumPageSizeConstant {
		sanitized.PageSize = DefaultPageSize
	}

	if sanitized.RequestTimeout < 0 {
		sanitized.RequestTimeout = 0
	}

	return sanitized
}
