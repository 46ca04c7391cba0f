package githubauth

import (
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// ResolveToken returns the first non-empty GitHub authentication token observed
// through the provided lookup, falling back to the process environment when lookup is nil.
func ResolveToken(lookup EnvironmentLookup) (string, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range tokenPreference {
		value, exists := lookup(key)
		if !exists {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) > 0 {
			return value, true
		}
	}
	return "", false
}
