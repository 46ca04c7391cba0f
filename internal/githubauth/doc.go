// Package githubauth locates the GitHub personal access token used by forksweep.
//
// Tokens come either from an explicit token source declaration (env:NAME or
// file:/path) or, when none is configured, from the conventional GH_TOKEN,
// GITHUB_TOKEN, and GITHUB_API_TOKEN environment variables.
package githubauth
