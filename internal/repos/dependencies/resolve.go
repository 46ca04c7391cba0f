// Package dependencies resolves default collaborators for repository commands when none are injected.
package dependencies

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubapi"
	"github.com/temirov/forksweep/internal/githubauth"
	"github.com/temirov/forksweep/internal/repos/prompt"
	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	tokenResolutionErrorTemplateConstant = "failed to resolve GitHub token: %w"
	clientCreationErrorTemplateConstant  = "failed to create GitHub client: %w"
)

// ResolveTokenResolver returns the provided resolver or one backed by the process environment and filesystem.
func ResolveTokenResolver(existing githubauth.TokenResolver) githubauth.TokenResolver {
	if existing != nil {
		return existing
	}
	return githubauth.NewTokenResolver(nil, nil)
}

// ResolveGitHubClient resolves a token from tokenSource and builds an API client around it.
func ResolveGitHubClient(executionContext context.Context, tokenResolver githubauth.TokenResolver, tokenSource string, configuration githubapi.Configuration, logger *zap.Logger) (*githubapi.Client, error) {
	token, tokenError := ResolveTokenResolver(tokenResolver).ResolveToken(executionContext, tokenSource)
	if tokenError != nil {
		return nil, fmt.Errorf(tokenResolutionErrorTemplateConstant, tokenError)
	}

	configuration.Token = token
	client, clientError := githubapi.NewClient(configuration, logger)
	if clientError != nil {
		return nil, fmt.Errorf(clientCreationErrorTemplateConstant, clientError)
	}
	return client, nil
}

// ResolvePrompter returns the provided prompter or a line-reading prompter bound to input and output.
func ResolvePrompter(existing shared.ConfirmationPrompter, input io.Reader, output io.Writer) shared.ConfirmationPrompter {
	if existing != nil {
		return existing
	}
	return prompt.NewPhrasePrompter(input, output)
}
