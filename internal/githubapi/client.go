package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	apiBaseURLFieldNameConstant           = "api_base_url"
	repositoryFieldNameConstant           = "repository"
	nodeIDFieldNameConstant               = "node_id"
	invalidBaseURLTemplateConstant        = "invalid GitHub API base URL %q: %w"
	ownerRepositorySeparatorConstant      = "/"
	tokenTypeBearerConstant               = "Bearer"
	apiCallStartedMessageConstant         = "executing GitHub API call"
	apiCallSucceededMessageConstant       = "GitHub API call succeeded"
	apiCallFailedMessageConstant          = "GitHub API call failed"
	operationLogFieldConstant             = "operation"
	repositoryLogFieldConstant            = "repository"
	pageLogFieldConstant                  = "page"
	elapsedLogFieldConstant               = "elapsed"
	statusCodeLogFieldConstant            = "status_code"
	repositoryCountLogFieldConstant       = "repository_count"
	firstPageNumberConstant               = 1
	repositoriesEnumeratedMessageConstant = "repositories enumerated"
)

// Client performs GitHub REST and GraphQL calls over a single authenticated HTTP client.
type Client struct {
	configuration Configuration
	logger        *zap.Logger
	restClient    *github.Client
	graphQLClient *githubv4.Client
}

// NewClient constructs a Client for the provided configuration.
func NewClient(configuration Configuration, logger *zap.Logger) (*Client, error) {
	sanitizedConfiguration := configuration.Sanitize()
	if len(sanitizedConfiguration.Token) == 0 {
		return nil, ErrTokenNotConfigured
	}

	apiBaseURL, parseError := url.Parse(sanitizedConfiguration.APIBaseURL)
	if parseError != nil {
		return nil, fmt.Errorf(invalidBaseURLTemplateConstant, sanitizedConfiguration.APIBaseURL, parseError)
	}
	if len(apiBaseURL.Scheme) == 0 || len(apiBaseURL.Host) == 0 {
		return nil, InvalidInputError{FieldName: apiBaseURLFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: sanitizedConfiguration.Token,
		TokenType:   tokenTypeBearerConstant,
	})
	httpClient := &http.Client{
		Timeout: sanitizedConfiguration.RequestTimeout,
		Transport: &oauth2.Transport{
			Source: tokenSource,
			Base:   statusRecordingTransport{base: http.DefaultTransport},
		},
	}

	restClient := github.NewClient(httpClient)
	restClient.BaseURL = apiBaseURL

	return &Client{
		configuration: sanitizedConfiguration,
		logger:        logger,
		restClient:    restClient,
		graphQLClient: githubv4.NewEnterpriseClient(sanitizedConfiguration.GraphQLURL, httpClient),
	}, nil
}

// ListOwnedRepositories enumerates every repository of the authenticated user matching the configured affiliation.
func (client *Client) ListOwnedRepositories(executionContext context.Context) ([]shared.Repository, error) {
	listOptions := &github.RepositoryListByAuthenticatedUserOptions{
		Affiliation: client.configuration.Affiliation,
		ListOptions: github.ListOptions{
			PerPage: client.configuration.PageSize,
			Page:    firstPageNumberConstant,
		},
	}

	repositories := make([]shared.Repository, 0, client.configuration.PageSize)
	for {
		startTime := time.Now()
		client.logger.Debug(apiCallStartedMessageConstant,
			zap.String(operationLogFieldConstant, string(OperationListOwnedRepositories)),
			zap.Int(pageLogFieldConstant, listOptions.Page),
		)

		pageRepositories, response, listError := client.restClient.Repositories.ListByAuthenticatedUser(executionContext, listOptions)
		if listError != nil {
			operationError := newRESTOperationError(OperationListOwnedRepositories, "", listError)
			client.logFailure(OperationListOwnedRepositories, "", startTime, operationError)
			return nil, operationError
		}
		client.logSuccess(OperationListOwnedRepositories, "", startTime)

		for _, pageRepository := range pageRepositories {
			repositories = append(repositories, convertRepository(pageRepository))
		}

		if response == nil || response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}

	client.logger.Debug(repositoriesEnumeratedMessageConstant, zap.Int(repositoryCountLogFieldConstant, len(repositories)))
	return repositories, nil
}

// DeleteRepository permanently removes the repository.
func (client *Client) DeleteRepository(executionContext context.Context, repository shared.Repository) error {
	owner, name, identifierError := splitRepositoryIdentifier(repository)
	if identifierError != nil {
		return identifierError
	}
	repositoryIdentifier := repository.OwnerRepository()

	startTime := time.Now()
	client.logStart(OperationDeleteRepository, repositoryIdentifier)
	_, deleteError := client.restClient.Repositories.Delete(executionContext, owner, name)
	if deleteError != nil {
		operationError := newRESTOperationError(OperationDeleteRepository, repositoryIdentifier, deleteError)
		client.logFailure(OperationDeleteRepository, repositoryIdentifier, startTime, operationError)
		return operationError
	}
	client.logSuccess(OperationDeleteRepository, repositoryIdentifier, startTime)
	return nil
}

// MakePrivate sets the repository visibility to private.
func (client *Client) MakePrivate(executionContext context.Context, repository shared.Repository) error {
	owner, name, identifierError := splitRepositoryIdentifier(repository)
	if identifierError != nil {
		return identifierError
	}
	repositoryIdentifier := repository.OwnerRepository()

	startTime := time.Now()
	client.logStart(OperationMakePrivate, repositoryIdentifier)
	_, _, editError := client.restClient.Repositories.Edit(executionContext, owner, name, &github.Repository{Private: github.Ptr(true)})
	if editError != nil {
		operationError := newRESTOperationError(OperationMakePrivate, repositoryIdentifier, editError)
		client.logFailure(OperationMakePrivate, repositoryIdentifier, startTime, operationError)
		return operationError
	}
	client.logSuccess(OperationMakePrivate, repositoryIdentifier, startTime)
	return nil
}

func (client *Client) logStart(operation OperationName, repositoryIdentifier string) {
	client.logger.Debug(apiCallStartedMessageConstant,
		zap.String(operationLogFieldConstant, string(operation)),
		zap.String(repositoryLogFieldConstant, repositoryIdentifier),
	)
}

func (client *Client) logSuccess(operation OperationName, repositoryIdentifier string, startTime time.Time) {
	client.logger.Debug(apiCallSucceededMessageConstant,
		zap.String(operationLogFieldConstant, string(operation)),
		zap.String(repositoryLogFieldConstant, repositoryIdentifier),
		zap.Duration(elapsedLogFieldConstant, time.Since(startTime)),
	)
}

func (client *Client) logFailure(operation OperationName, repositoryIdentifier string, startTime time.Time, operationError OperationError) {
	client.logger.Debug(apiCallFailedMessageConstant,
		zap.String(operationLogFieldConstant, string(operation)),
		zap.String(repositoryLogFieldConstant, repositoryIdentifier),
		zap.Duration(elapsedLogFieldConstant, time.Since(startTime)),
		zap.Int(statusCodeLogFieldConstant, operationError.StatusCode),
		zap.Error(operationError),
	)
}

func convertRepository(repository *github.Repository) shared.Repository {
	return shared.Repository{
		Owner:    repository.GetOwner().GetLogin(),
		Name:     repository.GetName(),
		FullName: repository.GetFullName(),
		HTMLURL:  repository.GetHTMLURL(),
		Fork:     repository.GetFork(),
		Private:  repository.GetPrivate(),
		NodeID:   repository.GetNodeID(),
	}
}

func splitRepositoryIdentifier(repository shared.Repository) (string, string, error) {
	owner := strings.TrimSpace(repository.Owner)
	name := strings.TrimSpace(repository.Name)
	if len(owner) == 0 || len(name) == 0 {
		fullNameParts := strings.SplitN(strings.TrimSpace(repository.FullName), ownerRepositorySeparatorConstant, 2)
		if len(fullNameParts) == 2 {
			owner = strings.TrimSpace(fullNameParts[0])
			name = strings.TrimSpace(fullNameParts[1])
		}
	}
	if len(owner) == 0 || len(name) == 0 {
		return "", "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return owner, name, nil
}
