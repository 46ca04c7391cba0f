package githubapi

import (
	"context"
	"net/http"
	"time"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/repos/shared"
)

// DetachForkFromNetworkInput is the GraphQL input object of the detachForkFromNetwork mutation.
type DetachForkFromNetworkInput struct {
	RepositoryID githubv4.ID `json:"repositoryId"`
}

const graphQLErrorsIgnoredMessageConstant = "GraphQL errors returned with a successful detach response"

type detachForkFromNetworkMutation struct {
	DetachForkFromNetwork struct {
		ClientMutationID *githubv4.String `graphql:"clientMutationId"`
	} `graphql:"detachForkFromNetwork(input: $input)"`
}

// DetachFromForkNetwork removes the fork from its upstream fork network.
// Success is decided by the HTTP status alone: a 200 response counts as detached even when its payload
// carries GraphQL errors, which are only logged.
func (client *Client) DetachFromForkNetwork(executionContext context.Context, repository shared.Repository) error {
	if len(repository.NodeID) == 0 {
		return InvalidInputError{FieldName: nodeIDFieldNameConstant, Message: requiredValueMessageConstant}
	}
	repositoryIdentifier := repository.OwnerRepository()

	requestContext, status := withResponseStatus(executionContext)
	startTime := time.Now()
	client.logStart(OperationDetachForkFromNetwork, repositoryIdentifier)

	var mutation detachForkFromNetworkMutation
	input := DetachForkFromNetworkInput{RepositoryID: githubv4.ID(repository.NodeID)}
	mutateError := client.graphQLClient.Mutate(requestContext, &mutation, input, nil)
	if mutateError != nil && status.statusCode == http.StatusOK {
		client.logger.Warn(graphQLErrorsIgnoredMessageConstant,
			zap.String(operationLogFieldConstant, string(OperationDetachForkFromNetwork)),
			zap.String(repositoryLogFieldConstant, repositoryIdentifier),
			zap.Int(statusCodeLogFieldConstant, status.statusCode),
			zap.Error(mutateError),
		)
		mutateError = nil
	}
	if mutateError != nil {
		operationError := newGraphQLOperationError(OperationDetachForkFromNetwork, repositoryIdentifier, status.statusCode, mutateError)
		client.logFailure(OperationDetachForkFromNetwork, repositoryIdentifier, startTime, operationError)
		return operationError
	}
	client.logSuccess(OperationDetachForkFromNetwork, repositoryIdentifier, startTime)
	return nil
}
