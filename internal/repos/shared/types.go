package shared

import (
	"context"
	"strings"
)

const (
	ownerRepositorySeparatorConstant = "/"
)

// Repository describes a GitHub repository as reported by the enumeration endpoint.
type Repository struct {
	Owner    string
	Name     string
	FullName string
	HTMLURL  string
	Fork     bool
	Private  bool
	NodeID   string
}

// OwnerRepository returns the owner/name identifier, deriving it from Owner and Name when FullName is unset.
func (repository Repository) OwnerRepository() string {
	trimmedFullName := strings.TrimSpace(repository.FullName)
	if len(trimmedFullName) > 0 {
		return trimmedFullName
	}
	return strings.TrimSpace(repository.Owner) + ownerRepositorySeparatorConstant + strings.TrimSpace(repository.Name)
}

// RepositoryLister enumerates repositories owned by the authenticated account.
type RepositoryLister interface {
	ListOwnedRepositories(executionContext context.Context) ([]Repository, error)
}

// RepositoryDeleter removes repositories.
type RepositoryDeleter interface {
	DeleteRepository(executionContext context.Context, repository Repository) error
}

// VisibilityEditor changes repository visibility.
type VisibilityEditor interface {
	MakePrivate(executionContext context.Context, repository Repository) error
}

// ForkNetworkDetacher removes a fork from its upstream fork network.
type ForkNetworkDetacher interface {
	DetachFromForkNetwork(executionContext context.Context, repository Repository) error
}

// ConfirmationPrompter gates mutating actions behind a typed confirmation phrase.
type ConfirmationPrompter interface {
	Confirm(prompt string, requiredPhrase string) (bool, error)
}
