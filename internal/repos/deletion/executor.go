package deletion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubapi"
	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	// ConfirmationPhrase must be typed verbatim before any fork is deleted.
	ConfirmationPhrase = "DELETE ALL FORKS"

	noForksMessage                  = "No forked repositories found!\n"
	foundForksTemplate              = "Found %d forked repositories:\n\n"
	forkOrdinalTemplate             = "%2d. %s\n"
	forkURLTemplate                 = "    URL: %s\n"
	forkPrivateTemplate             = "    Private: %t\n\n"
	deletionWarningTemplate         = "\n⚠️  WARNING: This will DELETE all %d forked repositories!\n"
	irreversibleNoticeMessage       = "This action CANNOT be undone.\n\n"
	confirmationPromptTemplate      = "Type '%s' to confirm: "
	cancelledMessage                = "\nCancelled. No repositories were deleted.\n"
	deletingTemplate                = "\nDeleting %d repositories...\n\n"
	deletedTemplate                 = "%s %s Deleted: %s\n"
	permissionDeniedTemplate        = "%s %s Permission denied: %s\n"
	deletionFailedTemplate          = "%s %s Failed to delete %s: %v\n"
	summaryDeletedTemplate          = "  %s Deleted: %d\n"
	summaryFailedTemplate           = "  %s Failed: %d\n"
	permissionErrorsHeaderTemplate  = "\n⚠️  Permission Errors (%d):\n"
	tokenScopeHintMessage           = "Your token needs the 'delete_repo' scope.\n"
	tokenSettingsHintMessage        = "Update your token at: https://github.com/settings/tokens\n"
	failedRepositoriesHeaderMessage = "\nFailed repositories:\n"
	failedRepositoryTemplate        = "  - %s\n"
	permissionStatusMarker          = "403"
	adminRightsMarker               = "admin rights"
	enumerationErrorTemplate        = "failed to enumerate repositories: %w"
	confirmationErrorTemplate       = "failed to read confirmation: %w"
	listerNotConfiguredMessage      = "repository lister not configured"
	deleterNotConfiguredMessage     = "repository deleter not configured"
	repositoryDeletedLogMessage     = "repository deleted"
	repositoryDeletionFailedLog     = "repository deletion failed"
	deletionCancelledLogMessage     = "fork deletion cancelled"
	deletionSummaryLogMessage       = "fork deletion finished"
	repositoryLogField              = "repository"
	statusCodeLogField              = "status_code"
	categoryLogField                = "category"
	permissionDeniedLogField        = "permission_denied"
	totalLogField                   = "total"
	deletedLogField                 = "deleted"
	failedLogField                  = "failed"
)

var (
	// ErrListerNotConfigured indicates the executor was built without a repository lister.
	ErrListerNotConfigured = errors.New(listerNotConfiguredMessage)
	// ErrDeleterNotConfigured indicates the executor was built without a repository deleter.
	ErrDeleterNotConfigured = errors.New(deleterNotConfiguredMessage)
)

// Options configures the fork deletion workflow.
type Options struct {
	ConfirmationPolicy shared.ConfirmationPolicy
}

// Dependencies captures collaborators required to delete forks.
type Dependencies struct {
	Lister   shared.RepositoryLister
	Deleter  shared.RepositoryDeleter
	Prompter shared.ConfirmationPrompter
	Output   io.Writer
	Logger   *zap.Logger
}

// Summary tallies the outcome of a deletion run.
// For completed runs Deleted + Failed equals Total.
type Summary struct {
	Outcome          shared.RunOutcome
	Total            int
	Deleted          int
	Failed           int
	PermissionDenied []string
}

// Executor orchestrates bulk fork deletion.
type Executor struct {
	dependencies Dependencies
	reporter     shared.Reporter
	logger       *zap.Logger
}

// NewExecutor constructs an Executor from the provided dependencies.
func NewExecutor(dependencies Dependencies) *Executor {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		dependencies: dependencies,
		reporter:     shared.NewWriterReporter(dependencies.Output),
		logger:       logger,
	}
}

// Execute enumerates forks, reports them, gates on the confirmation phrase, and deletes each fork once.
func (executor *Executor) Execute(executionContext context.Context, options Options) (Summary, error) {
	if executor.dependencies.Lister == nil {
		return Summary{}, ErrListerNotConfigured
	}
	if executor.dependencies.Deleter == nil {
		return Summary{}, ErrDeleterNotConfigured
	}

	repositories, listError := executor.dependencies.Lister.ListOwnedRepositories(executionContext)
	if listError != nil {
		return Summary{}, fmt.Errorf(enumerationErrorTemplate, listError)
	}

	forks := shared.SelectForks(repositories)
	if len(forks) == 0 {
		executor.reporter.Printf(noForksMessage)
		return Summary{Outcome: shared.RunOutcomeNothingToDo}, nil
	}

	executor.reportForks(forks)

	confirmed, confirmationError := options.ConfirmationPolicy.RequestConfirmation(
		executor.dependencies.Prompter,
		fmt.Sprintf(confirmationPromptTemplate, ConfirmationPhrase),
		ConfirmationPhrase,
	)
	if confirmationError != nil {
		return Summary{}, fmt.Errorf(confirmationErrorTemplate, confirmationError)
	}
	if !confirmed {
		executor.reporter.Printf(cancelledMessage)
		executor.logger.Info(deletionCancelledLogMessage, zap.Int(totalLogField, len(forks)))
		return Summary{Outcome: shared.RunOutcomeCancelled, Total: len(forks)}, nil
	}

	summary := executor.deleteForks(executionContext, forks)
	executor.reportSummary(summary)
	executor.logger.Info(deletionSummaryLogMessage,
		zap.Int(totalLogField, summary.Total),
		zap.Int(deletedLogField, summary.Deleted),
		zap.Int(failedLogField, summary.Failed),
	)
	return summary, nil
}

// IsPermissionDenied reports whether a deletion failure stems from missing rights on the repository or token.
// Structured status and category are consulted first; the error text is matched for "403" or "admin rights".
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}

	var operationError githubapi.OperationError
	if errors.As(err, &operationError) {
		if operationError.StatusCode == http.StatusForbidden || operationError.Category == githubapi.ErrorCategoryPermissionDenied {
			return true
		}
	}

	message := err.Error()
	return strings.Contains(message, permissionStatusMarker) || strings.Contains(strings.ToLower(message), adminRightsMarker)
}

func (executor *Executor) reportForks(forks []shared.Repository) {
	executor.reporter.Printf(foundForksTemplate, len(forks))
	for forkIndex, fork := range forks {
		executor.reporter.Printf(forkOrdinalTemplate, forkIndex+1, fork.OwnerRepository())
		executor.reporter.Printf(forkURLTemplate, fork.HTMLURL)
		executor.reporter.Printf(forkPrivateTemplate, fork.Private)
	}
	executor.reporter.Printf(deletionWarningTemplate, len(forks))
	executor.reporter.Printf(irreversibleNoticeMessage)
}

func (executor *Executor) deleteForks(executionContext context.Context, forks []shared.Repository) Summary {
	summary := Summary{Outcome: shared.RunOutcomeCompleted, Total: len(forks)}
	executor.reporter.Printf(deletingTemplate, len(forks))

	for forkIndex, fork := range forks {
		progress := shared.ProgressCounter(forkIndex+1, len(forks))
		deleteError := executor.dependencies.Deleter.DeleteRepository(executionContext, fork)
		if deleteError == nil {
			summary.Deleted++
			executor.reporter.Printf(deletedTemplate, shared.SuccessSymbol(), progress, fork.Name)
			executor.logger.Info(repositoryDeletedLogMessage, zap.String(repositoryLogField, fork.OwnerRepository()))
			continue
		}

		summary.Failed++
		permissionDenied := IsPermissionDenied(deleteError)
		if permissionDenied {
			summary.PermissionDenied = append(summary.PermissionDenied, fork.Name)
			executor.reporter.Printf(permissionDeniedTemplate, shared.FailureSymbol(), progress, fork.Name)
		} else {
			executor.reporter.Printf(deletionFailedTemplate, shared.FailureSymbol(), progress, fork.Name, deleteError)
		}
		executor.logger.Warn(repositoryDeletionFailedLog,
			zap.String(repositoryLogField, fork.OwnerRepository()),
			zap.Int(statusCodeLogField, githubapi.StatusCodeOf(deleteError)),
			zap.String(categoryLogField, string(githubapi.CategoryOf(deleteError))),
			zap.Bool(permissionDeniedLogField, permissionDenied),
			zap.Error(deleteError),
		)
	}

	return summary
}

func (executor *Executor) reportSummary(summary Summary) {
	shared.PrintSummaryHeader(executor.reporter)
	executor.reporter.Printf(summaryDeletedTemplate, shared.SuccessSymbol(), summary.Deleted)
	executor.reporter.Printf(summaryFailedTemplate, shared.FailureSymbol(), summary.Failed)

	if len(summary.PermissionDenied) > 0 {
		executor.reporter.Printf(permissionErrorsHeaderTemplate, len(summary.PermissionDenied))
		executor.reporter.Printf(tokenScopeHintMessage)
		executor.reporter.Printf(tokenSettingsHintMessage)
		executor.reporter.Printf(failedRepositoriesHeaderMessage)
		for _, repositoryName := range summary.PermissionDenied {
			executor.reporter.Printf(failedRepositoryTemplate, repositoryName)
		}
	}

	shared.PrintSummaryFooter(executor.reporter)
}
