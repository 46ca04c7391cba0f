package detach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubapi"
	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	// ConfirmationPhrase must be typed verbatim before forks are detached.
	ConfirmationPhrase = "DETACH FORKS"

	noForksMessage                 = "No forked repositories found!\n"
	foundForksTemplate             = "Found %d forked repositories:\n"
	detachPlanTemplate             = "\nThis will detach %d forks from their fork network and make them private.\n\n"
	confirmationPromptTemplate     = "Type '%s' to confirm: "
	cancelledMessage               = "\nCancelled. No repositories were modified.\n"
	processingTemplate             = "\n%s Processing fork: %s\n"
	detachFailedTemplate           = "  %s Failed to detach: %v\n"
	detachedTemplate               = "  %s Detached from fork network\n"
	privatizedTemplate             = "  %s Made private: %s\n"
	privatizeFailedTemplate        = "  %s Error making private: %v\n"
	unsupportedTemplate            = "  %s Cannot make private: %s\n"
	unsupportedReasonMessage       = "    GitHub doesn't allow public forks to be made private.\n"
	remediationHeaderMessage       = "    To make it private, you need to:\n"
	remediationDeleteTemplate      = "    1. Delete the repository: %s\n"
	remediationRecreateMessage     = "    2. Create a new private repository with the same name\n"
	remediationPushMessage         = "    3. Push your code to the new repository\n"
	summaryDetachedTemplate        = "  %s Detached: %d\n"
	summaryPrivatizedTemplate      = "  %s Made private: %d\n"
	summaryDetachFailedTemplate    = "  %s Detach failed: %d\n"
	summaryPrivatizeFailedTemplate = "  %s Privatize failed: %d\n"
	summaryUnsupportedTemplate     = "  %s Manual action required (public forks): %d\n"
	doneMessage                    = "\nDone!\n"
	publicForkUnsupportedMarker    = "public forks can't be made private"
	enumerationErrorTemplate       = "failed to enumerate repositories: %w"
	confirmationErrorTemplate      = "failed to read confirmation: %w"
	listerNotConfiguredMessage     = "repository lister not configured"
	detacherNotConfiguredMessage   = "fork network detacher not configured"
	editorNotConfiguredMessage     = "visibility editor not configured"
	forkDetachedLog                = "fork detached from network"
	forkDetachFailedLog            = "fork detach failed"
	forkPrivatizedLog              = "fork made private"
	forkPrivatizeUnsupportedLog    = "fork cannot be made private"
	forkPrivatizeFailedLog         = "fork visibility change failed"
	detachCancelledLog             = "fork detach cancelled"
	detachSummaryLog               = "fork detach finished"
	repositoryLogField             = "repository"
	statusCodeLogField             = "status_code"
	categoryLogField               = "category"
	totalLogField                  = "total"
	detachedLogField               = "detached"
	privatizedLogField             = "privatized"
	detachFailedLogField           = "detach_failed"
	privatizeFailedLogField        = "privatize_failed"
	unsupportedLogField            = "unsupported"
)

var (
	// ErrListerNotConfigured indicates the executor was built without a repository lister.
	ErrListerNotConfigured = errors.New(listerNotConfiguredMessage)
	// ErrDetacherNotConfigured indicates the executor was built without a fork network detacher.
	ErrDetacherNotConfigured = errors.New(detacherNotConfiguredMessage)
	// ErrEditorNotConfigured indicates the executor was built without a visibility editor.
	ErrEditorNotConfigured = errors.New(editorNotConfiguredMessage)
)

// Options configures the detach workflow.
type Options struct {
	ConfirmationPolicy shared.ConfirmationPolicy
}

// Dependencies captures collaborators required to detach and privatize forks.
type Dependencies struct {
	Lister   shared.RepositoryLister
	Detacher shared.ForkNetworkDetacher
	Editor   shared.VisibilityEditor
	Prompter shared.ConfirmationPrompter
	Output   io.Writer
	Logger   *zap.Logger
}

// Summary tallies the outcome of a detach run over forks.
// For completed runs Privatized + DetachFailed + PrivatizeFailed + Unsupported equals Total
// and Detached equals Total - DetachFailed.
type Summary struct {
	Outcome         shared.RunOutcome
	Total           int
	Detached        int
	Privatized      int
	DetachFailed    int
	PrivatizeFailed int
	Unsupported     int
}

// Executor detaches forks from their network and then makes them private.
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

// Execute detaches every fork and privatizes those that detached successfully.
func (executor *Executor) Execute(executionContext context.Context, options Options) (Summary, error) {
	if executor.dependencies.Lister == nil {
		return Summary{}, ErrListerNotConfigured
	}
	if executor.dependencies.Detacher == nil {
		return Summary{}, ErrDetacherNotConfigured
	}
	if executor.dependencies.Editor == nil {
		return Summary{}, ErrEditorNotConfigured
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

	executor.reporter.Printf(foundForksTemplate, len(forks))
	shared.PrintRepositoryList(executor.reporter, forks)
	executor.reporter.Printf(detachPlanTemplate, len(forks))

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
		executor.logger.Info(detachCancelledLog, zap.Int(totalLogField, len(forks)))
		return Summary{Outcome: shared.RunOutcomeCancelled, Total: len(forks)}, nil
	}

	summary := Summary{Outcome: shared.RunOutcomeCompleted, Total: len(forks)}
	for forkIndex, fork := range forks {
		executor.reporter.Printf(processingTemplate, shared.ProgressCounter(forkIndex+1, len(forks)), fork.Name)
		executor.processFork(executionContext, fork, &summary)
	}

	executor.reportSummary(summary)
	executor.logger.Info(detachSummaryLog,
		zap.Int(totalLogField, summary.Total),
		zap.Int(detachedLogField, summary.Detached),
		zap.Int(privatizedLogField, summary.Privatized),
		zap.Int(detachFailedLogField, summary.DetachFailed),
		zap.Int(privatizeFailedLogField, summary.PrivatizeFailed),
		zap.Int(unsupportedLogField, summary.Unsupported),
	)
	return summary, nil
}

// IsPublicForkUnsupported reports whether a visibility failure is GitHub's refusal to privatize a public fork.
func IsPublicForkUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if githubapi.CategoryOf(err) == githubapi.ErrorCategoryPublicForkUnsupported {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), publicForkUnsupportedMarker)
}

func (executor *Executor) processFork(executionContext context.Context, fork shared.Repository, summary *Summary) {
	repositoryIdentifier := fork.OwnerRepository()

	detachError := executor.dependencies.Detacher.DetachFromForkNetwork(executionContext, fork)
	if detachError != nil {
		summary.DetachFailed++
		executor.reporter.Printf(detachFailedTemplate, shared.FailureSymbol(), detachError)
		executor.logger.Warn(forkDetachFailedLog,
			zap.String(repositoryLogField, repositoryIdentifier),
			zap.Int(statusCodeLogField, githubapi.StatusCodeOf(detachError)),
			zap.String(categoryLogField, string(githubapi.CategoryOf(detachError))),
			zap.Error(detachError),
		)
		return
	}
	summary.Detached++
	executor.reporter.Printf(detachedTemplate, shared.SuccessSymbol())
	executor.logger.Info(forkDetachedLog, zap.String(repositoryLogField, repositoryIdentifier))

	editError := executor.dependencies.Editor.MakePrivate(executionContext, fork)
	switch {
	case editError == nil:
		summary.Privatized++
		executor.reporter.Printf(privatizedTemplate, shared.SuccessSymbol(), fork.Name)
		executor.logger.Info(forkPrivatizedLog, zap.String(repositoryLogField, repositoryIdentifier))
	case IsPublicForkUnsupported(editError):
		summary.Unsupported++
		executor.reportManualRemediation(fork)
		executor.logger.Warn(forkPrivatizeUnsupportedLog,
			zap.String(repositoryLogField, repositoryIdentifier),
			zap.Error(editError),
		)
	default:
		summary.PrivatizeFailed++
		executor.reporter.Printf(privatizeFailedTemplate, shared.FailureSymbol(), editError)
		executor.logger.Warn(forkPrivatizeFailedLog,
			zap.String(repositoryLogField, repositoryIdentifier),
			zap.Int(statusCodeLogField, githubapi.StatusCodeOf(editError)),
			zap.String(categoryLogField, string(githubapi.CategoryOf(editError))),
			zap.Error(editError),
		)
	}
}

func (executor *Executor) reportManualRemediation(fork shared.Repository) {
	executor.reporter.Printf(unsupportedTemplate, shared.WarningSymbol(), fork.Name)
	executor.reporter.Printf(unsupportedReasonMessage)
	executor.reporter.Printf(remediationHeaderMessage)
	executor.reporter.Printf(remediationDeleteTemplate, fork.HTMLURL)
	executor.reporter.Printf(remediationRecreateMessage)
	executor.reporter.Printf(remediationPushMessage)
}

func (executor *Executor) reportSummary(summary Summary) {
	shared.PrintSummaryHeader(executor.reporter)
	executor.reporter.Printf(summaryDetachedTemplate, shared.SuccessSymbol(), summary.Detached)
	executor.reporter.Printf(summaryPrivatizedTemplate, shared.SuccessSymbol(), summary.Privatized)
	executor.reporter.Printf(summaryDetachFailedTemplate, shared.FailureSymbol(), summary.DetachFailed)
	executor.reporter.Printf(summaryPrivatizeFailedTemplate, shared.FailureSymbol(), summary.PrivatizeFailed)
	if summary.Unsupported > 0 {
		executor.reporter.Printf(summaryUnsupportedTemplate, shared.WarningSymbol(), summary.Unsupported)
	}
	shared.PrintSummaryFooter(executor.reporter)
	executor.reporter.Printf(doneMessage)
}
