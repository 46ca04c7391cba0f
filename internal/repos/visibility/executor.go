package visibility

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/forksweep/internal/githubapi"
	"github.com/temirov/forksweep/internal/repos/shared"
)

const (
	// ConfirmationPhrase must be typed verbatim before any repository visibility changes.
	ConfirmationPhrase = "MAKE PRIVATE"

	noPublicRepositoriesMessage  = "No public repositories found!\n"
	foundPublicTemplate          = "Found %d public repositories:\n\n"
	eligibleHeaderTemplate       = "%s Can be made private (%d):\n"
	publicForksHeaderTemplate    = "%s Public forks (CANNOT be made private) (%d):\n"
	sectionTerminator            = "\n"
	publicForksNoteMessage       = "\nNote: GitHub doesn't allow public forks to be made private.\n"
	publicForksSkippedMessage    = "These will be skipped.\n\n"
	allForksMessage              = "\nNo repositories can be made private (all are forks).\n"
	privatizePlanTemplate        = "\nThis will make %d repositories private.\n\n"
	confirmationPromptTemplate   = "Type '%s' to confirm: "
	cancelledMessage             = "\nCancelled. No repositories were modified.\n"
	privatizingMessage           = "\nMaking repositories private...\n\n"
	privatizedTemplate           = "%s %s Made private: %s\n"
	privatizeFailedTemplate      = "%s %s Failed: %s - %v\n"
	summaryPrivatizedTemplate    = "  %s Made private: %d\n"
	summaryFailedTemplate        = "  %s Failed: %d\n"
	summarySkippedTemplate       = "  %s Skipped (public forks): %d\n"
	enumerationErrorTemplate     = "failed to enumerate repositories: %w"
	confirmationErrorTemplate    = "failed to read confirmation: %w"
	listerNotConfiguredMessage   = "repository lister not configured"
	editorNotConfiguredMessage   = "visibility editor not configured"
	repositoryPrivatizedLog      = "repository made private"
	repositoryPrivatizeFailedLog = "repository visibility change failed"
	privatizeCancelledLog        = "visibility change cancelled"
	privatizeSummaryLog          = "visibility change finished"
	repositoryLogField           = "repository"
	statusCodeLogField           = "status_code"
	categoryLogField             = "category"
	totalLogField                = "total"
	privatizedLogField           = "privatized"
	failedLogField               = "failed"
	skippedForksLogField         = "skipped_forks"
)

var (
	// ErrListerNotConfigured indicates the executor was built without a repository lister.
	ErrListerNotConfigured = errors.New(listerNotConfiguredMessage)
	// ErrEditorNotConfigured indicates the executor was built without a visibility editor.
	ErrEditorNotConfigured = errors.New(editorNotConfiguredMessage)
)

// Options configures the privatization workflow.
type Options struct {
	ConfirmationPolicy shared.ConfirmationPolicy
}

// Dependencies captures collaborators required to change repository visibility.
type Dependencies struct {
	Lister   shared.RepositoryLister
	Editor   shared.VisibilityEditor
	Prompter shared.ConfirmationPrompter
	Output   io.Writer
	Logger   *zap.Logger
}

// Summary tallies the outcome of a privatization run over public repositories.
// Privatized + Failed + SkippedForks equals Total whenever the run was not cancelled.
type Summary struct {
	Outcome      shared.RunOutcome
	Total        int
	Privatized   int
	Failed       int
	SkippedForks int
}

// Executor orchestrates bulk visibility changes for public non-fork repositories.
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

// Execute makes every public non-fork repository private after the confirmation gate. Public forks are skipped.
func (executor *Executor) Execute(executionContext context.Context, options Options) (Summary, error) {
	if executor.dependencies.Lister == nil {
		return Summary{}, ErrListerNotConfigured
	}
	if executor.dependencies.Editor == nil {
		return Summary{}, ErrEditorNotConfigured
	}

	repositories, listError := executor.dependencies.Lister.ListOwnedRepositories(executionContext)
	if listError != nil {
		return Summary{}, fmt.Errorf(enumerationErrorTemplate, listError)
	}

	publicRepositories := shared.SelectPublic(repositories)
	if len(publicRepositories) == 0 {
		executor.reporter.Printf(noPublicRepositoriesMessage)
		return Summary{Outcome: shared.RunOutcomeNothingToDo}, nil
	}

	publicForks, eligibleRepositories := shared.Partition(publicRepositories, shared.IsFork)
	executor.reportCandidates(len(publicRepositories), eligibleRepositories, publicForks)

	if len(eligibleRepositories) == 0 {
		executor.reporter.Printf(allForksMessage)
		return Summary{
			Outcome:      shared.RunOutcomeNothingToDo,
			Total:        len(publicRepositories),
			SkippedForks: len(publicForks),
		}, nil
	}

	executor.reporter.Printf(privatizePlanTemplate, len(eligibleRepositories))
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
		executor.logger.Info(privatizeCancelledLog, zap.Int(totalLogField, len(eligibleRepositories)))
		return Summary{Outcome: shared.RunOutcomeCancelled, Total: len(publicRepositories)}, nil
	}

	summary := executor.privatize(executionContext, eligibleRepositories)
	summary.Total = len(publicRepositories)
	summary.SkippedForks = len(publicForks)

	executor.reportSummary(summary)
	executor.logger.Info(privatizeSummaryLog,
		zap.Int(totalLogField, summary.Total),
		zap.Int(privatizedLogField, summary.Privatized),
		zap.Int(failedLogField, summary.Failed),
		zap.Int(skippedForksLogField, summary.SkippedForks),
	)
	return summary, nil
}

func (executor *Executor) reportCandidates(publicCount int, eligibleRepositories []shared.Repository, publicForks []shared.Repository) {
	executor.reporter.Printf(foundPublicTemplate, publicCount)

	if len(eligibleRepositories) > 0 {
		executor.reporter.Printf(eligibleHeaderTemplate, shared.SuccessSymbol(), len(eligibleRepositories))
		shared.PrintRepositoryList(executor.reporter, eligibleRepositories)
		executor.reporter.Printf(sectionTerminator)
	}

	if len(publicForks) > 0 {
		executor.reporter.Printf(publicForksHeaderTemplate, shared.WarningSymbol(), len(publicForks))
		shared.PrintRepositoryList(executor.reporter, publicForks)
		executor.reporter.Printf(publicForksNoteMessage)
		executor.reporter.Printf(publicForksSkippedMessage)
	}
}

func (executor *Executor) privatize(executionContext context.Context, repositories []shared.Repository) Summary {
	summary := Summary{Outcome: shared.RunOutcomeCompleted}
	executor.reporter.Printf(privatizingMessage)

	for repositoryIndex, repository := range repositories {
		progress := shared.ProgressCounter(repositoryIndex+1, len(repositories))
		editError := executor.dependencies.Editor.MakePrivate(executionContext, repository)
		if editError != nil {
			summary.Failed++
			executor.reporter.Printf(privatizeFailedTemplate, shared.FailureSymbol(), progress, repository.Name, editError)
			executor.logger.Warn(repositoryPrivatizeFailedLog,
				zap.String(repositoryLogField, repository.OwnerRepository()),
				zap.Int(statusCodeLogField, githubapi.StatusCodeOf(editError)),
				zap.String(categoryLogField, string(githubapi.CategoryOf(editError))),
				zap.Error(editError),
			)
			continue
		}

		summary.Privatized++
		executor.reporter.Printf(privatizedTemplate, shared.SuccessSymbol(), progress, repository.Name)
		executor.logger.Info(repositoryPrivatizedLog, zap.String(repositoryLogField, repository.OwnerRepository()))
	}

	return summary
}

func (executor *Executor) reportSummary(summary Summary) {
	shared.PrintSummaryHeader(executor.reporter)
	executor.reporter.Printf(summaryPrivatizedTemplate, shared.SuccessSymbol(), summary.Privatized)
	executor.reporter.Printf(summaryFailedTemplate, shared.FailureSymbol(), summary.Failed)
	if summary.SkippedForks > 0 {
		executor.reporter.Printf(summarySkippedTemplate, shared.SkipSymbol(), summary.SkippedForks)
	}
	shared.PrintSummaryFooter(executor.reporter)
}
