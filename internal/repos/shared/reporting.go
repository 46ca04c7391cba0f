package shared

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	successSymbolConstant       = "✓"
	failureSymbolConstant       = "✗"
	warningSymbolConstant       = "⚠"
	skipSymbolConstant          = "⊘"
	summaryRuleCharacter        = "="
	summaryRuleWidthConstant    = 60
	summaryHeaderMessage        = "Summary:\n"
	summaryOpeningRuleTemplate  = "\n%s\n"
	summaryClosingRuleTemplate  = "%s\n"
	progressCounterTemplate     = "[%d/%d]"
	repositoryListEntryTemplate = "  - %s\n"
)

var (
	successSymbolColor = color.New(color.FgGreen)
	failureSymbolColor = color.New(color.FgRed)
	warningSymbolColor = color.New(color.FgYellow)
	skipSymbolColor    = color.New(color.Faint)
)

// Reporter emits formatted executor events to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer. A nil writer discards output.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = io.Discard
	}
	return writerReporter{writer: writer}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	if reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, format, args...)
}

// SuccessSymbol renders the check mark used for completed actions.
func SuccessSymbol() string {
	return successSymbolColor.Sprint(successSymbolConstant)
}

// FailureSymbol renders the cross used for failed actions.
func FailureSymbol() string {
	return failureSymbolColor.Sprint(failureSymbolConstant)
}

// WarningSymbol renders the warning sign used for cautions.
func WarningSymbol() string {
	return warningSymbolColor.Sprint(warningSymbolConstant)
}

// SkipSymbol renders the marker used for skipped repositories.
func SkipSymbol() string {
	return skipSymbolColor.Sprint(skipSymbolConstant)
}

// ProgressCounter formats the ordinal progress marker for the given position.
func ProgressCounter(position int, total int) string {
	return fmt.Sprintf(progressCounterTemplate, position, total)
}

// PrintRepositoryList writes one bullet line per repository using the owner/name identifier.
func PrintRepositoryList(reporter Reporter, repositories []Repository) {
	for _, repository := range repositories {
		reporter.Printf(repositoryListEntryTemplate, repository.OwnerRepository())
	}
}

// PrintSummaryHeader opens the run summary block.
func PrintSummaryHeader(reporter Reporter) {
	reporter.Printf(summaryOpeningRuleTemplate, summaryRule())
	reporter.Printf(summaryHeaderMessage)
}

// PrintSummaryFooter closes the run summary block.
func PrintSummaryFooter(reporter Reporter) {
	reporter.Printf(summaryClosingRuleTemplate, summaryRule())
}

func summaryRule() string {
	return strings.Repeat(summaryRuleCharacter, summaryRuleWidthConstant)
}
