package githubapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v80/github"
)

const (
	invalidInputErrorTemplateConstant           = "%s: %s"
	operationErrorWithStatusTemplateConstant    = "%s %s failed (status %d): %s"
	operationErrorWithoutStatusTemplateConstant = "%s %s failed: %s"
	operationErrorBareTemplateConstant          = "%s %s failed"
	errorDetailsSeparatorConstant               = "; "
	publicForkUnsupportedMessageConstant        = "public forks can't be made private"
	requiredValueMessageConstant                = "value required"
	tokenNotConfiguredMessageConstant           = "github token not configured"
)

// ErrTokenNotConfigured indicates the client was constructed without an access token.
var ErrTokenNotConfigured = errors.New(tokenNotConfiguredMessageConstant)

// OperationName identifies a GitHub API operation performed by the client.
type OperationName string

// Operations supported by the client.
const (
	OperationListOwnedRepositories OperationName = "ListOwnedRepositories"
	OperationDeleteRepository      OperationName = "DeleteRepository"
	OperationMakePrivate           OperationName = "MakePrivate"
	OperationDetachForkFromNetwork OperationName = "DetachForkFromNetwork"
)

// ErrorCategory classifies API failures independently of message wording.
type ErrorCategory string

// Error categories reported by OperationError.
const (
	ErrorCategoryPermissionDenied      ErrorCategory = "permission_denied"
	ErrorCategoryUnauthorized          ErrorCategory = "unauthorized"
	ErrorCategoryNotFound              ErrorCategory = "not_found"
	ErrorCategoryPublicForkUnsupported ErrorCategory = "public_fork_unsupported"
	ErrorCategoryValidationFailed      ErrorCategory = "validation_failed"
	ErrorCategoryRateLimited           ErrorCategory = "rate_limited"
	ErrorCategoryServerError           ErrorCategory = "server_error"
	ErrorCategoryTransport             ErrorCategory = "transport"
	ErrorCategoryUnknown               ErrorCategory = "unknown"
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError describes a failed GitHub API call.
type OperationError struct {
	Operation  OperationName
	Repository string
	StatusCode int
	Category   ErrorCategory
	Message    string
	Cause      error
}

// Error describes the operation failure, including the HTTP status when one was received.
func (operationError OperationError) Error() string {
	detail := operationError.Message
	if len(detail) == 0 && operationError.Cause != nil {
		detail = operationError.Cause.Error()
	}
	switch {
	case operationError.StatusCode > 0:
		return fmt.Sprintf(operationErrorWithStatusTemplateConstant, operationError.Operation, operationError.Repository, operationError.StatusCode, detail)
	case len(detail) > 0:
		return fmt.Sprintf(operationErrorWithoutStatusTemplateConstant, operationError.Operation, operationError.Repository, detail)
	default:
		return fmt.Sprintf(operationErrorBareTemplateConstant, operationError.Operation, operationError.Repository)
	}
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// CategoryOf extracts the ErrorCategory of an OperationError anywhere in the error chain.
func CategoryOf(err error) ErrorCategory {
	var operationError OperationError
	if errors.As(err, &operationError) {
		return operationError.Category
	}
	return ErrorCategoryUnknown
}

// StatusCodeOf extracts the HTTP status code of an OperationError anywhere in the error chain.
func StatusCodeOf(err error) int {
	var operationError OperationError
	if errors.As(err, &operationError) {
		return operationError.StatusCode
	}
	return 0
}

func newRESTOperationError(operation OperationName, repository string, cause error) OperationError {
	operationError := OperationError{
		Operation:  operation,
		Repository: repository,
		Category:   ErrorCategoryTransport,
		Cause:      cause,
	}

	var rateLimitError *github.RateLimitError
	var abuseRateLimitError *github.AbuseRateLimitError
	var errorResponse *github.ErrorResponse

	switch {
	case errors.As(cause, &rateLimitError):
		operationError.StatusCode = responseStatusCode(rateLimitError.Response)
		operationError.Message = rateLimitError.Message
		operationError.Category = ErrorCategoryRateLimited
	case errors.As(cause, &abuseRateLimitError):
		operationError.StatusCode = responseStatusCode(abuseRateLimitError.Response)
		operationError.Message = abuseRateLimitError.Message
		operationError.Category = ErrorCategoryRateLimited
	case errors.As(cause, &errorResponse):
		operationError.StatusCode = responseStatusCode(errorResponse.Response)
		operationError.Message = errorResponseMessage(errorResponse)
		operationError.Category = categorizeStatus(operationError.StatusCode, operationError.Message)
	}

	return operationError
}

func newGraphQLOperationError(operation OperationName, repository string, statusCode int, cause error) OperationError {
	operationError := OperationError{
		Operation:  operation,
		Repository: repository,
		StatusCode: statusCode,
		Cause:      cause,
	}
	if cause != nil {
		operationError.Message = cause.Error()
	}

	switch {
	case statusCode == 0:
		operationError.Category = ErrorCategoryTransport
	default:
		operationError.Category = categorizeStatus(statusCode, operationError.Message)
	}

	return operationError
}

func categorizeStatus(statusCode int, message string) ErrorCategory {
	switch {
	case statusCode == http.StatusUnauthorized:
		return ErrorCategoryUnauthorized
	case statusCode == http.StatusForbidden:
		return ErrorCategoryPermissionDenied
	case statusCode == http.StatusNotFound:
		return ErrorCategoryNotFound
	case statusCode == http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(message), publicForkUnsupportedMessageConstant) {
			return ErrorCategoryPublicForkUnsupported
		}
		return ErrorCategoryValidationFailed
	case statusCode >= http.StatusInternalServerError:
		return ErrorCategoryServerError
	default:
		return ErrorCategoryUnknown
	}
}

func errorResponseMessage(errorResponse *github.ErrorResponse) string {
	details := make([]string, 0, len(errorResponse.Errors)+1)
	if trimmedMessage := strings.TrimSpace(errorResponse.Message); len(trimmedMessage) > 0 {
		details = append(details, trimmedMessage)
	}
	for _, detail := range errorResponse.Errors {
		if trimmedDetail := strings.TrimSpace(detail.Message); len(trimmedDetail) > 0 {
			details = append(details, trimmedDetail)
		}
	}
	return strings.Join(details, errorDetailsSeparatorConstant)
}

func responseStatusCode(response *http.Response) int {
	if response == nil {
		return 0
	}
	return response.StatusCode
}
