package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput         = "TEAMWORK_BAD_INPUT"
	ErrorNotFound         = "TEAMWORK_NOT_FOUND"
	ErrorUnauthorized     = "TEAMWORK_UNAUTHORIZED"
	ErrorForbidden        = "TEAMWORK_FORBIDDEN"
	ErrorRateLimited      = "TEAMWORK_RATE_LIMITED"
	ErrorConnectorRunning = "TEAMWORK_CONNECTOR_RUNNING"
	ErrorHandlerFailed    = "TEAMWORK_HANDLER_FAILED"
	ErrorHostFailed       = "TEAMWORK_HOST_FAILED"
	ErrorExternalFailure  = "TEAMWORK_EXTERNAL_FAILURE"
	ErrorInternal         = "TEAMWORK_INTERNAL_ERROR"
)

var ErrConnectorRunning = errors.New("core: connector is already running")

// DispatchError collects the handler failures of a single webhook delivery.
// Every matched subscription is attempted before it is returned.
type DispatchError struct {
	EventType EventType
	Attempted int
	Failures  []HandlerFailure
}

type HandlerFailure struct {
	SubscriptionID string
	Err            error
}

func (e *DispatchError) Error() string {
	if e == nil {
		return ""
	}
	ids := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		ids = append(ids, failure.SubscriptionID)
	}
	return fmt.Sprintf(
		"core: %d of %d handlers failed for %q: %s",
		len(e.Failures), e.Attempted, string(e.EventType), strings.Join(ids, ", "),
	)
}

func (e *DispatchError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		out = append(out, failure.Err)
	}
	return out
}

func newError(
	message string,
	category goerrors.Category,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(httpStatus(category)).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func wrapError(
	source error,
	category goerrors.Category,
	message string,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	if source == nil {
		return newError(message, category, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(httpStatus(category)).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func badInputError(message string, metadata map[string]any) *goerrors.Error {
	return newError(message, goerrors.CategoryBadInput, ErrorBadInput, metadata)
}

func internalError(message string, metadata map[string]any) *goerrors.Error {
	return newError(message, goerrors.CategoryInternal, ErrorInternal, metadata)
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}

	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return wrapError(err, goerrors.CategoryOperation, err.Error(), ErrorHandlerFailed, map[string]any{
			"event_type": string(dispatchErr.EventType),
			"attempted":  dispatchErr.Attempted,
			"failed":     len(dispatchErr.Failures),
		})
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case errors.Is(err, ErrConnectorRunning):
		return newError(err.Error(), goerrors.CategoryConflict, ErrorConnectorRunning, nil)
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "too many requests"):
		return newError(err.Error(), goerrors.CategoryRateLimit, ErrorRateLimited, nil)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newError(err.Error(), goerrors.CategoryBadInput, ErrorBadInput, nil)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = httpStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryNotFound:
		return ErrorNotFound
	case goerrors.CategoryAuth:
		return ErrorUnauthorized
	case goerrors.CategoryAuthz:
		return ErrorForbidden
	case goerrors.CategoryConflict:
		return ErrorConnectorRunning
	case goerrors.CategoryRateLimit:
		return ErrorRateLimited
	case goerrors.CategoryOperation:
		return ErrorHandlerFailed
	case goerrors.CategoryExternal:
		return ErrorExternalFailure
	default:
		return ErrorInternal
	}
}

func httpStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal, goerrors.CategoryOperation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus exposes the category to status table used by the connector so
// adapters can stay consistent with it.
func HTTPStatus(category goerrors.Category) int {
	return httpStatus(category)
}

// TextCode returns the default text code for a category.
func TextCode(category goerrors.Category) string {
	return defaultTextCode(category)
}
