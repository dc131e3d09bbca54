package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// --- Resolution ---

// NotFound creates an error for a path with no registered component.
func NotFound(path string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("No component registered at %s.", path),
		HTTPStatus: http.StatusNotFound, Details: map[string]any{"path": path},
	}
}

// InvalidPath creates an error for a malformed component path.
func InvalidPath(path, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPath, Message: fmt.Sprintf("Invalid component path %q: %s", path, reason),
		HTTPStatus: http.StatusBadRequest, Details: map[string]any{"path": path},
	}
}

// ScopeUnavailable creates an error for a scoped component resolved with no
// request bound to the context.
func ScopeUnavailable(path, scope string) *AppError {
	return &AppError{
		Code: ErrCodeScopeUnavailable, Message: fmt.Sprintf("Component %s is %s-scoped and no request is bound.", path, scope),
		HTTPStatus: http.StatusConflict, Details: map[string]any{"path": path, "scope": scope},
	}
}

// ScopeViolation creates an error for a dependency on a shorter-lived component.
func ScopeViolation(from, fromScope, to, toScope string) *AppError {
	return &AppError{
		Code:       ErrCodeScopeViolation,
		Message:    fmt.Sprintf("%s-scoped %s cannot depend on %s-scoped %s.", fromScope, from, toScope, to),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"from": from, "from_scope": fromScope, "to": to, "to_scope": toScope},
	}
}

// Circular creates an error for a construction cycle.
func Circular(chain []string) *AppError {
	return &AppError{
		Code: ErrCodeCircular, Message: "Circular component dependency: " + strings.Join(chain, " -> "),
		HTTPStatus: http.StatusInternalServerError, Details: map[string]any{"chain": chain},
	}
}

// Construction creates an error for a constructor that failed.
func Construction(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConstruction, Message: fmt.Sprintf("Failed to construct %s.", path),
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// --- Lifecycle ---

// ContainerStopped creates an error for use of a stopped container or closed namespace.
func ContainerStopped(what string) *AppError {
	return &AppError{
		Code: ErrCodeContainerStopped, Message: fmt.Sprintf("The %s has been shut down.", what),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// UnknownModule creates an error for a module name that is not in the catalog.
func UnknownModule(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownModule, Message: fmt.Sprintf("Unknown module %q.", name),
		HTTPStatus: http.StatusBadRequest, Details: map[string]any{"module": name},
	}
}

// ModuleCycle creates an error for modules that require each other.
func ModuleCycle(chain []string) *AppError {
	return &AppError{
		Code: ErrCodeModuleCycle, Message: "Module requirement cycle: " + strings.Join(chain, " -> "),
		HTTPStatus: http.StatusBadRequest, Details: map[string]any{"chain": chain},
	}
}

// AlreadyExists creates an error for a duplicate registration.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("%s is already registered.", resource),
		HTTPStatus: http.StatusConflict, Details: map[string]any{"resource": resource},
	}
}

// --- Input ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
