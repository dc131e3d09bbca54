package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeNotFound indicates no component is registered at a path.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidPath indicates a malformed component path.
	ErrCodeInvalidPath ErrorCode = "INVALID_PATH"
	// ErrCodeScopeUnavailable indicates a scoped component was requested
	// without a request bound to the context.
	ErrCodeScopeUnavailable ErrorCode = "SCOPE_UNAVAILABLE"
	// ErrCodeScopeViolation indicates a component tried to depend on a
	// component with a shorter lifetime.
	ErrCodeScopeViolation ErrorCode = "SCOPE_VIOLATION"
	// ErrCodeCircular indicates a construction cycle.
	ErrCodeCircular ErrorCode = "CIRCULAR_DEPENDENCY"
	// ErrCodeConstruction indicates a constructor returned an error.
	ErrCodeConstruction ErrorCode = "CONSTRUCTION_FAILED"
)

// Lifecycle errors
const (
	// ErrCodeContainerStopped indicates use of a container or namespace after shutdown.
	ErrCodeContainerStopped ErrorCode = "CONTAINER_STOPPED"
	// ErrCodeUnknownModule indicates a module name absent from the catalog.
	ErrCodeUnknownModule ErrorCode = "UNKNOWN_MODULE"
	// ErrCodeModuleCycle indicates modules that require each other.
	ErrCodeModuleCycle ErrorCode = "MODULE_CYCLE"
	// ErrCodeAlreadyExists indicates a duplicate registration.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeScopeUnavailable: false,
	ErrCodeConstruction:     true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
