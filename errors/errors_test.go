package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeConstruction, "constructor failed", http.StatusInternalServerError)
	if !err.Retryable {
		t.Error("CONSTRUCTION_FAILED should be retryable")
	}
}

func TestAppError_NotFound_Details(t *testing.T) {
	err := NotFound("/GlobalComponent")
	if err.Details["path"] != "/GlobalComponent" {
		t.Errorf("expected path detail, got %v", err.Details["path"])
	}
	if !strings.Contains(err.Error(), "/GlobalComponent") {
		t.Errorf("expected path in message, got %q", err.Error())
	}
}

func TestAppError_ScopeUnavailable(t *testing.T) {
	err := ScopeUnavailable("/SessionComponent", "session")
	if err.Details["scope"] != "session" {
		t.Errorf("expected scope=session, got %v", err.Details["scope"])
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected 409, got %d", err.HTTPStatus)
	}
}

func TestAppError_Construction_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial failed")
	err := Construction("/Pool", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "dial failed") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("/a").WithDetails(map[string]any{"extra": "info"})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["path"] != "/a" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", NotFound("/x"))
	if !HasCode(wrapped, ErrCodeNotFound) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(wrapped, ErrCodeInvalidPath) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeNotFound) {
		t.Error("expected HasCode false for non-AppError")
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(InvalidPath("x", "relative")); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
	if got := StatusOf(fmt.Errorf("boom")); got != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", got)
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"InvalidPath", InvalidPath("a//b", "empty segment"), ErrCodeInvalidPath, http.StatusBadRequest},
		{"ScopeViolation", ScopeViolation("/G", "global", "/R", "request"), ErrCodeScopeViolation, http.StatusInternalServerError},
		{"Circular", Circular([]string{"/a", "/b", "/a"}), ErrCodeCircular, http.StatusInternalServerError},
		{"ContainerStopped", ContainerStopped("container"), ErrCodeContainerStopped, http.StatusServiceUnavailable},
		{"UnknownModule", UnknownModule("DPS"), ErrCodeUnknownModule, http.StatusBadRequest},
		{"ModuleCycle", ModuleCycle([]string{"A", "B", "A"}), ErrCodeModuleCycle, http.StatusBadRequest},
		{"AlreadyExists", AlreadyExists("/a"), ErrCodeAlreadyExists, http.StatusConflict},
		{"InvalidInput", InvalidInput("mode", "unknown"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(fmt.Errorf("wrap: %w", UnknownModule("X")))
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	resp := appErr.ToResponse()
	if resp.Error.Code != ErrCodeUnknownModule {
		t.Errorf("expected UNKNOWN_MODULE, got %s", resp.Error.Code)
	}
	if resp.Error.Details["module"] != "X" {
		t.Errorf("expected module detail, got %v", resp.Error.Details)
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("expected IsAppError false for plain error")
	}
}
