package nucleustest

import (
	"context"
	"sync"
	"testing"

	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/nucleus"
	"github.com/kbukum/nucleus/request"
)

// Harness owns one container for the duration of a test.
type Harness struct {
	t   testing.TB
	ctx context.Context

	mu sync.Mutex
	n  *nucleus.Nucleus
}

// Start starts a container with modules and initialService. Logging is
// discarded unless opts set a logger. A start failure is fatal to the test.
func Start(t testing.TB, modules []string, initialService string, opts ...nucleus.Option) *Harness {
	t.Helper()
	return StartWithContext(context.Background(), t, modules, initialService, opts...)
}

// StartWithContext is Start with a custom context.
func StartWithContext(ctx context.Context, t testing.TB, modules []string, initialService string, opts ...nucleus.Option) *Harness {
	t.Helper()

	opts = append([]nucleus.Option{nucleus.WithLogger(logger.Nop())}, opts...)
	n, err := nucleus.StartWithModules(ctx, modules, initialService, opts...)
	if err != nil {
		t.Fatalf("failed to start nucleus with modules %v and initial service %s: %v", modules, initialService, err)
	}

	h := &Harness{t: t, ctx: ctx, n: n}
	t.Cleanup(h.Shutdown)
	return h
}

// Nucleus returns the running container, or nil after Shutdown.
func (h *Harness) Nucleus() *nucleus.Nucleus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}

// Shutdown stops the container if it is running and clears the handle.
// Cleanup calls it; calling it earlier is allowed.
func (h *Harness) Shutdown() {
	h.mu.Lock()
	n := h.n
	h.n = nil
	h.mu.Unlock()

	if n == nil {
		return
	}
	if err := n.Shutdown(context.WithoutCancel(h.ctx)); err != nil {
		h.t.Errorf("failed to shut down nucleus: %v", err)
	}
}

func (h *Harness) running() *nucleus.Nucleus {
	h.t.Helper()
	n := h.Nucleus()
	if n == nil {
		h.t.Fatal("nucleus is not running")
	}
	return n
}

// NewSessionRequest creates a synthetic request for sessionID. Failure is
// fatal to the test.
func (h *Harness) NewSessionRequest(sessionID string, mode request.Mode) *request.Request {
	h.t.Helper()
	r, err := h.running().NewRequestForSession(sessionID, mode)
	if err != nil {
		h.t.Fatalf("failed to create request for session %q: %v", sessionID, err)
	}
	return r
}

// ResolveWithRequest resolves path with r as the current request and
// returns the component, or nil if it cannot be resolved. The reason is
// logged so assertions on nil stay readable.
func (h *Harness) ResolveWithRequest(r *request.Request, path string) any {
	h.t.Helper()
	v, err := h.running().ResolveWithRequest(h.ctx, r, path)
	if err != nil {
		h.t.Logf("resolve %s: %v", path, err)
		return nil
	}
	return v
}

// MustResolveWithRequest is ResolveWithRequest that fails the test when
// the component cannot be resolved.
func (h *Harness) MustResolveWithRequest(r *request.Request, path string) any {
	h.t.Helper()
	v, err := h.running().ResolveWithRequest(h.ctx, r, path)
	if err != nil {
		h.t.Fatalf("resolve %s: %v", path, err)
	}
	return v
}

// AbsoluteNameOf returns the path v was resolved from.
func (h *Harness) AbsoluteNameOf(v any) string {
	return h.running().AbsoluteNameOf(v)
}
