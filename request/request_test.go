package request

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/scope"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestManager(opts ...Option) *Manager {
	base := []Option{WithIDGenerator(sequentialIDs()), WithLogger(logger.Nop())}
	return NewManager(append(base, opts...)...)
}

func TestNewRequestGeneratesWindowID(t *testing.T) {
	m := newTestManager()
	r, err := m.NewRequest("mySessionId", ModeNew, nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if r.Session().ID() != "mySessionId" {
		t.Errorf("expected session mySessionId, got %q", r.Session().ID())
	}
	wid := r.Parameter(WindowIDParam)
	if wid == "" {
		t.Fatal("expected generated window id parameter")
	}
	if r.WindowID() != wid || r.Window().ID() != wid {
		t.Errorf("window id mismatch: param=%q window=%q", wid, r.Window().ID())
	}
	if r.ID() == "" || r.ID() == wid {
		t.Errorf("expected distinct request id, got %q", r.ID())
	}
}

func TestNewRequestUsesWindowParam(t *testing.T) {
	m := newTestManager()
	params := url.Values{WindowIDParam: {"w7"}, "q": {"x"}}
	r, err := m.NewRequest("s", ModeNew, params)
	if err != nil {
		t.Fatal(err)
	}
	if r.WindowID() != "w7" {
		t.Errorf("expected window w7, got %q", r.WindowID())
	}
	if r.Parameter("q") != "x" {
		t.Errorf("expected q=x, got %q", r.Parameter("q"))
	}
	params.Set("q", "mutated")
	if r.Parameter("q") != "x" {
		t.Error("request parameters must be copied")
	}
	ps := r.Parameters()
	ps.Set("q", "again")
	if r.Parameter("q") != "x" {
		t.Error("Parameters must return a copy")
	}
}

func TestNewRequestGeneratesSessionID(t *testing.T) {
	m := newTestManager()
	r, err := m.NewRequest("", ModeNew, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Session().ID() == "" {
		t.Error("expected generated session id")
	}
}

func TestNewRequestRejectsUnknownMode(t *testing.T) {
	m := newTestManager()
	_, err := m.NewRequest("s", Mode("reuse"), nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestModeExistingJoinsSession(t *testing.T) {
	m := newTestManager()
	r1, _ := m.NewRequest("s", ModeNew, url.Values{WindowIDParam: {"w"}})
	r2, err := m.NewRequest("s", ModeExisting, url.Values{WindowIDParam: {"w"}})
	if err != nil {
		t.Fatal(err)
	}
	if r1.Session() != r2.Session() {
		t.Error("expected existing mode to join the same session")
	}
	if r1.Window() != r2.Window() {
		t.Error("expected same window for the same window id")
	}
	if r1.Session().Windows() != 1 {
		t.Errorf("expected 1 window, got %d", r1.Session().Windows())
	}

	r3, _ := m.NewRequest("other", ModeExisting, nil)
	if r3.Session() == r1.Session() {
		t.Error("expected existing mode to create an absent session")
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", m.Len())
	}
}

func TestModeNewReplacesSession(t *testing.T) {
	m := newTestManager()
	r1, _ := m.NewRequest("s", ModeNew, nil)
	old := r1.Session()
	r2, _ := m.NewRequest("s", ModeNew, nil)
	if r2.Session() == old {
		t.Fatal("expected a fresh session")
	}
	if old.Valid() {
		t.Error("expected replaced session to be invalidated")
	}
	if !old.Namespace().Closed() {
		t.Error("expected replaced session namespace to be closed")
	}
	if got, _ := m.Session("s"); got != r2.Session() {
		t.Error("expected the manager to hold the fresh session")
	}
}

func TestRequestNamespaces(t *testing.T) {
	m := newTestManager()
	r, _ := m.NewRequest("s", ModeNew, nil)

	tests := []struct {
		s    scope.Scope
		want *scope.Namespace
		ok   bool
	}{
		{scope.Session, r.Session().Namespace(), true},
		{scope.Window, r.Window().Namespace(), true},
		{scope.Request, r.ns, true},
		{scope.Global, nil, false},
		{scope.Prototype, nil, false},
	}
	for _, tc := range tests {
		ns, ok := r.Namespace(tc.s)
		if ok != tc.ok || ns != tc.want {
			t.Errorf("Namespace(%s) = %v, %v", tc.s, ns, ok)
		}
		if ok && ns.Scope() != tc.s {
			t.Errorf("Namespace(%s) has scope %s", tc.s, ns.Scope())
		}
	}
}

func TestRequestEnd(t *testing.T) {
	m := newTestManager()
	r, _ := m.NewRequest("s", ModeNew, nil)
	if m.ActiveRequests() != 1 {
		t.Errorf("expected 1 active request, got %d", m.ActiveRequests())
	}
	if err := r.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if !r.Ended() {
		t.Error("expected request ended")
	}
	if err := r.End(); err != nil {
		t.Errorf("second End should be a no-op, got %v", err)
	}
	if m.ActiveRequests() != 0 {
		t.Errorf("expected 0 active requests, got %d", m.ActiveRequests())
	}
	if !r.Session().Valid() {
		t.Error("ending a request must not invalidate its session")
	}
}

func TestConcurrentEndCountsOnce(t *testing.T) {
	m := newTestManager()
	r, _ := m.NewRequest("s", ModeNew, nil)
	other, _ := m.NewRequest("s", ModeExisting, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.End(); err != nil {
				t.Errorf("End failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := m.ActiveRequests(); got != 1 {
		t.Errorf("expected 1 active request, got %d", got)
	}
	if other.Ended() {
		t.Error("expected the other request to stay open")
	}
}

func TestExpireIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(WithIdleTimeout(30*time.Minute), WithClock(func() time.Time { return now }))

	m.NewRequest("stale", ModeNew, nil)
	now = now.Add(20 * time.Minute)
	m.NewRequest("fresh", ModeNew, nil)
	now = now.Add(15 * time.Minute)

	if n := m.ExpireIdle(); n != 1 {
		t.Fatalf("expected 1 expired session, got %d", n)
	}
	if _, ok := m.Session("stale"); ok {
		t.Error("expected stale session removed")
	}
	if _, ok := m.Session("fresh"); !ok {
		t.Error("expected fresh session kept")
	}
}

func TestExpireIdleDisabled(t *testing.T) {
	m := newTestManager()
	m.NewRequest("s", ModeNew, nil)
	if n := m.ExpireIdle(); n != 0 {
		t.Errorf("expected no expiry without timeout, got %d", n)
	}
}

func TestInvalidate(t *testing.T) {
	m := newTestManager()
	r, _ := m.NewRequest("s", ModeNew, nil)
	if err := m.Invalidate("s"); err != nil {
		t.Fatal(err)
	}
	if r.Session().Valid() || !r.Window().Namespace().Closed() {
		t.Error("expected session and window released")
	}
	if err := m.Invalidate("missing"); err != nil {
		t.Errorf("invalidating an unknown session should be a no-op, got %v", err)
	}
}

func TestInvalidateAllStopsManager(t *testing.T) {
	m := newTestManager()
	m.NewRequest("a", ModeNew, nil)
	m.NewRequest("b", ModeNew, nil)
	if err := m.InvalidateAll(); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Errorf("expected no sessions, got %d", m.Len())
	}
	_, err := m.NewRequest("c", ModeNew, nil)
	if !errors.HasCode(err, errors.ErrCodeContainerStopped) {
		t.Errorf("expected CONTAINER_STOPPED, got %v", err)
	}
}

func TestNamespaceHook(t *testing.T) {
	var seen []scope.Scope
	m := newTestManager(WithNamespaceHook(func(ns *scope.Namespace) { seen = append(seen, ns.Scope()) }))
	m.NewRequest("s", ModeNew, nil)
	if len(seen) != 3 {
		t.Fatalf("expected session, window and request namespaces, got %v", seen)
	}
	if seen[0] != scope.Session || seen[1] != scope.Window || seen[2] != scope.Request {
		t.Errorf("unexpected namespace order %v", seen)
	}
}

func TestContextBinding(t *testing.T) {
	m := newTestManager()
	a, _ := m.NewRequest("a", ModeNew, nil)
	b, _ := m.NewRequest("b", ModeNew, nil)

	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no request on a bare context")
	}

	outer := WithRequest(context.Background(), a)
	inner := WithRequest(outer, b)

	if got, _ := FromContext(inner); got != b {
		t.Error("expected inner context to carry b")
	}
	if got, _ := FromContext(outer); got != a {
		t.Error("binding b must leave the outer context carrying a")
	}
	if _, ok := FromContext(WithRequest(context.Background(), nil)); ok {
		t.Error("a nil request must not count as bound")
	}
}
