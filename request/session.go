package request

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/kbukum/nucleus/scope"
)

// Session is one client session. It owns a session-scoped namespace and the
// windows opened within it.
type Session struct {
	id      string
	created time.Time
	ns      *scope.Namespace

	mu          sync.Mutex
	lastAccess  time.Time
	windows     map[string]*Window
	invalidated bool
	onWindow    func(*Window)
}

func newSession(id string, now time.Time, onNamespace func(*scope.Namespace)) *Session {
	s := &Session{
		id:         id,
		created:    now,
		lastAccess: now,
		ns:         scope.NewNamespace(scope.Session, id),
		windows:    make(map[string]*Window),
	}
	if onNamespace != nil {
		onNamespace(s.ns)
		s.onWindow = func(w *Window) { onNamespace(w.ns) }
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Created returns when the session was created.
func (s *Session) Created() time.Time { return s.created }

// LastAccess returns the time of the most recent request in this session.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// Namespace returns the session-scoped component namespace.
func (s *Session) Namespace() *scope.Namespace { return s.ns }

// Valid reports whether the session has not been invalidated.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.invalidated
}

// Window returns the window with the given id, if open.
func (s *Session) Window(id string) (*Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	return w, ok
}

// Windows returns the number of open windows.
func (s *Session) Windows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *Session) touch(now time.Time, windowID string) (*Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invalidated {
		return nil, false
	}
	s.lastAccess = now
	w, ok := s.windows[windowID]
	if !ok {
		w = &Window{id: windowID, session: s, ns: scope.NewNamespace(scope.Window, s.id+"/"+windowID)}
		s.windows[windowID] = w
		if s.onWindow != nil {
			s.onWindow(w)
		}
	}
	return w, true
}

// Invalidate closes every window namespace and then the session namespace.
func (s *Session) Invalidate() error {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return nil
	}
	s.invalidated = true
	windows := s.windows
	s.windows = make(map[string]*Window)
	s.mu.Unlock()

	var errs []error
	for _, w := range windows {
		if err := w.ns.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.ns.Close(); err != nil {
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

// Window is one browser window within a session.
type Window struct {
	id      string
	session *Session
	ns      *scope.Namespace
}

// ID returns the window id.
func (w *Window) ID() string { return w.id }

// Session returns the owning session.
func (w *Window) Session() *Session { return w.session }

// Namespace returns the window-scoped component namespace.
func (w *Window) Namespace() *scope.Namespace { return w.ns }
