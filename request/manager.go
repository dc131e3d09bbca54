package request

import (
	stderrors "errors"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/scope"
)

// Manager owns the session table and hands out requests bound to sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	idleTimeout time.Duration
	now         func() time.Time
	newID       func() string
	onNamespace func(*scope.Namespace)
	active      atomic.Int64
	log         *logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdleTimeout sets how long a session may go without requests before
// ExpireIdle invalidates it. Zero disables expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idleTimeout = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides how session, window and request ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// WithNamespaceHook is called for every session, window and request
// namespace the manager creates.
func WithNamespaceHook(fn func(*scope.Namespace)) Option {
	return func(m *Manager) { m.onNamespace = fn }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager creates an empty session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get("request")
	}
	return m
}

// NewRequest creates a request for sessionID. An empty sessionID gets a
// generated one. The window comes from the _windowid parameter, or a new
// window is opened and its id written back into the parameters.
func (m *Manager) NewRequest(sessionID string, mode Mode, params url.Values) (*Request, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = m.newID()
	}

	session, err := m.attach(sessionID, mode)
	if err != nil {
		return nil, err
	}

	p := make(url.Values, len(params)+1)
	for k, v := range params {
		p[k] = append([]string(nil), v...)
	}
	windowID := p.Get(WindowIDParam)
	if windowID == "" {
		windowID = m.newID()
		p.Set(WindowIDParam, windowID)
	}

	now := m.now()
	window, ok := session.touch(now, windowID)
	if !ok {
		// invalidated between attach and touch
		return m.NewRequest(sessionID, ModeNew, params)
	}

	r := &Request{
		id:      m.newID(),
		session: session,
		window:  window,
		params:  p,
		started: now,
		onEnd:   func(*Request) { m.active.Add(-1) },
	}
	r.ns = scope.NewNamespace(scope.Request, r.id)
	if m.onNamespace != nil {
		m.onNamespace(r.ns)
	}
	m.active.Add(1)

	m.log.Debug("Request created", logger.Fields(
		logger.FieldRequestID, r.id,
		logger.FieldSessionID, session.id,
		logger.FieldWindowID, windowID,
	))
	return r, nil
}

func (m *Manager) attach(id string, mode Mode) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errors.ContainerStopped("session manager")
	}
	existing, ok := m.sessions[id]
	if ok && mode == ModeExisting && existing.Valid() {
		m.mu.Unlock()
		return existing, nil
	}
	s := newSession(id, m.now(), m.onNamespace)
	m.sessions[id] = s
	m.mu.Unlock()

	if ok {
		if err := existing.Invalidate(); err != nil {
			m.log.Warn("Replaced session released with errors", logger.Fields(
				logger.FieldSessionID, id, logger.FieldError, err.Error(),
			))
		}
	}
	m.log.Debug("Session created", logger.Fields(logger.FieldSessionID, id))
	return s, nil
}

// Session returns the live session with the given id.
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ActiveRequests returns the number of requests not yet ended.
func (m *Manager) ActiveRequests() int64 { return m.active.Load() }

// Invalidate removes a session and releases its components.
func (m *Manager) Invalidate(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Invalidate()
}

// IdleTimeout returns the configured idle timeout; zero or negative means
// sessions never expire.
func (m *Manager) IdleTimeout() time.Duration { return m.idleTimeout }

// ExpireIdle invalidates sessions idle for longer than the idle timeout and
// returns how many were removed.
func (m *Manager) ExpireIdle() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastAccess().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		if err := s.Invalidate(); err != nil {
			m.log.Warn("Expired session released with errors", logger.Fields(
				logger.FieldSessionID, s.id, logger.FieldError, err.Error(),
			))
		}
	}
	if len(expired) > 0 {
		m.log.Info("Expired idle sessions", logger.Fields(logger.FieldCount, len(expired)))
	}
	return len(expired)
}

// InvalidateAll invalidates every session and refuses new requests afterwards.
func (m *Manager) InvalidateAll() error {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Invalidate(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
