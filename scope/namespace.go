package scope

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/kbukum/nucleus/errors"
)

// Closer is implemented by component instances that hold resources and must
// be released when their namespace closes.
type Closer interface {
	Close() error
}

// EvictFunc is notified for every instance dropped from a namespace.
type EvictFunc func(path string, instance any)

type slot struct {
	mu    sync.Mutex
	done  bool
	value any
}

// Namespace caches component instances for one owner: the container, a
// session, a window or a request. Each path is constructed at most once;
// failed constructions are not cached.
type Namespace struct {
	scope Scope
	owner string

	mu      sync.Mutex
	slots   map[string]*slot
	order   []string
	closed  bool
	onEvict []EvictFunc
}

// NewNamespace creates an empty namespace for the given scope and owner id.
func NewNamespace(s Scope, owner string) *Namespace {
	return &Namespace{
		scope: s,
		owner: owner,
		slots: make(map[string]*slot),
	}
}

// Scope returns the scope whose instances this namespace holds.
func (n *Namespace) Scope() Scope { return n.scope }

// Owner returns the id of the owner (session id, window id, request id).
func (n *Namespace) Owner() string { return n.owner }

// OnEvict registers a hook called for each instance dropped at Close.
func (n *Namespace) OnEvict(fn EvictFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onEvict = append(n.onEvict, fn)
}

// Get returns the cached instance at path, if constructed.
func (n *Namespace) Get(path string) (any, bool) {
	n.mu.Lock()
	s, ok := n.slots[path]
	n.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.done
}

// GetOrCreate returns the instance at path, calling create if none has been
// constructed yet. Concurrent callers for the same path wait for a single
// construction. The created flag is true only for the caller that built it.
// An instance built after the namespace closed is evicted and closed at
// once, and the caller gets CONTAINER_STOPPED.
func (n *Namespace) GetOrCreate(path string, create func() (any, error)) (instance any, created bool, err error) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, false, errors.ContainerStopped(fmt.Sprintf("%s namespace %s", n.scope, n.owner))
	}
	s, ok := n.slots[path]
	if !ok {
		s = &slot{}
		n.slots[path] = s
	}
	n.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.value, false, nil
	}

	v, err := create()
	if err != nil {
		return nil, false, err
	}

	n.mu.Lock()
	if n.closed {
		hooks := n.onEvict
		n.mu.Unlock()
		stopped := errors.ContainerStopped(fmt.Sprintf("%s namespace %s", n.scope, n.owner))
		if err := n.release(path, v, hooks); err != nil {
			stopped.Cause = err
		}
		return nil, false, stopped
	}
	s.value, s.done = v, true
	n.order = append(n.order, path)
	n.mu.Unlock()
	return v, true, nil
}

// release evicts and closes an instance dropped from the namespace.
func (n *Namespace) release(path string, v any, hooks []EvictFunc) error {
	for _, fn := range hooks {
		fn(path, v)
	}
	if c, ok := v.(Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
	}
	return nil
}

// Names returns the paths of constructed instances in construction order.
func (n *Namespace) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.order...)
}

// Len returns the number of constructed instances.
func (n *Namespace) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.order)
}

// Closed reports whether Close has been called.
func (n *Namespace) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// Close releases every cached instance in reverse construction order,
// calling Close on those that implement Closer. It is safe to call twice.
func (n *Namespace) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	order := n.order
	slots := n.slots
	hooks := n.onEvict
	n.order, n.slots = nil, make(map[string]*slot)
	n.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		path := order[i]
		if err := n.release(path, slots[path].value, hooks); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
