// Package module groups component registrations into named modules that
// can require one another.
//
// A Catalog resolves a requested module list into the order in which the
// modules must register: every module after the modules it requires,
// each module once.
package module

import (
	"sort"
	"sync"

	"github.com/kbukum/nucleus/di"
	"github.com/kbukum/nucleus/errors"
)

// Module is a named set of component registrations.
type Module struct {
	Name        string
	Requires    []string
	Description string
	Register    func(c *di.Container) error
}

// Catalog provides named module lookup.
type Catalog struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewCatalog creates a catalog holding the given modules.
func NewCatalog(modules ...Module) *Catalog {
	c := &Catalog{modules: make(map[string]Module)}
	for _, m := range modules {
		c.modules[m.Name] = m
	}
	return c
}

// Add adds a module. Adding a name twice is an error.
func (c *Catalog) Add(m Module) error {
	if m.Name == "" {
		return errors.InvalidInput("name", "module name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.modules[m.Name]; exists {
		return errors.AlreadyExists("module " + m.Name)
	}
	c.modules[m.Name] = m
	return nil
}

// Get retrieves a module by name.
func (c *Catalog) Get(name string) (Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[name]
	return m, ok
}

// Names returns sorted names of all modules.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve expands names with their requirements and orders the result so
// that every module follows the modules it requires. Ties keep the order in
// which names were requested.
func (c *Catalog) Resolve(names []string) ([]Module, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var (
		ordered []Module
		stack   []string
	)

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, n := range stack {
				if n == name {
					start = i
					break
				}
			}
			chain := append(append([]string{}, stack[start:]...), name)
			return errors.ModuleCycle(chain)
		}

		m, ok := c.modules[name]
		if !ok {
			return errors.UnknownModule(name)
		}
		state[name] = visiting
		stack = append(stack, name)
		for _, req := range m.Requires {
			if err := visit(req); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		ordered = append(ordered, m)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
