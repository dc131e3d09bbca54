package di

import (
	"context"
	"sync"

	"github.com/kbukum/nucleus/scope"
)

// chain identifies one top-level resolution and every nested resolution
// made on its behalf, across the namespaces it touches.
type chain struct{}

type chainContextKey struct{}

func withChain(ctx context.Context) context.Context {
	if chainFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, chainContextKey{}, &chain{})
}

func chainFrom(ctx context.Context) *chain {
	ch, _ := ctx.Value(chainContextKey{}).(*chain)
	return ch
}

type slotKey struct {
	ns   *scope.Namespace
	path string
}

// waitGraph records which chain is constructing each slot and which slot
// each chain is blocked on. Frames catch cycles inside one chain; the
// graph catches cycles that span chains running concurrently.
type waitGraph struct {
	mu       sync.Mutex
	building map[slotKey]*chain
	waiting  map[*chain]slotKey
}

func newWaitGraph() *waitGraph {
	return &waitGraph{
		building: make(map[slotKey]*chain),
		waiting:  make(map[*chain]slotKey),
	}
}

// wait registers that me is about to block on k. If the chain building k
// is (transitively) waiting on something me is building, wait returns the
// cycle of paths instead.
func (g *waitGraph) wait(me *chain, k slotKey) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	paths := []string{k.path}
	owner := g.building[k]
	for steps := 0; owner != nil && steps <= len(g.waiting); steps++ {
		if owner == me {
			return append([]string{paths[len(paths)-1]}, paths...)
		}
		next, ok := g.waiting[owner]
		if !ok {
			break
		}
		paths = append(paths, next.path)
		owner = g.building[next]
	}
	g.waiting[me] = k
	return nil
}

// acquire marks me as the builder of k.
func (g *waitGraph) acquire(me *chain, k slotKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.waiting, me)
	g.building[k] = me
}

func (g *waitGraph) release(k slotKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.building, k)
}

// done clears me's wait on k, if it is still registered.
func (g *waitGraph) done(me *chain, k slotKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.waiting[me] == k {
		delete(g.waiting, me)
	}
}
