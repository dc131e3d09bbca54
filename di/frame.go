package di

import (
	"context"

	"github.com/kbukum/nucleus/naming"
	"github.com/kbukum/nucleus/scope"
)

// frame is one component under construction. Frames chain through the
// context so nested resolutions can detect cycles and lifetime violations.
type frame struct {
	path   naming.Path
	scope  scope.Scope
	parent *frame
}

type frameContextKey struct{}

func withFrame(ctx context.Context, f *frame) context.Context {
	return context.WithValue(ctx, frameContextKey{}, f)
}

func frameFrom(ctx context.Context) *frame {
	f, _ := ctx.Value(frameContextKey{}).(*frame)
	return f
}

// cycle returns the construction chain ending in p if p is already being
// constructed, outermost first.
func (f *frame) cycle(p naming.Path) []string {
	var chain []string
	found := false
	for cur := f; cur != nil; cur = cur.parent {
		chain = append(chain, cur.path.String())
		if cur.path.Equal(p) {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return append(chain, p.String())
}

// base returns the path relative names are resolved against.
func base(ctx context.Context) naming.Path {
	if f := frameFrom(ctx); f != nil {
		return f.path
	}
	return naming.Root
}
