package request

import "context"

type requestContextKey struct{}

// WithRequest returns a derived context carrying r. The parent context is
// left untouched, so the previously bound request (if any) is still the one
// seen through ctx once the derived context goes out of use.
func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestContextKey{}, r)
}

// FromContext returns the request bound to ctx.
func FromContext(ctx context.Context) (*Request, bool) {
	r, ok := ctx.Value(requestContextKey{}).(*Request)
	return r, ok && r != nil
}
