// Package di provides the scope-aware component container.
//
// Components are registered at absolute paths with a scope and a
// constructor. Global components are cached by the container; session,
// window and request components are cached in the namespaces of the request
// bound to the resolving context; prototype components are built on every
// resolution.
//
// # Registration
//
//	c.Register("/atg/dynamo/service/Clock", scope.Global, func() *Clock {
//	    return &Clock{}
//	}, di.Eager())
//
// # Resolution
//
//	ctx = request.WithRequest(ctx, r)
//	cart, err := di.Resolve[*Cart](c.Bind(ctx), "/commerce/ShoppingCart")
package di
