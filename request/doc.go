// Package request models the client-side lifetimes a component can be bound
// to: sessions, browser windows within a session, and individual requests.
//
// A Request is bound to a context.Context with WithRequest; resolution code
// reads it back with FromContext. There is no process-wide current request.
package request
