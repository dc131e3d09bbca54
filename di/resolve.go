package di

import "fmt"

// MustResolve resolves a component with type safety, panics on error.
// Use this in constructors whose dependency is known to be registered.
//
// Example:
//
//	clock := di.MustResolve[*Clock](r, "/atg/dynamo/service/Clock")
func MustResolve[T any](r Resolver, name string) T {
	result, err := Resolve[T](r, name)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a component with type safety, returns error on failure.
//
// Example:
//
//	info, err := di.Resolve[*SessionInfo](r, "sessiontracking/SessionInfo")
//	if err != nil {
//	    return nil, err
//	}
func Resolve[T any](r Resolver, name string) (T, error) {
	var zero T
	instance, err := r.Resolve(name)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", name, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", name, instance, zero)
	}
	return result, nil
}

// TryResolve attempts to resolve a component, returns zero value and false
// if the component cannot be resolved or has the wrong type.
func TryResolve[T any](r Resolver, name string) (T, bool) {
	result, err := Resolve[T](r, name)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}
