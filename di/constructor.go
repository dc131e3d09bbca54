package di

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	resolverType = reflect.TypeOf((*Resolver)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// constructor is a validated constructor function.
type constructor struct {
	fn       reflect.Value
	params   []reflect.Type
	hasError bool
}

// newConstructor accepts func() T, func() (T, error), and functions whose
// parameters are any mix of context.Context and Resolver.
func newConstructor(fn interface{}) (*constructor, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %T", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("constructor must not be variadic")
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		in := t.In(i)
		if in != contextType && in != resolverType {
			return nil, fmt.Errorf("constructor parameter %d has type %s; only context.Context and di.Resolver are injected", i, in)
		}
		params[i] = in
	}

	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("constructor second result must be error, got %s", t.Out(1))
		}
	default:
		return nil, fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}

	return &constructor{fn: v, params: params, hasError: t.NumOut() == 2}, nil
}

func (c *constructor) call(ctx context.Context, r Resolver) (interface{}, error) {
	args := make([]reflect.Value, len(c.params))
	for i, p := range c.params {
		if p == contextType {
			args[i] = reflect.ValueOf(&ctx).Elem()
		} else {
			args[i] = reflect.ValueOf(&r).Elem()
		}
	}

	results := c.fn.Call(args)
	if c.hasError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	if isNil(results[0]) {
		return nil, fmt.Errorf("constructor returned nil")
	}
	return results[0].Interface(), nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
