package di

import (
	"reflect"
	"sync"
)

// nameIndex maps live instances back to the path they were constructed
// for. Only pointer and channel instances have identity and are indexed.
type nameIndex struct {
	mu    sync.RWMutex
	names map[interface{}]string
}

func newNameIndex() *nameIndex {
	return &nameIndex{names: make(map[interface{}]string)}
}

func indexable(v interface{}) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func (x *nameIndex) add(v interface{}, path string) {
	if !indexable(v) {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.names[v] = path
}

func (x *nameIndex) remove(path string, v interface{}) {
	if !indexable(v) {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.names[v] == path {
		delete(x.names, v)
	}
}

func (x *nameIndex) lookup(v interface{}) (string, bool) {
	if !indexable(v) {
		return "", false
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	name, ok := x.names[v]
	return name, ok
}
