// Package lazy wraps asynchronous page module retrieval so that a module is
// fetched at most once, validated, and cached for the life of the app.
package lazy

import (
	"context"
	"reflect"
	"sort"
)

// DefaultExport is the export a page module must provide its component under.
const DefaultExport = "default"

// Module is a retrieved page module: its exports keyed by name.
type Module map[string]any

// Default returns the module's default export, or nil.
func (m Module) Default() any {
	if m == nil {
		return nil
	}
	return m[DefaultExport]
}

// Keys returns the export names present on the module, sorted.
func (m Module) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Loader retrieves a module.
type Loader interface {
	Load(ctx context.Context) (Module, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (Module, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (Module, error) {
	return f(ctx)
}

// Renderable reports whether v can stand as a component: any non-nil func, or
// a non-nil structured value (struct, pointer, map, slice or array).
// Scalars and nil are rejected. In strict mode a func must also take no
// arguments and return exactly one value.
func Renderable(v any, strict bool) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return false
		}
		if strict {
			t := rv.Type()
			return t.NumIn() == 0 && t.NumOut() == 1
		}
		return true
	case reflect.Pointer, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	case reflect.Struct, reflect.Array:
		return true
	default:
		return false
	}
}
