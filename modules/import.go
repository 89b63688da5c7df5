// Package modules holds the console's page modules and the loaders used to
// retrieve them.
package modules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/drummonds/posadmin/lazy"
)

// ErrModuleNotFound is returned by a loader whose spec has no module behind it.
var ErrModuleNotFound = errors.New("module not found")

var (
	mu      sync.RWMutex
	catalog = map[string]func() lazy.Module{}
)

// Register makes a module available under spec. Registering a spec twice
// replaces the earlier module.
func Register(spec string, build func() lazy.Module) {
	mu.Lock()
	defer mu.Unlock()
	catalog[spec] = build
}

// Lookup returns the builder registered under spec.
func Lookup(spec string) (func() lazy.Module, bool) {
	mu.RLock()
	defer mu.RUnlock()
	build, ok := catalog[spec]
	return build, ok
}

// Specs lists every registered module spec, sorted.
func Specs() []string {
	mu.RLock()
	defer mu.RUnlock()
	specs := make([]string, 0, len(catalog))
	for s := range catalog {
		specs = append(specs, s)
	}
	sort.Strings(specs)
	return specs
}

// Import returns a loader for the module registered under spec.
func Import(spec string) lazy.Loader {
	return importLoader{spec: spec}
}

type importLoader struct {
	spec string
}

func (l importLoader) Load(ctx context.Context) (lazy.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mu.RLock()
	build, ok := catalog[l.spec]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", l.spec, ErrModuleNotFound)
	}
	return build(), nil
}

// String is the loader's source text; lazy recovers the label from it.
func (l importLoader) String() string {
	return fmt.Sprintf("import(%q)", l.spec)
}
