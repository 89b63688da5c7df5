package lazy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// State is the resolution state of a Handle.
type State int

const (
	Pending State = iota
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer is notified around each retrieval. Implementations must be safe
// for concurrent use.
type Observer interface {
	LoadStarted(label string)
	LoadFinished(label string, elapsed time.Duration, err error)
}

// Option configures a Handle.
type Option func(*Handle)

// WithLabel names the module for diagnostics.
func WithLabel(label string) Option {
	return func(h *Handle) {
		h.label = label
	}
}

// WithObserver attaches an observer to the handle.
func WithObserver(o Observer) Option {
	return func(h *Handle) {
		h.observer = o
	}
}

// WithStrict enables the stricter development-time shape check.
func WithStrict(strict bool) Option {
	return func(h *Handle) {
		h.strict = strict
	}
}

// Handle is a memoized reference to a lazily retrieved module. The loader runs
// at most once; concurrent callers share the in-flight retrieval and the
// outcome, success or failure, is kept for the handle's lifetime.
type Handle struct {
	loader   Loader
	label    string
	observer Observer
	strict   bool

	group singleflight.Group

	mu    sync.RWMutex
	state State
	mod   Module
	err   error
}

// Guard wraps loader so that its result is validated before use.
func Guard(loader Loader, opts ...Option) *Handle {
	h := &Handle{loader: loader}
	for _, opt := range opts {
		opt(h)
	}
	h.label = labelFor(h.label, loader)
	return h
}

// Label returns the module label used in diagnostics.
func (h *Handle) Label() string {
	return h.label
}

// State returns the current resolution state.
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Err returns the cached failure, if any.
func (h *Handle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Resolve returns the module, retrieving it on first use. If ctx ends before
// the retrieval completes Resolve returns ctx.Err(); the retrieval itself
// carries on and its result is still cached.
func (h *Handle) Resolve(ctx context.Context) (Module, error) {
	if mod, err, done := h.cached(); done {
		return mod, err
	}
	ch := h.group.DoChan("resolve", func() (any, error) {
		if mod, err, done := h.cached(); done {
			return mod, err
		}
		mod, err := h.load(context.WithoutCancel(ctx))
		h.mu.Lock()
		h.mod, h.err = mod, err
		if err != nil {
			h.state = Failed
		} else {
			h.state = Resolved
		}
		h.mu.Unlock()
		return mod, err
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Module), nil
	}
}

func (h *Handle) cached() (Module, error, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == Pending {
		return nil, nil, false
	}
	return h.mod, h.err, true
}

func (h *Handle) load(ctx context.Context) (Module, error) {
	if h.observer != nil {
		h.observer.LoadStarted(h.label)
	}
	start := time.Now()
	mod, err := h.fetch(ctx)
	if h.observer != nil {
		h.observer.LoadFinished(h.label, time.Since(start), err)
	}
	return mod, err
}

func (h *Handle) fetch(ctx context.Context) (mod Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			mod, err = nil, &RetrievalError{Label: h.label, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	mod, err = h.loader.Load(ctx)
	if err != nil {
		return nil, &RetrievalError{Label: h.label, Err: err}
	}
	if !Renderable(mod.Default(), h.strict) {
		return nil, &ModuleShapeError{Label: h.label, Keys: mod.Keys()}
	}
	return mod, nil
}
