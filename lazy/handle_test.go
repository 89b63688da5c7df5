package lazy

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type component struct{}

// sourceLoader mimics a loader whose source text is available.
type sourceLoader struct {
	src string
	mod Module
}

func (l sourceLoader) Load(context.Context) (Module, error) { return l.mod, nil }
func (l sourceLoader) String() string                       { return l.src }

func TestResolveValidModulesPassThrough(t *testing.T) {
	valid := map[string]any{
		"func":        func() *component { return &component{} },
		"pointer":     &component{},
		"struct":      component{},
		"map":         map[string]string{"k": "v"},
		"loose func":  func(int) {},
		"interface":   any(&component{}),
		"empty slice": []int{},
		"array":       [2]string{"a", "b"},
	}
	for name, def := range valid {
		t.Run(name, func(t *testing.T) {
			want := Module{DefaultExport: def, "meta": "x"}
			h := Guard(LoaderFunc(func(context.Context) (Module, error) { return want, nil }))
			got, err := h.Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(got) != len(want) || got["meta"] != "x" {
				t.Errorf("module changed: %v", got)
			}
			if h.State() != Resolved {
				t.Errorf("state = %v, want resolved", h.State())
			}
		})
	}
}

func TestResolveInvalidModulesFail(t *testing.T) {
	var nilPtr *component
	var nilFunc func()
	invalid := map[string]Module{
		"undefined": {DefaultExport: nil, "List": &component{}},
		"missing":   {"List": &component{}, "meta": 1},
		"string":    {DefaultExport: "component"},
		"number":    {DefaultExport: 42},
		"bool":      {DefaultExport: true},
		"nil ptr":   {DefaultExport: nilPtr},
		"nil func":  {DefaultExport: nilFunc},
		"nil map":   {DefaultExport: map[string]any(nil)},
		"nil slice": {DefaultExport: []int(nil)},
		"nil":       nil,
	}
	for name, mod := range invalid {
		t.Run(name, func(t *testing.T) {
			h := Guard(LoaderFunc(func(context.Context) (Module, error) { return mod, nil }), WithLabel("modules/x/y"))
			_, err := h.Resolve(context.Background())
			var shape *ModuleShapeError
			if !errors.As(err, &shape) {
				t.Fatalf("err = %v, want ModuleShapeError", err)
			}
			if shape.Label != "modules/x/y" {
				t.Errorf("label = %q", shape.Label)
			}
			keys := strings.Join(mod.Keys(), ",")
			if !strings.Contains(err.Error(), "Resolved keys: "+keys) {
				t.Errorf("message %q does not list keys %q", err.Error(), keys)
			}
			if h.State() != Failed {
				t.Errorf("state = %v, want failed", h.State())
			}
		})
	}
}

func TestStrictRejectsFuncsWithArguments(t *testing.T) {
	mod := Module{DefaultExport: func(int) *component { return nil }}
	h := Guard(LoaderFunc(func(context.Context) (Module, error) { return mod, nil }), WithStrict(true))
	if _, err := h.Resolve(context.Background()); err == nil {
		t.Fatal("strict handle accepted a func with arguments")
	}
}

func TestLabelFromSource(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{`func() { return import("../modules/x/Y.jsx") }`, "../modules/x/Y.jsx"},
		{`import('modules/sales/orders/list')`, "modules/sales/orders/list"},
		{`func() { return load(name) }`, UnknownLabel},
		{"", UnknownLabel},
	}
	for _, tt := range tests {
		if got := LabelFromSource(tt.src); got != tt.want {
			t.Errorf("LabelFromSource(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestShapeErrorLabelFromLoaderSource(t *testing.T) {
	h := Guard(sourceLoader{src: `import("../modules/x/Y.jsx")`, mod: Module{"named": 1}})
	_, err := h.Resolve(context.Background())
	if err == nil || !strings.Contains(err.Error(), `"../modules/x/Y.jsx"`) {
		t.Fatalf("err = %v", err)
	}

	anon := Guard(LoaderFunc(func(context.Context) (Module, error) { return Module{}, nil }))
	if anon.Label() != UnknownLabel {
		t.Errorf("label = %q, want %q", anon.Label(), UnknownLabel)
	}
}

func TestExplicitLabelWins(t *testing.T) {
	h := Guard(sourceLoader{src: `import("a")`}, WithLabel("b"))
	if h.Label() != "b" {
		t.Errorf("label = %q", h.Label())
	}
}

func TestResolveRunsLoaderOnceForConcurrentCallers(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	h := Guard(LoaderFunc(func(context.Context) (Module, error) {
		calls.Add(1)
		<-release
		return Module{DefaultExport: &component{}}, nil
	}))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Resolve(context.Background())
			errs <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Resolve: %v", err)
		}
	}
	if _, err := h.Resolve(context.Background()); err != nil {
		t.Errorf("cached Resolve: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("loader ran %d times, want 1", n)
	}
}

func TestFailureIsCached(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("network down")
	h := Guard(LoaderFunc(func(context.Context) (Module, error) {
		calls.Add(1)
		return nil, boom
	}), WithLabel("modules/broken"))
	for i := 0; i < 3; i++ {
		_, err := h.Resolve(context.Background())
		var re *RetrievalError
		if !errors.As(err, &re) || !errors.Is(err, boom) {
			t.Fatalf("err = %v, want RetrievalError wrapping boom", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("loader ran %d times, want 1", calls.Load())
	}
	if h.Err() == nil {
		t.Error("Err() = nil after failure")
	}
}

func TestPanickingLoaderBecomesRetrievalError(t *testing.T) {
	h := Guard(LoaderFunc(func(context.Context) (Module, error) { panic("bad build") }))
	_, err := h.Resolve(context.Background())
	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RetrievalError", err)
	}
}

func TestCanceledWaiterDoesNotPoisonCache(t *testing.T) {
	release := make(chan struct{})
	h := Guard(LoaderFunc(func(ctx context.Context) (Module, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Module{DefaultExport: &component{}}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := h.Resolve(ctx)
		done <- err
	}()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	close(release)

	if _, err := h.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve after cancel: %v", err)
	}
	if h.State() != Resolved {
		t.Errorf("state = %v", h.State())
	}
}

type recorder struct {
	mu       sync.Mutex
	started  []string
	finished []error
}

func (r *recorder) LoadStarted(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, label)
}

func (r *recorder) LoadFinished(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, err)
}

func TestObserverSeesEachRetrievalOnce(t *testing.T) {
	rec := &recorder{}
	h := Guard(LoaderFunc(func(context.Context) (Module, error) {
		return Module{"oops": 1}, nil
	}), WithLabel("modules/bad"), WithObserver(rec))
	h.Resolve(context.Background())
	h.Resolve(context.Background())
	if len(rec.started) != 1 || rec.started[0] != "modules/bad" {
		t.Errorf("started = %v", rec.started)
	}
	if len(rec.finished) != 1 || rec.finished[0] == nil {
		t.Errorf("finished = %v", rec.finished)
	}
}

func TestStateString(t *testing.T) {
	if Pending.String() != "pending" || Resolved.String() != "resolved" || Failed.String() != "failed" {
		t.Error("unexpected State strings")
	}
}

func TestRenderable(t *testing.T) {
	var nilPtr *component
	tests := []struct {
		name   string
		v      any
		strict bool
		want   bool
	}{
		{"struct", component{}, false, true},
		{"array", [1]int{7}, false, true},
		{"empty array", [0]int{}, false, true},
		{"slice", []int{1}, false, true},
		{"nil slice", []int(nil), false, false},
		{"boxed pointer", any(&component{}), false, true},
		{"boxed nil pointer", any(nilPtr), false, false},
		{"string", "x", false, false},
		{"func with args", func(int) *component { return nil }, false, true},
		{"strict func with args", func(int) *component { return nil }, true, false},
		{"strict func no result", func() {}, true, false},
		{"strict builder", func() *component { return nil }, true, true},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Renderable(tt.v, tt.strict); got != tt.want {
				t.Errorf("Renderable(%T, %t) = %t, want %t", tt.v, tt.strict, got, tt.want)
			}
		})
	}
}
