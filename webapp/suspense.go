package webapp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/drummonds/posadmin/lazy"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// ErrNotRenderable is returned for a module that passed the shape check but
// whose default export the renderer cannot turn into UI.
var ErrNotRenderable = errors.New("default export is not renderable")

// Suspense renders Fallback until Handle resolves, then the page it yields.
// A failed resolution renders an ErrorPanel in place of the page.
type Suspense struct {
	app.Compo
	Handle   *lazy.Handle
	Fallback app.UI

	page app.UI
	err  error
}

// OnPreRender resolves synchronously so server-rendered HTML carries the page.
func (s *Suspense) OnPreRender(ctx app.Context) {
	s.settle(s.Handle.Resolve(ctx))
}

// OnMount is called when the component is mounted
func (s *Suspense) OnMount(ctx app.Context) {
	s.resolve(ctx)
}

// OnUpdate runs when navigation reuses this component for another route.
func (s *Suspense) OnUpdate(ctx app.Context) {
	s.page, s.err = nil, nil
	s.resolve(ctx)
}

func (s *Suspense) resolve(ctx app.Context) {
	handle := s.Handle
	if handle.State() != lazy.Pending {
		mod, err := handle.Resolve(ctx)
		ctx.Dispatch(func(app.Context) {
			s.settle(mod, err)
		})
		return
	}
	ctx.Async(func() {
		mod, err := handle.Resolve(ctx)
		ctx.Dispatch(func(app.Context) {
			if s.Handle != handle {
				return
			}
			s.settle(mod, err)
		})
	})
}

func (s *Suspense) settle(mod lazy.Module, err error) {
	if err == nil {
		s.page, err = renderModule(mod)
	}
	if err != nil {
		Logger.Error("Page module failed to load", "module", s.Handle.Label(), "error", err)
		s.page, s.err = nil, err
	}
}

// Render renders the fallback, the page or the failure
func (s *Suspense) Render() app.UI {
	switch {
	case s.err != nil:
		return NewErrorPanel(s.err)
	case s.page != nil:
		return s.page
	case s.Fallback != nil:
		return s.Fallback
	default:
		return &Loading{}
	}
}

func renderModule(mod lazy.Module) (app.UI, error) {
	switch d := mod.Default().(type) {
	case func() app.Composer:
		return d(), nil
	case func() app.UI:
		return d(), nil
	case app.UI:
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotRenderable, d)
	}
}
