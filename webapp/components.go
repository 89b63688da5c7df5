package webapp

import (
	"errors"

	"github.com/drummonds/posadmin/lazy"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Loading is the fallback shown while a page module resolves.
type Loading struct {
	app.Compo
}

// Render renders the loading indicator
func (l *Loading) Render() app.UI {
	return app.Div().Class("loading").Body(app.Text("Loading..."))
}

// NotFound is rendered for any path the router does not know.
type NotFound struct {
	app.Compo
}

// Render renders the not found card
func (n *NotFound) Render() app.UI {
	return app.Div().Class("card p-8").Text("Not Found")
}

// ErrorPanel replaces a page whose module failed to load. Only that route is
// affected; the layout around it keeps working.
type ErrorPanel struct {
	app.Compo
	Message string
	Module  string
}

// NewErrorPanel builds the panel for a resolution failure.
func NewErrorPanel(err error) *ErrorPanel {
	p := &ErrorPanel{Message: err.Error(), Module: lazy.UnknownLabel}
	var shape *lazy.ModuleShapeError
	var retrieval *lazy.RetrievalError
	switch {
	case errors.As(err, &shape):
		p.Module = shape.Label
	case errors.As(err, &retrieval):
		p.Module = retrieval.Label
	}
	return p
}

// Render renders the error panel
func (e *ErrorPanel) Render() app.UI {
	return app.Div().
		Class("card p-8 error").
		Body(
			app.H3().Text("This page failed to load"),
			app.P().Class("error-module").Text(e.Module),
			app.Pre().Class("error-detail").Text(e.Message),
		)
}
