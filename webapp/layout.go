package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// AdminLayout is the authenticated shell: header and navigation around a
// content region holding the routed page.
type AdminLayout struct {
	app.Compo
	Nav     []NavSection
	Active  string
	Content app.UI
}

// Render renders the layout
func (a *AdminLayout) Render() app.UI {
	return app.Div().
		Class("app-container").
		Body(
			app.Header().Body(
				&NavBar{Sections: a.Nav, Active: a.Active},
			),
			app.Main().Body(
				app.Div().Class("content").Body(
					a.Content,
				),
			),
		)
}
