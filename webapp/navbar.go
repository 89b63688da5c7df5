package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// NavLink is a single navigation entry.
type NavLink struct {
	Title string
	Path  string
}

// NavSection groups navigation entries under a heading.
type NavSection struct {
	Title string
	Links []NavLink
}

// NavBar is the navigation bar component
type NavBar struct {
	app.Compo
	Sections []NavSection
	Active   string
}

// Render renders the navigation bar
func (n *NavBar) Render() app.UI {
	return app.Nav().
		Class("navbar").
		Body(
			app.Div().Class("navbar-brand").Body(
				app.A().Href("/").Body(app.H1().Text("Back Office")),
			),
			app.Div().Class("navbar-menu").Body(
				app.Range(n.Sections).Slice(func(i int) app.UI {
					return n.renderSection(n.Sections[i])
				}),
			),
			app.A().
				Href("/logout").
				Class("navbar-item navbar-logout").
				Body(app.Text("Sign out")),
		)
}

func (n *NavBar) renderSection(s NavSection) app.UI {
	return app.Div().Class("navbar-section").Body(
		app.Span().Class("navbar-section-title").Text(s.Title),
		app.Range(s.Links).Slice(func(i int) app.UI {
			link := s.Links[i]
			class := "navbar-item"
			if link.Path == n.Active {
				class += " is-active"
			}
			return app.A().
				Href(link.Path).
				Class(class).
				Body(app.Text(link.Title))
		}),
	)
}
