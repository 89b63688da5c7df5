package modules

import (
	"github.com/drummonds/posadmin/lazy"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Meta describes a page module for navigation and search.
type Meta struct {
	Title   string
	Section string
	Summary string
}

// Page is the placeholder view every console page renders until its
// feature module lands.
type Page struct {
	app.Compo
	Meta Meta
}

// Render renders the page
func (p *Page) Render() app.UI {
	return app.Div().
		Class("page").
		Body(
			app.Div().Class("page-header").Body(
				app.Span().Class("page-section").Text(p.Meta.Section),
				app.H2().Text(p.Meta.Title),
			),
			app.Div().Class("card p-8").Body(
				app.P().Text(p.Meta.Summary),
			),
		)
}

func page(title, section, summary string) func() lazy.Module {
	meta := Meta{Title: title, Section: section, Summary: summary}
	return func() lazy.Module {
		return lazy.Module{
			lazy.DefaultExport: func() app.Composer { return &Page{Meta: meta} },
			"meta":             meta,
		}
	}
}
