package webapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/drummonds/posadmin/lazy"
	"github.com/drummonds/posadmin/modules"
	"github.com/drummonds/posadmin/paths"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"golang.org/x/sync/errgroup"
)

// CatchAllPath is the path of the route matching anything left unmatched.
const CatchAllPath = "*"

// Route binds a path to a guarded page module.
type Route struct {
	Name     paths.Name
	Path     string
	Index    bool
	CatchAll bool
	Title    string
	Section  string
	Module   string
	Handle   *lazy.Handle
	Children []Route
}

// Binding is a route with its absolute path and placement resolved.
type Binding struct {
	Route    Route
	Path     string
	InLayout bool
}

// NotFound reports whether the binding is the catch-all.
func (b Binding) NotFound() bool {
	return b.Route.CatchAll
}

// Router is the console route table. It is built once and read-only after.
type Router struct {
	Root     Route
	TopLevel []Route
	CatchAll Route

	handles map[string]*lazy.Handle
}

// NewRouter builds the route table. opts apply to every page handle.
func NewRouter(opts ...lazy.Option) *Router {
	r := &Router{handles: make(map[string]*lazy.Handle)}
	guard := func(spec string) *lazy.Handle {
		if h, ok := r.handles[spec]; ok {
			return h
		}
		h := lazy.Guard(modules.Import(spec), opts...)
		r.handles[spec] = h
		return h
	}
	child := func(name paths.Name, spec, title, section string) Route {
		return Route{Name: name, Path: paths.Child(name), Title: title, Section: section, Module: spec, Handle: guard(spec)}
	}
	top := func(name paths.Name, spec, title string) Route {
		return Route{Name: name, Path: paths.Path(name), Title: title, Section: "Account", Module: spec, Handle: guard(spec)}
	}

	r.Root = Route{
		Name: paths.Root,
		Path: paths.Path(paths.Root),
		Children: []Route{
			{Name: paths.Root, Index: true, Title: "Dashboard", Section: "Overview", Module: modules.Dashboard, Handle: guard(modules.Dashboard)},
			child(paths.Dashboard, modules.Dashboard, "Dashboard", "Overview"),

			// Transactions shows the dashboard until it gets a view of its own.
			child(paths.AnalyticsTransactions, modules.Dashboard, "Transactions", "Analytics"),

			child(paths.IntegrationsPartners, modules.PartnersList, "Partners", "Integrations"),
			child(paths.IntegrationsMenuSync, modules.MenuSync, "Menu Sync", "Integrations"),
			child(paths.IntegrationsFeed, modules.DeliveryFeed, "Delivery Feed", "Integrations"),
			child(paths.IntegrationsWebhooks, modules.WebhookLogs, "Webhook Logs", "Integrations"),

			child(paths.HardwareHealth, modules.HardwareHealth, "Health", "Hardware"),
			child(paths.HardwareTerminals, modules.TerminalsList, "Terminals", "Hardware"),
			child(paths.HardwarePrinters, modules.PrintersList, "Printers", "Hardware"),

			child(paths.SalesOrders, modules.OrdersList, "Orders", "Sales"),
			child(paths.SalesPaymentsSessions, modules.PaymentSessions, "Payment Sessions", "Sales"),
			child(paths.SalesTables, modules.TablesBoard, "Tables", "Sales"),

			child(paths.BizBusinesses, modules.BusinessesList, "Businesses", "Catalog"),
			child(paths.BizLocations, modules.LocationsList, "Locations", "Catalog"),
			child(paths.BizAreasTables, modules.AreasTablesEditor, "Areas & Tables", "Catalog"),
			child(paths.BizCategories, modules.CategoriesList, "Categories", "Catalog"),
			child(paths.BizItems, modules.ItemsList, "Items", "Catalog"),
			child(paths.BizMenus, modules.MenusBuilder, "Menus", "Catalog"),
			child(paths.BizDiscounts, modules.DiscountsList, "Discounts", "Catalog"),

			child(paths.IAMUsers, modules.UsersList, "Users", "Access"),
			child(paths.IAMInvites, modules.InvitesList, "Invites", "Access"),
			child(paths.IAMRoles, modules.RolesPage, "Roles", "Access"),
			child(paths.IAMPolicies, modules.PoliciesPage, "Policies", "Access"),

			child(paths.Settings, modules.SettingsPage, "Settings", "Settings"),
		},
	}

	// login and logout render without the layout shell
	r.TopLevel = []Route{
		top(paths.AuthLogin, modules.Login, "Sign in"),
		top(paths.AuthLogout, modules.Logout, "Sign out"),
	}
	r.CatchAll = Route{Path: CatchAllPath, CatchAll: true, Title: "Not Found"}
	return r
}

// Bindings lists every route in evaluation order, catch-all last.
func (r *Router) Bindings() []Binding {
	base := paths.Clean(r.Root.Path)
	out := make([]Binding, 0, len(r.Root.Children)+len(r.TopLevel)+1)
	for _, c := range r.Root.Children {
		p := base
		if !c.Index {
			p = paths.Join(base, c.Path)
		}
		out = append(out, Binding{Route: c, Path: p, InLayout: true})
	}
	for _, t := range r.TopLevel {
		out = append(out, Binding{Route: t, Path: paths.Clean(t.Path)})
	}
	return append(out, Binding{Route: r.CatchAll, Path: CatchAllPath})
}

// Match resolves a request path. The first binding whose path equals the
// cleaned request path, ignoring case and a trailing slash, wins; anything
// else lands on the catch-all.
func (r *Router) Match(path string) Binding {
	p := paths.Clean(path)
	bindings := r.Bindings()
	for _, b := range bindings {
		if !b.NotFound() && strings.EqualFold(b.Path, p) {
			return b
		}
	}
	return bindings[len(bindings)-1]
}

// Page builds the component tree rendered for a binding.
func (r *Router) Page(b Binding) app.Composer {
	if b.NotFound() {
		return &NotFound{}
	}
	page := &Suspense{Handle: b.Route.Handle, Fallback: &Loading{}}
	if !b.InLayout {
		return page
	}
	return &AdminLayout{Nav: r.Nav(), Active: b.Path, Content: page}
}

// Render builds the component tree for a request path.
func (r *Router) Render(path string) app.Composer {
	return r.Page(r.Match(path))
}

// Register binds every route to the go-app router, with and without a
// trailing slash. go-app tries exact routes first, then regexp routes in
// registration order, so the case-insensitive page patterns come before the
// catch-all.
func (r *Router) Register() {
	for _, b := range r.Bindings() {
		if b.NotFound() {
			app.RouteWithRegexp("^/.*", func() app.Composer { return &NotFound{} })
			continue
		}
		page := func() app.Composer { return r.Page(b) }
		app.Route(b.Path, page)
		if b.Path != "/" {
			app.Route(b.Path+"/", page)
		}
		app.RouteWithRegexp(routePattern(b.Path), page)
	}
}

// routePattern matches p case-insensitively with an optional trailing slash.
func routePattern(p string) string {
	return `(?i)^` + regexp.QuoteMeta(strings.TrimSuffix(p, "/")) + `/?$`
}

// Nav groups the in-layout routes by section for the navigation bar.
func (r *Router) Nav() []NavSection {
	var sections []NavSection
	index := map[string]int{}
	for _, b := range r.Bindings() {
		if !b.InLayout || b.Route.Index {
			continue
		}
		i, ok := index[b.Route.Section]
		if !ok {
			i = len(sections)
			index[b.Route.Section] = i
			sections = append(sections, NavSection{Title: b.Route.Section})
		}
		sections[i].Links = append(sections[i].Links, NavLink{Title: b.Route.Title, Path: b.Path})
	}
	return sections
}

// Handles returns the distinct page handles sorted by label.
func (r *Router) Handles() []*lazy.Handle {
	out := make([]*lazy.Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	return out
}

// Prefetch resolves every page handle concurrently and reports all failures.
func (r *Router) Prefetch(ctx context.Context) error {
	handles := r.Handles()
	var (
		mu   sync.Mutex
		errs []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, h := range handles {
		g.Go(func() error {
			if _, err := h.Resolve(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

// Validate checks the table's structural invariants.
func (r *Router) Validate() error {
	var errs []error
	indexes := 0
	seen := map[string]bool{}
	for _, c := range r.Root.Children {
		if c.Index {
			indexes++
			continue
		}
		if seen[c.Path] {
			errs = append(errs, fmt.Errorf("duplicate child path %q", c.Path))
		}
		seen[c.Path] = true
	}
	if indexes != 1 {
		errs = append(errs, fmt.Errorf("layout has %d index routes, want 1", indexes))
	}

	bound := map[paths.Name]int{}
	top := map[string]bool{}
	for _, b := range r.Bindings() {
		if b.NotFound() {
			continue
		}
		if b.Route.Handle == nil {
			errs = append(errs, fmt.Errorf("route %q has no page handle", b.Path))
		}
		bound[b.Route.Name]++
		if !b.InLayout {
			if top[b.Path] {
				errs = append(errs, fmt.Errorf("duplicate top-level path %q", b.Path))
			}
			top[b.Path] = true
		}
	}
	for _, name := range paths.Names() {
		if n := bound[name]; n != 1 {
			errs = append(errs, fmt.Errorf("route name %s bound %d times, want 1", name, n))
		}
	}

	bindings := r.Bindings()
	for i, b := range bindings {
		if b.NotFound() && i != len(bindings)-1 {
			errs = append(errs, errors.New("catch-all route is not last"))
		}
	}
	return errors.Join(errs...)
}
