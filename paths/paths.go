// Package paths is the single source of truth for console URL paths.
package paths

import (
	"fmt"
	"path"
	"strings"
)

// Name is a symbolic route name.
type Name string

// Symbolic route names
const (
	Root                  Name = "ROOT"
	Dashboard             Name = "DASHBOARD"
	AnalyticsTransactions Name = "ANALYTICS_TRANSACTIONS"
	IntegrationsPartners  Name = "INTEGRATIONS_PARTNERS"
	IntegrationsMenuSync  Name = "INTEGRATIONS_MENU_SYNC"
	IntegrationsFeed      Name = "INTEGRATIONS_FEED"
	IntegrationsWebhooks  Name = "INTEGRATIONS_WEBHOOKS"
	HardwareHealth        Name = "HARDWARE_HEALTH"
	HardwareTerminals     Name = "HARDWARE_TERMINALS"
	HardwarePrinters      Name = "HARDWARE_PRINTERS"
	SalesOrders           Name = "SALES_ORDERS"
	SalesPaymentsSessions Name = "SALES_PAYMENTS_SESSIONS"
	SalesTables           Name = "SALES_TABLES"
	BizBusinesses         Name = "BIZ_BUSINESSES"
	BizLocations          Name = "BIZ_LOCATIONS"
	BizAreasTables        Name = "BIZ_AREAS_TABLES"
	BizCategories         Name = "BIZ_CATEGORIES"
	BizItems              Name = "BIZ_ITEMS"
	BizMenus              Name = "BIZ_MENUS"
	BizDiscounts          Name = "BIZ_DISCOUNTS"
	IAMUsers              Name = "IAM_USERS"
	IAMInvites            Name = "IAM_INVITES"
	IAMRoles              Name = "IAM_ROLES"
	IAMPolicies           Name = "IAM_POLICIES"
	Settings              Name = "SETTINGS"
	AuthLogin             Name = "AUTH_LOGIN"
	AuthLogout            Name = "AUTH_LOGOUT"
)

type entry struct {
	name Name
	path string
}

// registry is ordered the way the console navigation lists it.
var registry = []entry{
	{Root, "/"},
	{Dashboard, "/dashboard"},
	{AnalyticsTransactions, "/analytics/transactions"},
	{IntegrationsPartners, "/integrations/partners"},
	{IntegrationsMenuSync, "/integrations/menu-sync"},
	{IntegrationsFeed, "/integrations/feed"},
	{IntegrationsWebhooks, "/integrations/webhooks"},
	{HardwareHealth, "/hardware/health"},
	{HardwareTerminals, "/hardware/terminals"},
	{HardwarePrinters, "/hardware/printers"},
	{SalesOrders, "/sales/orders"},
	{SalesPaymentsSessions, "/sales/payments/sessions"},
	{SalesTables, "/sales/tables"},
	{BizBusinesses, "/biz/businesses"},
	{BizLocations, "/biz/locations"},
	{BizAreasTables, "/biz/locations/areas-tables"},
	{BizCategories, "/biz/categories"},
	{BizItems, "/biz/items"},
	{BizMenus, "/biz/menus"},
	{BizDiscounts, "/biz/discounts"},
	{IAMUsers, "/iam/users"},
	{IAMInvites, "/iam/invites"},
	{IAMRoles, "/iam/roles"},
	{IAMPolicies, "/iam/policies"},
	{Settings, "/settings"},
	{AuthLogin, "/login"},
	{AuthLogout, "/logout"},
}

var byName = func() map[Name]string {
	m := make(map[Name]string, len(registry))
	for _, e := range registry {
		if _, dup := m[e.name]; dup {
			panic(fmt.Sprintf("paths: duplicate name %s", e.name))
		}
		m[e.name] = e.path
	}
	return m
}()

// Lookup returns the path registered for name.
func Lookup(name Name) (string, bool) {
	p, ok := byName[name]
	return p, ok
}

// Path returns the absolute path for name. An undefined name is a programming
// error and panics.
func Path(name Name) string {
	p, ok := byName[name]
	if !ok {
		panic(fmt.Sprintf("paths: undefined route name %q", string(name)))
	}
	return p
}

// Child returns the path for name relative to its parent, i.e. without the
// leading slash. Every nested route uses it.
func Child(name Name) string {
	return strings.TrimPrefix(Path(name), "/")
}

// Join resolves a child segment against a parent path.
func Join(parent, child string) string {
	if child == "" {
		return Clean(parent)
	}
	return Clean(path.Join("/", parent, child))
}

// Clean normalizes a request path: rooted, no trailing slash, no dot segments.
func Clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// Names returns every registered name in registry order.
func Names() []Name {
	names := make([]Name, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.name)
	}
	return names
}
