package modules

// Module specs, in the import specifier form page sources are addressed by
const (
	Dashboard         = "../modules/dashboard/Dashboard.jsx"
	PartnersList      = "../modules/integrations/partners/List.jsx"
	MenuSync          = "../modules/integrations/menus/Sync.jsx"
	DeliveryFeed      = "../modules/integrations/orders/Feed.jsx"
	WebhookLogs       = "../modules/integrations/webhooks/Logs.jsx"
	HardwareHealth    = "../modules/hardware/health/Overview.jsx"
	TerminalsList     = "../modules/hardware/terminals/List.jsx"
	PrintersList      = "../modules/hardware/printers/List.jsx"
	OrdersList        = "../modules/sales/orders/List.jsx"
	PaymentSessions   = "../modules/sales/payments/Sessions.jsx"
	TablesBoard       = "../modules/sales/tables/Board.jsx"
	BusinessesList    = "../modules/biz-catalog/businesses/List.jsx"
	LocationsList     = "../modules/biz-catalog/locations/List.jsx"
	AreasTablesEditor = "../modules/biz-catalog/locations/AreasTablesEditor.jsx"
	CategoriesList    = "../modules/biz-catalog/categories/List.jsx"
	ItemsList         = "../modules/biz-catalog/items/List.jsx"
	MenusBuilder      = "../modules/biz-catalog/menus/Builder.jsx"
	DiscountsList     = "../modules/biz-catalog/discounts/List.jsx"
	UsersList         = "../modules/iam/users/UsersList.jsx"
	InvitesList       = "../modules/iam/invites/InvitesList.jsx"
	RolesPage         = "../modules/iam/roles/RolesPage.jsx"
	PoliciesPage      = "../modules/iam/policies/PoliciesPage.jsx"
	SettingsPage      = "../modules/settings/Settings.jsx"
	Login             = "../modules/auth/login.jsx"
	Logout            = "../modules/auth/logout.jsx"
)

func init() {
	Register(Dashboard, page("Dashboard", "Overview", "Sales, hardware and integration status at a glance."))

	Register(PartnersList, page("Partners", "Integrations", "Delivery and marketplace partners connected to this account."))
	Register(MenuSync, page("Menu Sync", "Integrations", "Push catalog menus to partner platforms."))
	Register(DeliveryFeed, page("Delivery Feed", "Integrations", "Incoming partner orders as they arrive."))
	Register(WebhookLogs, page("Webhook Logs", "Integrations", "Outbound and inbound webhook deliveries."))

	Register(HardwareHealth, page("Hardware Health", "Hardware", "Connectivity and error rates across devices."))
	Register(TerminalsList, page("Terminals", "Hardware", "Payment terminals paired with locations."))
	Register(PrintersList, page("Printers", "Hardware", "Receipt and kitchen printers."))

	Register(OrdersList, page("Orders", "Sales", "Orders across all locations and channels."))
	Register(PaymentSessions, page("Payment Sessions", "Sales", "Card present and online payment sessions."))
	Register(TablesBoard, page("Tables", "Sales", "Live table occupancy board."))

	Register(BusinessesList, page("Businesses", "Catalog", "Legal entities operating locations."))
	Register(LocationsList, page("Locations", "Catalog", "Stores, kitchens and their opening hours."))
	Register(AreasTablesEditor, page("Areas & Tables", "Catalog", "Floor areas and table layout per location."))
	Register(CategoriesList, page("Categories", "Catalog", "Item categories."))
	Register(ItemsList, page("Items", "Catalog", "Sellable items, modifiers and prices."))
	Register(MenusBuilder, page("Menus", "Catalog", "Compose menus from categories and items."))
	Register(DiscountsList, page("Discounts", "Catalog", "Discount rules and vouchers."))

	Register(UsersList, page("Users", "Access", "Console users and their roles."))
	Register(InvitesList, page("Invites", "Access", "Pending invitations."))
	Register(RolesPage, page("Roles", "Access", "Role definitions."))
	Register(PoliciesPage, page("Policies", "Access", "Access policies attached to roles."))

	Register(SettingsPage, page("Settings", "Settings", "Account and console preferences."))

	Register(Login, page("Sign in", "Account", "Sign in to the back-office console."))
	Register(Logout, page("Signed out", "Account", "You have been signed out."))
}
