package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Health
	RouteHealth = "/health"

	// Auth Routes
	RouteAuthSession = "/auth/session"
	RouteAuthLogin   = "/auth/login"
	RouteAuthLogout  = "/auth/logout"

	// Trips
	RouteTrips = "/api/trips"

	// Passengers
	RoutePassengers            = "/api/passengers"
	RoutePassenger             = "/api/passengers/{id}"
	RoutePassengersBulkDelete  = "/api/passengers/bulk-delete"
	RoutePassengersMerge       = "/api/passengers/merge"
	RoutePassengersLegacyMerge = "/api/passengers/legacy-merge"
	RoutePassengerPassport     = "/api/passengers/{id}/passport"
	RoutePassengerPassportDoc  = "/api/passengers/{id}/passport/{docId}"

	// Clients
	RouteClients           = "/api/clients"
	RouteClient            = "/api/clients/{id}"
	RouteClientsBulkDelete = "/api/clients/bulk-delete"
	RouteClientsMerge      = "/api/clients/merge"

	// Tickets
	RouteTicketUpload = "/api/tickets/upload"

	// Seat preferences
	RouteSeatPrefs           = "/api/seat-preferences"
	RouteSeatPrefsStrategies = "/api/seat-preferences/{count}/strategies"
	RouteSeatPrefsStrategy   = "/api/seat-preferences/{count}/strategies/{id}"
	RouteSeatPrefsReorder    = "/api/seat-preferences/{count}/reorder"
	RouteSeatPrefsPreview    = "/api/seat-preferences/{count}/preview"
	RouteSeatPrefsExport     = "/api/seat-preferences/export"
	RouteSeatPrefsImport     = "/api/seat-preferences/import"
	RouteBookingSeatPrefs    = "/api/bookings/{ref}/seat-preferences"

	// Email linking
	RouteEmailConnect  = "/email/connect"
	RouteEmailCallback = "/email/callback"
	RouteEmailLinked   = "/email/linked"
)
