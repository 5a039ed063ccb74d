package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthSession, ChainMiddleware(s.SessionFromTokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LegacyLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// TRIPS
	s.RegisterRouteHandler("GET "+RouteTrips, s.apiRoute(s.ListTripsHandler()))

	// PASSENGERS
	s.RegisterRouteHandler("GET "+RoutePassengers, s.apiRoute(s.ListPassengersHandler()))
	s.RegisterRouteHandler("POST "+RoutePassengers, s.apiRoute(s.CreatePassengerHandler()))
	s.RegisterRouteHandler("GET "+RoutePassenger, s.apiRoute(s.GetPassengerHandler()))
	s.RegisterRouteHandler("PUT "+RoutePassenger, s.apiRoute(s.UpdatePassengerHandler()))
	s.RegisterRouteHandler("DELETE "+RoutePassenger, s.apiRoute(s.DeletePassengerHandler()))
	s.RegisterRouteHandler("POST "+RoutePassengersBulkDelete, s.apiRoute(s.BulkDeletePassengersHandler()))
	s.RegisterRouteHandler("POST "+RoutePassengersMerge, s.apiRoute(s.MergePassengersHandler()))
	s.RegisterRouteHandler("POST "+RoutePassengersLegacyMerge, s.apiRoute(s.LegacyMergePassengersHandler()))
	s.RegisterRouteHandler("POST "+RoutePassengerPassport, s.apiRoute(s.UploadPassportHandler()))
	s.RegisterRouteHandler("DELETE "+RoutePassengerPassportDoc, s.apiRoute(s.DeletePassportHandler()))

	// CLIENTS
	s.RegisterRouteHandler("GET "+RouteClients, s.apiRoute(s.ListClientsHandler()))
	s.RegisterRouteHandler("POST "+RouteClients, s.apiRoute(s.CreateClientHandler()))
	s.RegisterRouteHandler("PUT "+RouteClient, s.apiRoute(s.UpdateClientHandler()))
	s.RegisterRouteHandler("DELETE "+RouteClient, s.apiRoute(s.DeleteClientHandler()))
	s.RegisterRouteHandler("POST "+RouteClientsBulkDelete, s.apiRoute(s.BulkDeleteClientsHandler()))
	s.RegisterRouteHandler("POST "+RouteClientsMerge, s.apiRoute(s.MergeClientsHandler()))

	// TICKETS
	s.RegisterRouteHandler("POST "+RouteTicketUpload, s.apiRoute(s.UploadTicketHandler()))

	// SEAT PREFERENCES
	s.RegisterRouteHandler("GET "+RouteSeatPrefs, s.apiRoute(s.GetSeatPrefsHandler()))
	s.RegisterRouteHandler("POST "+RouteSeatPrefsStrategies, s.apiRoute(s.AddStrategyHandler()))
	s.RegisterRouteHandler("PUT "+RouteSeatPrefsStrategy, s.apiRoute(s.UpdateStrategyHandler()))
	s.RegisterRouteHandler("DELETE "+RouteSeatPrefsStrategy, s.apiRoute(s.DeleteStrategyHandler()))
	s.RegisterRouteHandler("POST "+RouteSeatPrefsReorder, s.apiRoute(s.ReorderStrategiesHandler()))
	s.RegisterRouteHandler("GET "+RouteSeatPrefsPreview, s.apiRoute(s.PreviewSeatMapHandler()))
	s.RegisterRouteHandler("GET "+RouteSeatPrefsExport, s.apiRoute(s.ExportSeatPrefsHandler()))
	s.RegisterRouteHandler("POST "+RouteSeatPrefsImport, s.apiRoute(s.ImportSeatPrefsHandler()))
	s.RegisterRouteHandler("PUT "+RouteBookingSeatPrefs, s.apiRoute(s.SaveBookingSeatPrefsHandler()))
	s.RegisterRouteHandler("GET "+RouteBookingSeatPrefs, s.apiRoute(s.GetBookingSeatPrefsHandler()))

	// EMAIL LINKING
	s.RegisterRouteHandler("POST "+RouteEmailConnect, s.apiRoute(s.EmailConnectHandler()))
	// The callback is a top-level browser navigation from the provider, so it
	// carries only the session cookie, no Authorization header.
	s.RegisterRouteHandler("GET "+RouteEmailCallback, ChainMiddleware(s.EmailCallbackHandler(), s.baseMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteEmailLinked, s.apiRoute(s.ListLinkedEmailsHandler()))
}

// apiRoute wraps an authenticated JSON endpoint with the standard chain.
func (s *Server) apiRoute(handler http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(handler, append(s.baseMiddleware(), s.RequireAgent())...)
}

func (s *Server) logRoutes() {
	log.Printf("Registered %d routes", len(s.routes))
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) == 2 {
			logRoute(parts[0], parts[1])
		} else {
			fmt.Println(route)
		}
	}
}
