package server

import "net/http"

// ListTripsHandler proxies the trip list, forwarding the optional search
// query to the core API.
func (s *Server) ListTripsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		trips, err := s.core.ListTrips(r.Context(), session.AgentToken, r.URL.Query().Get("q"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, trips)
	}
}
