package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/flyodesk/agency-console/coreapi"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
	"github.com/flyodesk/agency-console/roster"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrValidation, "invalid %s: %q", name, r.PathValue(name))
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return v
}

func (s *Server) ListPassengersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		page, err := s.core.ListPassengers(r.Context(), session.AgentToken,
			r.URL.Query().Get("q"), queryInt(r, "offset", 0), queryInt(r, "limit", 50))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetPassengerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}

		passenger, err := s.core.GetPassenger(r.Context(), session.AgentToken, id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, passenger)
	}
}

func (s *Server) CreatePassengerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		var in coreapi.PassengerInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, err)
			return
		}
		if fieldErrors := roster.ValidatePassenger(in); len(fieldErrors) > 0 {
			respondFieldErrors(w, fieldErrors)
			return
		}

		passenger, err := s.core.CreatePassenger(r.Context(), session.AgentToken, in)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, passenger)
	}
}

func (s *Server) UpdatePassengerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}

		var in coreapi.PassengerInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, err)
			return
		}
		if fieldErrors := roster.ValidatePassenger(in); len(fieldErrors) > 0 {
			respondFieldErrors(w, fieldErrors)
			return
		}

		passenger, err := s.core.UpdatePassenger(r.Context(), session.AgentToken, id, in)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, passenger)
	}
}

func (s *Server) DeletePassengerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}

		if err := s.core.DeletePassenger(r.Context(), session.AgentToken, id); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
	}
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type bulkDeleteResponse struct {
	Deleted []int64 `json:"deleted"`
	Failed  string  `json:"failed,omitempty"`
}

// BulkDeletePassengersHandler deletes the selected passengers one by one.
// The response always carries the IDs that were actually removed, so the
// browser can reconcile its roster even after a partial failure.
func (s *Server) BulkDeletePassengersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		var req bulkDeleteRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if len(req.IDs) == 0 {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "no ids selected"))
			return
		}

		deleted, err := roster.BulkDelete(r.Context(), req.IDs, func(ctx context.Context, id int64) error {
			return s.core.DeletePassenger(ctx, session.AgentToken, id)
		})
		if err != nil {
			respondBulkFailure(w, deleted, err)
			return
		}
		respondJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: deleted})
	}
}

func (s *Server) MergePassengersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		var req coreapi.MergePassengersRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if len(req.IDs) < 2 {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "merge needs at least two records"))
			return
		}

		merged, err := s.core.MergePassengers(r.Context(), session.AgentToken, req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, merged)
	}
}

// LegacyMergePassengersHandler synthesizes a merge against backends that
// predate the atomic merge endpoint: update the primary, then best-effort
// delete the secondaries. Orphaned IDs are reported back to the agent.
func (s *Server) LegacyMergePassengersHandler() http.HandlerFunc {
	type request struct {
		PrimaryID    int64                  `json:"primaryId"`
		SecondaryIDs []int64                `json:"secondaryIds"`
		Canonical    coreapi.PassengerInput `json:"canonical"`
	}
	type response struct {
		Primary  coreapi.Passenger `json:"primary"`
		Removed  []int64           `json:"removed"`
		Orphaned []int64           `json:"orphaned,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		var req request
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.PrimaryID == 0 || len(req.SecondaryIDs) == 0 {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "primaryId and secondaryIds are required"))
			return
		}

		result, err := roster.LegacyMergePassengers(r.Context(), s.core, session.AgentToken,
			req.PrimaryID, req.SecondaryIDs, req.Canonical)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, response{
			Primary:  result.Primary,
			Removed:  result.Removed,
			Orphaned: result.Orphaned,
		})
	}
}
