package server

import (
	"context"
	"net/http"

	"github.com/flyodesk/agency-console/coreapi"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
	"github.com/flyodesk/agency-console/roster"
)

func (s *Server) ListClientsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		clients, err := s.core.ListClients(r.Context(), session.AgentToken, r.URL.Query().Get("q"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, clients)
	}
}

func (s *Server) CreateClientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		var in coreapi.ClientInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, err)
			return
		}
		if fieldErrors := roster.ValidateClient(in); len(fieldErrors) > 0 {
			respondFieldErrors(w, fieldErrors)
			return
		}

		client, err := s.core.CreateClient(r.Context(), session.AgentToken, in)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, client)
	}
}

func (s *Server) UpdateClientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}

		var in coreapi.ClientInput
		if err := decodeJSON(r, &in); err != nil {
			respondError(w, err)
			return
		}
		if fieldErrors := roster.ValidateClient(in); len(fieldErrors) > 0 {
			respondFieldErrors(w, fieldErrors)
			return
		}

		client, err := s.core.UpdateClient(r.Context(), session.AgentToken, id, in)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, client)
	}
}

func (s *Server) DeleteClientHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}

		if err := s.core.DeleteClient(r.Context(), session.AgentToken, id); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
	}
}

func (s *Server) BulkDeleteClientsHandler() http.HandlerFunc {
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
			return s.core.DeleteClient(ctx, session.AgentToken, id)
		})
		if err != nil {
			respondBulkFailure(w, deleted, err)
			return
		}
		respondJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: deleted})
	}
}

func (s *Server) MergeClientsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		var req coreapi.MergeClientsRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if len(req.IDs) < 2 {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "merge needs at least two records"))
			return
		}

		merged, err := s.core.MergeClients(r.Context(), session.AgentToken, req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, merged)
	}
}
