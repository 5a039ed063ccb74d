package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/flyodesk/agency-console/coreapi"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
	"github.com/flyodesk/agency-console/roster"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data}); err != nil {
		log.Error().Err(err).Msg("[respondJSON] encode failed")
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Message: message})
}

// respondError maps application errors onto HTTP statuses. Messages from the
// core API are forwarded to the browser verbatim.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var apiErr *coreapi.APIError
	switch {
	case apperrors.As(err, &apiErr):
		status = apiErr.StatusCode
		message = apiErr.Message
	case apperrors.Is(err, apperrors.ErrNotAuthenticated),
		apperrors.Is(err, apperrors.ErrInvalidToken),
		apperrors.Is(err, apperrors.ErrSessionExpired),
		apperrors.Is(err, apperrors.ErrSessionNotFound):
		status = http.StatusUnauthorized
		message = err.Error()
	case apperrors.Is(err, apperrors.ErrValidation),
		apperrors.Is(err, apperrors.ErrUnknownProvider),
		apperrors.Is(err, apperrors.ErrMissingRefreshToken):
		status = http.StatusBadRequest
		message = err.Error()
	case apperrors.Is(err, apperrors.ErrNotFound),
		apperrors.Is(err, apperrors.ErrFlowNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case apperrors.Is(err, apperrors.ErrCoreAPIUnavailable):
		status = http.StatusBadGateway
		message = err.Error()
	case apperrors.Is(err, apperrors.ErrProviderNotConfigured):
		status = http.StatusInternalServerError
		message = err.Error()
	default:
		log.Error().Err(err).Msg("[respondError] unhandled error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: false, Message: message})
}

// respondBulkFailure reports a partially applied bulk delete. The IDs that
// made it through are included so the browser can reconcile its list.
func respondBulkFailure(w http.ResponseWriter, deleted []int64, err error) {
	log.Warn().Err(err).Ints64("deleted", deleted).Msg("bulk delete aborted")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(struct {
		Success bool    `json:"success"`
		Message string  `json:"message"`
		Deleted []int64 `json:"deleted"`
	}{Success: false, Message: err.Error(), Deleted: deleted})
}

// respondFieldErrors renders per-field validation failures as a 400.
func respondFieldErrors(w http.ResponseWriter, fieldErrors []roster.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Errors  []roster.FieldError `json:"errors"`
	}{Success: false, Message: "validation failed", Errors: fieldErrors})
}

// readBody reads a capped request body.
func readBody(r *http.Request, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrValidation, "read request body: %v", err)
	}
	return data, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrapf(apperrors.ErrValidation, "invalid request body: %v", err)
	}
	return nil
}

// HealthHandler reports service liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": s.config.GetAppName(),
		})
	}
}
