package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/flyodesk/agency-console/coreapi"
	apperrors "github.com/flyodesk/agency-console/internal/errors"
	"github.com/flyodesk/agency-console/seatmap"
)

func pathCount(r *http.Request) (int, error) {
	count, err := strconv.Atoi(r.PathValue("count"))
	if err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrValidation, "invalid passenger count: %q", r.PathValue("count"))
	}
	return count, nil
}

// mutatePrefs runs fn against the session's preference workspace under the
// lock, so concurrent tabs cannot interleave bucket renumbering.
func (s *Server) mutatePrefs(sessionID string, fn func(seatmap.Preferences) error) error {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()

	p, ok := s.prefs[sessionID]
	if !ok {
		p = seatmap.NewPreferences()
		s.prefs[sessionID] = p
	}
	return fn(p)
}

func (s *Server) GetSeatPrefsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		respondJSON(w, http.StatusOK, s.sessionPrefs(session.ID))
	}
}

func (s *Server) AddStrategyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		count, err := pathCount(r)
		if err != nil {
			respondError(w, err)
			return
		}

		var added seatmap.Strategy
		err = s.mutatePrefs(session.ID, func(p seatmap.Preferences) error {
			var addErr error
			added, addErr = p.Add(count)
			return addErr
		})
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "%v", err))
			return
		}
		respondJSON(w, http.StatusCreated, added)
	}
}

func (s *Server) UpdateStrategyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		count, err := pathCount(r)
		if err != nil {
			respondError(w, err)
			return
		}

		var updated seatmap.Strategy
		if err := decodeJSON(r, &updated); err != nil {
			respondError(w, err)
			return
		}
		updated.ID = r.PathValue("id")

		err = s.mutatePrefs(session.ID, func(p seatmap.Preferences) error {
			return p.Update(count, updated)
		})
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "%v", err))
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeleteStrategyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		count, err := pathCount(r)
		if err != nil {
			respondError(w, err)
			return
		}

		err = s.mutatePrefs(session.ID, func(p seatmap.Preferences) error {
			return p.Delete(count, r.PathValue("id"))
		})
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "%v", err))
			return
		}
		respondMessage(w, http.StatusOK, "strategy deleted")
	}
}

func (s *Server) ReorderStrategiesHandler() http.HandlerFunc {
	type request struct {
		FromIndex int `json:"fromIndex"`
		ToIndex   int `json:"toIndex"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		count, err := pathCount(r)
		if err != nil {
			respondError(w, err)
			return
		}

		var req request
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}

		var reordered []seatmap.Strategy
		err = s.mutatePrefs(session.ID, func(p seatmap.Preferences) error {
			if err := p.Move(count, req.FromIndex, req.ToIndex); err != nil {
				return err
			}
			// Copy while still holding the lock.
			reordered = append([]seatmap.Strategy(nil), p[count]...)
			return nil
		})
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "%v", err))
			return
		}
		respondJSON(w, http.StatusOK, reordered)
	}
}

// PreviewSeatMapHandler generates a fresh preview map and applies the
// session's top-priority strategy for the given passenger count. An optional
// seed query parameter makes the preview reproducible.
func (s *Server) PreviewSeatMapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		count, err := pathCount(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if count < seatmap.MinPassengers || count > seatmap.MaxPassengers {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "passenger count %d out of range", count))
			return
		}

		availability := seatmap.RandomAvailability(rand.New(rand.NewSource(rand.Int63())))
		if seedParam := r.URL.Query().Get("seed"); seedParam != "" {
			seed, err := strconv.ParseInt(seedParam, 10, 64)
			if err != nil {
				respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "invalid seed: %q", seedParam))
				return
			}
			availability = seatmap.RandomAvailability(rand.New(rand.NewSource(seed)))
		}

		seats := seatmap.Generate(availability)
		seats = seatmap.Resolve(s.sessionPrefs(session.ID)[count], seats)
		respondJSON(w, http.StatusOK, seats)
	}
}

func (s *Server) ExportSeatPrefsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		data, err := seatmap.Export(s.sessionPrefs(session.ID))
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrInternal, "export preferences: %v", err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="seat-preferences.json"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func (s *Server) ImportSeatPrefsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		data, err := readBody(r, 1<<20)
		if err != nil {
			respondError(w, err)
			return
		}

		imported, err := seatmap.Import(data)
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "%v", err))
			return
		}

		s.replaceSessionPrefs(session.ID, imported)
		respondJSON(w, http.StatusOK, imported)
	}
}

// GetBookingSeatPrefsHandler returns the preferences stored against a
// booking by the check-in service.
func (s *Server) GetBookingSeatPrefsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		rec, err := s.core.GetSeatPreferences(r.Context(), session.AgentToken, r.PathValue("ref"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rec)
	}
}

// SaveBookingSeatPrefsHandler persists the bucket for the given passenger
// count against a booking via the check-in service.
func (s *Server) SaveBookingSeatPrefsHandler() http.HandlerFunc {
	type request struct {
		PassengerCount int `json:"passengerCount"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		bookingRef := r.PathValue("ref")

		var req request
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if req.PassengerCount < seatmap.MinPassengers || req.PassengerCount > seatmap.MaxPassengers {
			respondError(w, apperrors.Wrapf(apperrors.ErrValidation, "passenger count %d out of range", req.PassengerCount))
			return
		}

		payload, err := json.Marshal(s.sessionPrefs(session.ID)[req.PassengerCount])
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrInternal, "encode preferences: %v", err))
			return
		}

		rec := coreapi.SeatPreferenceRecord{BookingRef: bookingRef, Preferences: payload}
		if err := s.core.SaveSeatPreferences(r.Context(), session.AgentToken, rec); err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusOK, "seat preferences saved")
	}
}
