package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/flyodesk/agency-console/internal/errors"
	"github.com/flyodesk/agency-console/server/agentsession"
)

type sessionResponse struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	LegacyLogin bool   `json:"legacyLogin"`
}

// SessionFromTokenHandler establishes a browser session from a backend-issued
// agent token. The browser never sees the token again after this call, it
// lives in the server-side session.
func (s *Server) SessionFromTokenHandler() http.HandlerFunc {
	type request struct {
		Token string `json:"token"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}

		claims, err := s.parseAgentToken(strings.TrimSpace(req.Token))
		if err != nil {
			respondError(w, err)
			return
		}

		sessionID, err := generateRandomString(32)
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrInternal, "create session id: %v", err))
			return
		}

		session := agentsession.Session{
			ID:         sessionID,
			Email:      claims.Email,
			Name:       claims.Name,
			AgentToken: strings.TrimSpace(req.Token),
			CreatedAt:  time.Now(),
		}
		if err := s.sessions.Upsert(r.Context(), session.ID, session); err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrInternal, "store session: %v", err))
			return
		}

		s.setSessionCookie(w, session.ID)
		respondJSON(w, http.StatusOK, sessionResponse{
			Email: session.Email,
			Name:  session.Name,
		})
	}
}

// LegacyLoginHandler authenticates the single configured operator account
// with a password. Sessions created this way carry an absolute timeout
// instead of a backend token.
func (s *Server) LegacyLoginHandler() http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}

		operatorEmail := s.config.GetOperatorEmail()
		passwordHash := s.config.GetOperatorPasswordHash()
		if operatorEmail == "" || passwordHash == "" {
			respondError(w, apperrors.Wrapf(apperrors.ErrUnsupported, "legacy login is not configured"))
			return
		}

		if !strings.EqualFold(strings.TrimSpace(req.Email), operatorEmail) ||
			bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
			respondError(w, apperrors.ErrNotAuthenticated)
			return
		}

		sessionID, err := generateRandomString(32)
		if err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrInternal, "create session id: %v", err))
			return
		}

		session := agentsession.Session{
			ID:          sessionID,
			Email:       operatorEmail,
			LegacyLogin: true,
			CreatedAt:   time.Now(),
		}
		if err := s.sessions.Upsert(r.Context(), session.ID, session); err != nil {
			respondError(w, apperrors.Wrapf(apperrors.ErrInternal, "store session: %v", err))
			return
		}

		s.setSessionCookie(w, session.ID)
		respondJSON(w, http.StatusOK, sessionResponse{
			Email:       session.Email,
			LegacyLogin: true,
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
				log.Warn().Err(err).Msg("[LogoutHandler] failed to delete session")
			}
		}
		s.clearSessionCookie(w)
		respondMessage(w, http.StatusOK, "logged out")
	}
}
