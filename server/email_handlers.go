package server

import (
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/flyodesk/agency-console/emaillink"
)

// EmailConnectHandler starts a mailbox linking flow and returns the provider
// consent URL for the browser to navigate to.
func (s *Server) EmailConnectHandler() http.HandlerFunc {
	type request struct {
		Provider string `json:"provider"`
	}
	type response struct {
		ConsentURL string `json:"consentUrl"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())

		var req request
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}

		provider, err := emaillink.ParseProvider(req.Provider)
		if err != nil {
			respondError(w, err)
			return
		}

		consentURL, err := s.linking.Begin(r.Context(), session.ID, provider)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, response{ConsentURL: consentURL})
	}
}

// EmailCallbackHandler lands the provider redirect. It is a browser
// navigation with no Authorization header, so the agent token comes from the
// session looked up by cookie; authentication failures render the redirect
// page rather than a JSON 401.
func (s *Server) EmailCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			renderCallbackPage(w, s.config.GetBaseURL(), "Not signed in. Return to the console and sign in again.", 0)
			return
		}

		session, err := s.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			renderCallbackPage(w, s.config.GetBaseURL(), "Session expired. Return to the console and sign in again.", 0)
			return
		}

		q := r.URL.Query()
		result, err := s.linking.HandleCallback(r.Context(), session.ID, session.AgentToken,
			q.Get("code"), q.Get("state"), q.Get("error"))
		if err != nil {
			log.Error().Err(err).Msg("[EmailCallbackHandler] callback failed")
			renderCallbackPage(w, s.config.GetBaseURL(), "Something went wrong while linking the mailbox.", emaillink.ErrorRedirectDelay.Seconds())
			return
		}

		switch result.Outcome {
		case emaillink.OutcomeSuccess:
			if session.AddEmail(result.Linked) {
				if err := s.sessions.Upsert(r.Context(), session.ID, session); err != nil {
					log.Warn().Err(err).Msg("[EmailCallbackHandler] failed to cache linked email")
				}
			}
			renderCallbackPage(w, s.config.GetBaseURL(),
				fmt.Sprintf("Mailbox %s linked. Returning to the console.", result.Linked.Email),
				result.RedirectDelay.Seconds())
		case emaillink.OutcomeError:
			renderCallbackPage(w, s.config.GetBaseURL(), result.Message, result.RedirectDelay.Seconds())
		case emaillink.OutcomeAlreadyProcessed, emaillink.OutcomeNotLinking:
			// Duplicate landing or a stray visit with no flow in progress.
			// Send the browser straight back.
			renderCallbackPage(w, s.config.GetBaseURL(), "Returning to the console.", 0)
		}
	}
}

// ListLinkedEmailsHandler returns the mailboxes cached on the session.
func (s *Server) ListLinkedEmailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		respondJSON(w, http.StatusOK, session.Emails)
	}
}

// renderCallbackPage writes the interstitial the provider redirect lands on:
// a short status message, then a meta refresh back to the console after the
// given delay.
func renderCallbackPage(w http.ResponseWriter, target, message string, delaySeconds float64) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta http-equiv="refresh" content="%.0f;url=%s">
<title>Mailbox linking</title>
</head>
<body>
<p>%s</p>
</body>
</html>
`, delaySeconds, html.EscapeString(target), html.EscapeString(message))
}
