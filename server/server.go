package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/flyodesk/agency-console/coreapi"
	"github.com/flyodesk/agency-console/emaillink"
	"github.com/flyodesk/agency-console/emaillink/flowstate"
	"github.com/flyodesk/agency-console/internal/config"
	"github.com/flyodesk/agency-console/seatmap"
	"github.com/flyodesk/agency-console/server/agentsession"
)

// Server is the HTTP surface of the agency console gateway. Business data
// stays behind the core API; the server owns orchestration only: browser
// sessions, the mailbox-linking flow, and the per-session seat-preference
// workspace.
type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	core     *coreapi.Client
	linking  *emaillink.Service
	sessions agentsession.Repo

	// Per-session seat-preference workspace. Deliberately in-memory only:
	// preferences persist across requests but not restarts unless the agent
	// exports them or saves them to a booking.
	prefsMu sync.RWMutex
	prefs   map[string]seatmap.Preferences
}

// Deps bundles the collaborators the server routes requests to.
type Deps struct {
	Core     *coreapi.Client
	Flows    flowstate.Repo
	Sessions agentsession.Repo
	Google   emaillink.GoogleExchanger
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Core == nil {
		return nil, fmt.Errorf("[Server New] core API client is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("[Server New] session repo is required")
	}

	linking, err := emaillink.NewService(cfg, deps.Flows, deps.Core, deps.Google)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create linking service: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		core:     deps.Core,
		linking:  linking,
		sessions: deps.Sessions,
		prefs:    make(map[string]seatmap.Preferences),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// sessionPrefs returns a deep copy of the session's seat-preference
// workspace, creating the empty buckets on first touch. Read paths must not
// hold the live map: a second tab mutating it mid-marshal would be a
// concurrent map access.
func (s *Server) sessionPrefs(sessionID string) seatmap.Preferences {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()

	p, ok := s.prefs[sessionID]
	if !ok {
		p = seatmap.NewPreferences()
		s.prefs[sessionID] = p
	}
	return p.Clone()
}

func (s *Server) replaceSessionPrefs(sessionID string, p seatmap.Preferences) {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()
	s.prefs[sessionID] = p
}
