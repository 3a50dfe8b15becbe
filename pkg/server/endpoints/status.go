package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/footprint/pkg/server"
)

// StatusResponse is returned by GET / when JSON is requested
type StatusResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Database     string `json:"database"`
	AIConfigured bool   `json:"ai_configured"`
}

// AuthenticatorsResponse represents the response from /authenticators
type AuthenticatorsResponse struct {
	Installed []string `json:"installed"`
	Enabled   []string `json:"enabled"`
}

// AuthenticatorStatusResponse represents the response from authenticator status endpoint
type AuthenticatorStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and info endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus(s)).Methods("GET")

	// GET /authenticators - List authenticators (no auth required)
	s.Router.HandleFunc("/authenticators", handleAuthenticators(s)).Methods("GET")

	// GET /authenticators/{authenticator}/status - Authenticator health
	s.Router.HandleFunc("/authenticators/{authenticator}/status", handleAuthenticatorStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Status:       "ok",
			Version:      server.Version,
			Database:     "ok",
			AIConfigured: s.Advisor.Configured(),
		}
		code := http.StatusOK
		if err := s.HealthStore.CheckConnectivity(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			code = http.StatusServiceUnavailable
		}

		// Check if JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			respondWithJSON(w, code, resp)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		_, _ = fmt.Fprintf(w, "footprint %s\nstatus: %s\ndatabase: %s\nai advisor: %s\n",
			resp.Version, resp.Status, resp.Database, onOff(resp.AIConfigured))
	}
}

func onOff(b bool) string {
	if b {
		return "configured"
	}
	return "not configured"
}

func handleAuthenticators(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, AuthenticatorsResponse{
			Installed: s.Authenticators.Installed(),
			Enabled:   s.Authenticators.Enabled(),
		})
	}
}

func handleAuthenticatorStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["authenticator"]

		auth, err := s.Authenticators.Lookup(name)
		if err != nil {
			code := http.StatusNotImplemented
			if _, installed := s.Authenticators.Get(name); !installed {
				code = http.StatusNotFound
			}
			respondWithJSON(w, code, AuthenticatorStatusResponse{Status: "error", Error: err.Error()})
			return
		}

		if err := auth.Status(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, AuthenticatorStatusResponse{
				Status: "error",
				Error:  "authenticator is unhealthy: " + err.Error(),
			})
			return
		}

		respondWithJSON(w, http.StatusOK, AuthenticatorStatusResponse{Status: "ok"})
	}
}
