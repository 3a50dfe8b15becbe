package endpoints

import (
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/footprint/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	// Public
	RegisterStatusEndpoints(srv)
	RegisterCalculateEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterAuthenticateEndpoints(srv)
	RegisterLeaderboardEndpoint(srv)

	// Token required
	RegisterWhoamiEndpoint(srv)
	RegisterEntriesEndpoints(srv)
	RegisterSummaryEndpoints(srv)
	RegisterGoalsEndpoints(srv)
	RegisterAliasEndpoints(srv)
	RegisterInsightsEndpoints(srv)
}

// authenticated returns a subrouter for prefix guarded by the JWT middleware.
func authenticated(srv *server.Server, prefix string) *mux.Router {
	r := srv.Router.PathPrefix(prefix).Subrouter()
	r.Use(srv.JWTMiddleware.Middleware)
	return r
}
