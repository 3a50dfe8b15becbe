// Package server provides the HTTP server for the footprint API.
//
// It uses gorilla/mux for routing, gorilla/handlers for the access log and
// CORS, and holds the stores, authenticators and token issuer the endpoints
// need.
//
// # Server Setup
//
//	srv := server.NewServer(logger, issuer, server.Options{Host: "0.0.0.0", Port: "8080"})
//	srv.EntriesStore = gormstore.NewEntriesStore(db)
//	...
//	endpoints.RegisterAll(srv)
//	err := srv.Start()
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - / and /factors - status and the emission factor table
//   - /calculate - compute emissions without storing them
//   - /users, /authn/{login}/authenticate, /authn/guest - registration and login
//   - /entries, /entries/import, /entries/export - daily entries and CSV
//   - /summary/monthly, /summary/daily - aggregated history
//   - /goals, /goals/status, /alias, /leaderboard - weekly goals and ranking
//   - /insights, /insights/tips - totals and AI reduction tips
package server
