package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

type aliasRequest struct {
	Alias string `json:"alias" validate:"required,max=64"`
}

// LeaderboardResponse ranks aliases over the window
type LeaderboardResponse struct {
	Since string                   `json:"since"`
	Rows  []history.LeaderboardRow `json:"leaderboard"`
}

// RegisterLeaderboardEndpoint registers the public GET /leaderboard
func RegisterLeaderboardEndpoint(s *server.Server) {
	s.Router.HandleFunc("/leaderboard", handleLeaderboard(s)).Methods("GET")
}

// RegisterAliasEndpoints registers GET and PUT /alias
func RegisterAliasEndpoints(s *server.Server) {
	r := authenticated(s, "/alias")
	r.HandleFunc("", handleGetAlias(s)).Methods("GET")
	r.HandleFunc("", handleSetAlias(s)).Methods("PUT")
}

func handleLeaderboard(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.Config()
		days, err := intParam(r, "days", cfg.LeaderboardWindowDays, maxSummaryDays)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		limit, err := intParam(r, "limit", cfg.LeaderboardSize, 100)
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		since := history.LeaderboardSince(s.Now(), days)
		entries, err := s.EntriesStore.ListAll(r.Context(), since.Format(model.DateLayout))
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		aliases, err := s.AliasesStore.AllAliases(r.Context())
		if err != nil {
			internalError(s, w, r, err)
			return
		}

		rows := history.Leaderboard(entries, since, limit, func(userID string) string {
			return aliases[userID]
		})
		respondWithJSON(w, http.StatusOK, LeaderboardResponse{
			Since: since.Format(model.DateLayout),
			Rows:  rows,
		})
	}
}

func handleGetAlias(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		alias, err := s.AliasesStore.GetAlias(r.Context(), id.UserID)
		if errors.Is(err, store.ErrAliasNotFound) {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{"alias": model.AnonymousAlias, "is_default": true})
			return
		}
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"alias": alias, "is_default": false})
	}
}

func handleSetAlias(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		if id.Guest {
			respondWithError(w, http.StatusForbidden, errorBody("forbidden", "guests cannot save an alias"))
			return
		}
		var req aliasRequest
		if !decodeJSON(s, w, r, &req) {
			return
		}
		alias := strings.TrimSpace(req.Alias)
		if alias == "" {
			unprocessable(w, "alias must not be blank")
			return
		}

		if err := s.AliasesStore.SetAlias(r.Context(), id.UserID, alias); err != nil {
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"alias": alias, "is_default": false})
	}
}
