package endpoints

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/footprint/pkg/advisor"
	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/server"
)

// RegisterInsightsEndpoints registers /insights and /insights/tips
func RegisterInsightsEndpoints(s *server.Server) {
	r := authenticated(s, "/insights")
	r.HandleFunc("", handleInsights(s)).Methods("GET")
	r.HandleFunc("/tips", handleTips(s)).Methods("POST")
}

func handleInsights(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		entries, err := s.EntriesStore.List(r.Context(), id.UserID, "", "")
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, history.Summarize(entries))
	}
}

func handleTips(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		if !s.Advisor.Configured() {
			unavailable(w, advisor.ErrNotConfigured.Error())
			return
		}

		entries, err := s.EntriesStore.List(r.Context(), id.UserID, "", "")
		if err != nil {
			internalError(s, w, r, err)
			return
		}

		tips, err := s.Advisor.Tips(r.Context(), entries)
		switch {
		case errors.Is(err, advisor.ErrNoEntries):
			notFound(w, "no entries to base tips on")
		case err != nil:
			s.Logger.Warn("tips generation failed", zap.String("user", id.UserID), zap.Error(err))
			unavailable(w, err.Error())
		default:
			respondWithJSON(w, http.StatusOK, tips)
		}
	}
}
