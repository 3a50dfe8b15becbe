package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/server"
)

// maxSummaryDays bounds ?days on the daily breakdown
const maxSummaryDays = 366

// RegisterSummaryEndpoints registers /summary/monthly and /summary/daily
func RegisterSummaryEndpoints(s *server.Server) {
	r := authenticated(s, "/summary")
	r.HandleFunc("/monthly", handleMonthlySummary(s)).Methods("GET")
	r.HandleFunc("/daily", handleDailySummary(s)).Methods("GET")
}

func handleMonthlySummary(s *server.Server) http.HandlerFunc {
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
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"months": history.MonthlyTotals(entries),
		})
	}
}

func handleDailySummary(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		days, err := intParam(r, "days", s.Config().DailySummaryDays, maxSummaryDays)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		entries, err := s.EntriesStore.List(r.Context(), id.UserID, "", "")
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"days":  days,
			"daily": history.DailyBreakdown(entries, days),
		})
	}
}
