package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/identity"
	"github.com/doodlesbykumbi/footprint/pkg/model"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

type goalRequest struct {
	WeeklyTarget float64 `json:"weekly_target" validate:"gt=0,lte=100000"`
}

// GoalResponse is the user's weekly target
type GoalResponse struct {
	WeeklyTarget float64    `json:"weekly_target"`
	IsDefault    bool       `json:"is_default"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// RegisterGoalsEndpoints registers /goals and /goals/status
func RegisterGoalsEndpoints(s *server.Server) {
	r := authenticated(s, "/goals")
	r.HandleFunc("", handleGetGoal(s)).Methods("GET")
	r.HandleFunc("", handleSetGoal(s)).Methods("PUT")
	r.HandleFunc("/status", handleGoalStatus(s)).Methods("GET")
}

// goalFor returns the saved goal or the configured default.
func goalFor(s *server.Server, r *http.Request, id *identity.Identity) (GoalResponse, error) {
	goal, err := s.GoalsStore.GetGoal(r.Context(), id.UserID)
	if errors.Is(err, store.ErrGoalNotFound) {
		return GoalResponse{WeeklyTarget: s.Config().DefaultWeeklyTarget, IsDefault: true}, nil
	}
	if err != nil {
		return GoalResponse{}, err
	}
	updated := goal.UpdatedAt
	return GoalResponse{WeeklyTarget: goal.WeeklyTarget, UpdatedAt: &updated}, nil
}

func handleGetGoal(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		goal, err := goalFor(s, r, id)
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, goal)
	}
}

func handleSetGoal(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		var req goalRequest
		if !decodeJSON(s, w, r, &req) {
			return
		}

		if err := s.GoalsStore.SetGoal(r.Context(), id.UserID, req.WeeklyTarget); err != nil {
			internalError(s, w, r, err)
			return
		}
		s.Auditor.Log(r.Context(), audit.GoalUpdateEvent{
			UserID:       id.UserID,
			ClientIP:     clientIP(id),
			WeeklyTarget: req.WeeklyTarget,
		})

		goal, err := goalFor(s, r, id)
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, goal)
	}
}

func handleGoalStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}
		goal, err := goalFor(s, r, id)
		if err != nil {
			internalError(s, w, r, err)
			return
		}

		today := s.Now()
		from := history.WeekStart(today).Format(model.DateLayout)
		entries, err := s.EntriesStore.List(r.Context(), id.UserID, from, today.Format(model.DateLayout))
		if err != nil {
			internalError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, history.WeeklyStatus(entries, goal.WeeklyTarget, today))
	}
}
