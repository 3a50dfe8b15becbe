package endpoints

import (
	"net/http"
	"time"

	"github.com/doodlesbykumbi/footprint/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	UserID    string    `json:"user_id"`
	Login     string    `json:"login"`
	Guest     bool      `json:"guest"`
	ClientIP  string    `json:"client_ip,omitempty"`
	IssuedAt  time.Time `json:"token_issued_at"`
	ExpiresAt time.Time `json:"token_expires_at"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	whoamiRouter := authenticated(s, "/whoami")
	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentIdentity(w, r)
		if !ok {
			return
		}

		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			UserID:    id.UserID,
			Login:     id.Login,
			Guest:     id.Guest,
			ClientIP:  clientIP(id),
			IssuedAt:  id.IssuedAt,
			ExpiresAt: id.ExpiresAt,
		})
	}
}
