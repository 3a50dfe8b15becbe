package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
)

type registerRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// RegisterResponse carries the API key. It is shown once and never stored.
type RegisterResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterUsersEndpoints registers POST /users
func RegisterUsersEndpoints(s *server.Server) {
	s.Router.HandleFunc("/users", handleRegister(s)).Methods("POST")
}

func handleRegister(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(s, w, r, &req) {
			return
		}

		user, apiKey, err := s.UsersStore.CreateUser(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, store.ErrUserExists) {
				respondWithError(w, http.StatusConflict, errorBody("conflict", "user already exists"))
				return
			}
			internalError(s, w, r, err)
			return
		}

		respondWithJSON(w, http.StatusCreated, RegisterResponse{
			ID:        user.ID,
			Email:     user.Email,
			APIKey:    apiKey,
			CreatedAt: user.CreatedAt,
		})
	}
}
