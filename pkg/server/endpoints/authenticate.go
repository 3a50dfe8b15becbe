package endpoints

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/guest"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/middleware"
)

// TokenResponse is returned by the authenticate endpoints
type TokenResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Login     string    `json:"login"`
	Guest     bool      `json:"guest"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterAuthenticateEndpoints registers the login endpoints
func RegisterAuthenticateEndpoints(s *server.Server) {
	// POST /authn/guest - continue as guest
	s.Router.HandleFunc("/authn/guest", handleAuthenticate(s, guest.Name)).Methods("POST")

	// POST /authn/{login}/authenticate - exchange an API key for a token
	s.Router.HandleFunc("/authn/{login}/authenticate", handleAuthenticate(s, authn.Name)).Methods("POST")
}

func handleAuthenticate(s *server.Server, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login := mux.Vars(r)["login"]
		if login != "" {
			var err error
			if login, err = url.PathUnescape(login); err != nil {
				badRequest(w, "invalid login")
				return
			}
		}
		ip := middleware.ClientIP(r)
		ipStr := ""
		if ip != nil {
			ipStr = ip.String()
		}

		event := audit.AuthenticateEvent{
			Login:             login,
			ClientIP:          ipStr,
			AuthenticatorName: name,
		}

		auth, err := s.Authenticators.Lookup(name)
		if err != nil {
			event.ErrorMessage = err.Error()
			s.Auditor.Log(r.Context(), event)
			middleware.Unauthorized(w, "Authenticator is not enabled")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
		if err != nil {
			badRequest(w, "failed to read request body")
			return
		}

		principal, err := auth.Authenticate(r.Context(), authenticator.AuthenticatorInput{
			Login:       login,
			Credentials: []byte(strings.TrimSpace(string(body))),
			ClientIP:    ipStr,
		})
		if err != nil {
			event.ErrorMessage = err.Error()
			s.Auditor.Log(r.Context(), event)
			if !errors.Is(err, authenticator.ErrAuthenticationFailed) {
				s.Logger.Warn("authentication error", zap.String("authenticator", name), zap.Error(err))
			}
			middleware.Unauthorized(w, "Unauthorized")
			return
		}

		signed, claims, err := s.Tokens.Issue(principal.UserID, principal.Login, principal.Guest)
		if err != nil {
			internalError(s, w, r, err)
			return
		}

		event.Login = principal.Login
		event.Success = true
		s.Auditor.Log(r.Context(), event)

		respondWithJSON(w, http.StatusOK, TokenResponse{
			Token:     signed,
			UserID:    principal.UserID,
			Login:     principal.Login,
			Guest:     principal.Guest,
			ExpiresAt: claims.ExpiresAt.Time,
		})
	}
}
