package middleware

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/doodlesbykumbi/footprint/pkg/identity"
	"github.com/doodlesbykumbi/footprint/pkg/token"
)

var tokenRegex = regexp.MustCompile(`^Token token="(.*)"`)

// TokenParser verifies a signed access token.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// JWTAuthenticator is middleware that validates access tokens
type JWTAuthenticator struct {
	Parser TokenParser
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(parser TokenParser) *JWTAuthenticator {
	return &JWTAuthenticator{Parser: parser}
}

// ExtractToken returns the raw token from an Authorization header value.
// Both `Token token="..."` and `Bearer ...` forms are accepted.
func ExtractToken(authHeader string) (string, bool) {
	if m := tokenRegex.FindStringSubmatch(authHeader); len(m) == 2 && m[1] != "" {
		return m[1], true
	}
	if rest, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		rest = strings.TrimSpace(rest)
		return rest, rest != ""
	}
	return "", false
}

// ClientIP returns the request's remote address without the port.
func ClientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}

// Unauthorized writes a 401 with the JSON error envelope used by the endpoints.
func Unauthorized(w http.ResponseWriter, message string) {
	body, _ := json.Marshal(map[string]interface{}{
		"error": map[string]string{"code": "unauthorized", "message": message},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write(body)
}

// Middleware returns an HTTP middleware that validates access tokens
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			Unauthorized(w, "Authorization missing")
			return
		}

		tokenStr, ok := ExtractToken(authHeader)
		if !ok {
			Unauthorized(w, "Malformed authorization header")
			return
		}

		claims, err := j.Parser.Parse(tokenStr)
		if err != nil {
			if errors.Is(err, token.ErrExpiredToken) {
				Unauthorized(w, "Token expired")
			} else {
				Unauthorized(w, "Invalid token")
			}
			return
		}

		id := identity.FromClaims(claims).WithRemoteIP(ClientIP(r))
		r = r.WithContext(identity.Set(r.Context(), id))

		next.ServeHTTP(w, r)
	})
}
