package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/footprint/pkg/identity"
	"github.com/doodlesbykumbi/footprint/pkg/token"
)

func newIssuer(t *testing.T) *token.Issuer {
	secret := make([]byte, token.MinSecretLength)
	for i := range secret {
		secret[i] = byte(i + 1)
	}
	issuer, err := token.NewIssuer(secret, time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: `Token token="abc.def.ghi"`, want: "abc.def.ghi", ok: true},
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi", ok: true},
		{header: `Token token=""`, ok: false},
		{header: "Bearer ", ok: false},
		{header: "Basic dXNlcjpwYXNz", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := ExtractToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func serve(t *testing.T, auth *JWTAuthenticator, header string) (*httptest.ResponseRecorder, *identity.Identity) {
	var seen *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, seen
}

func TestMiddleware_ValidToken(t *testing.T) {
	issuer := newIssuer(t)
	signed, _, err := issuer.Issue("user-1", "alice@example.com", false)
	require.NoError(t, err)

	for _, header := range []string{`Token token="` + signed + `"`, "Bearer " + signed} {
		rr, id := serve(t, NewJWTAuthenticator(issuer), header)
		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, id)
		assert.Equal(t, "user-1", id.UserID)
		assert.Equal(t, "alice@example.com", id.Login)
		assert.Equal(t, "10.1.2.3", id.RemoteIP.String())
	}
}

func TestMiddleware_Rejections(t *testing.T) {
	issuer := newIssuer(t)
	start := time.Now().Add(-2 * time.Hour)
	expired, _, err := newIssuer(t).WithClock(func() time.Time { return start }).Issue("user-1", "alice", false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		body   string
	}{
		{name: "missing", header: "", body: "Authorization missing"},
		{name: "malformed", header: "Basic xyz", body: "Malformed authorization header"},
		{name: "invalid", header: "Bearer not-a-jwt", body: "Invalid token"},
		{name: "expired", header: "Bearer " + expired, body: "Token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, id := serve(t, NewJWTAuthenticator(issuer), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Nil(t, id)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"`+tt.body+`"}}`, rr.Body.String())
		})
	}
}
