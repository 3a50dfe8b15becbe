package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/footprint/pkg/advisor"
	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/guest"
	"github.com/doodlesbykumbi/footprint/pkg/config"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/token"
)

// testNow is a Wednesday; its week starts on 2024-05-06.
var testNow = time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	srv     *server.Server
	cfg     *config.FootprintConfig
	entries *MockEntriesStore
	goals   *MockGoalsStore
	aliases *MockAliasesStore
	users   *MockUsersStore
	health  *MockHealthStore
	gen     *MockGenerator
	audit   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	secret := bytes.Repeat([]byte{7}, token.MinSecretLength)
	issuer, err := token.NewIssuer(secret, time.Hour)
	require.NoError(t, err)
	issuer.WithClock(func() time.Time { return testNow })

	env := &testEnv{
		cfg:     config.Default(),
		entries: &MockEntriesStore{},
		goals:   &MockGoalsStore{},
		aliases: &MockAliasesStore{},
		users:   &MockUsersStore{},
		health:  &MockHealthStore{},
		gen:     &MockGenerator{},
		audit:   &bytes.Buffer{},
	}

	s := server.NewServer(nil, issuer, server.Options{Host: "127.0.0.1", Port: "0", AccessLog: io.Discard})
	s.Config = func() *config.FootprintConfig { return env.cfg }
	s.Clock = func() time.Time { return testNow }
	s.EntriesStore = env.entries
	s.GoalsStore = env.goals
	s.AliasesStore = env.aliases
	s.UsersStore = env.users
	s.HealthStore = env.health
	s.Advisor = advisor.New(env.gen)

	logger := audit.NewLogger()
	logger.SetWriter(env.audit)
	s.Auditor = audit.New(logger, nil, nil)

	s.Authenticators.Register(authn.New(env.users, env.health))
	s.Authenticators.Register(guest.New())
	require.NoError(t, s.ApplyConfig(env.cfg))

	RegisterAll(s)
	env.srv = s
	return env
}

func (e *testEnv) token(t *testing.T, userID string, guest bool) string {
	t.Helper()
	signed, _, err := e.srv.Tokens.Issue(userID, userID+"@example.com", guest)
	require.NoError(t, err)
	return signed
}

// do sends a request through the full handler chain. A non-empty tok is
// sent as a bearer token; string bodies are sent as-is, others as JSON.
func (e *testEnv) do(t *testing.T, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}
