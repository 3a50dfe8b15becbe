package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/footprint/pkg/advisor"
	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/guest"
	"github.com/doodlesbykumbi/footprint/pkg/config"
	"github.com/doodlesbykumbi/footprint/pkg/db"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/footprint/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/footprint/pkg/token"
)

// testSecret is a fixed 32 byte token secret, base64 encoded.
const testSecret = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
}

// NewTestContext starts postgres in a container, migrates it and starts a
// server against it.
// Modes:
//   - Binary mode (default): set FOOTPRINT_BINARY to the footprintctl binary
//   - Inline mode: set FOOTPRINT_INLINE=1 to run the server in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("FOOTPRINT_INLINE") == "1"
	binaryPath := os.Getenv("FOOTPRINT_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either FOOTPRINT_BINARY or FOOTPRINT_INLINE=1 is required.\n\nBinary mode:\n  go build -o footprintctl ./cmd/footprintctl\n  INTEGRATION_TEST=1 FOOTPRINT_BINARY=$(pwd)/footprintctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 FOOTPRINT_INLINE=1 go test -v ./test/integration/...")
	}
	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("FOOTPRINT_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("footprint_test"),
		tcpostgres.WithUsername("footprint"),
		tcpostgres.WithPassword("footprint"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if _, err := db.MigrateUp(connStr, db.DirSource{Dir: migrationsDir}); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rawDB, err := sql.Open("postgres", connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	serverPort, err := freePort()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	serverURL := fmt.Sprintf("http://127.0.0.1:%s", serverPort)

	tc := &TestContext{
		RawDB:       rawDB,
		Container:   pgContainer,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if inlineMode {
		tc.InlineServer, tc.Cancel, err = startInlineServer(connStr, serverPort)
	} else {
		tc.ServerProcess, tc.Cancel, err = startBinary(binaryPath, connStr, serverPort)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

// startInlineServer starts the server in-process (no binary needed)
func startInlineServer(dbURL, port string) (*server.Server, context.CancelFunc, error) {
	cfg := config.Default()
	cfg.DatabaseURL = dbURL
	config.Set(cfg)

	gormDB, err := db.Connect(db.Config{URL: dbURL})
	if err != nil {
		return nil, nil, err
	}
	secret, err := token.DecodeSecret(testSecret)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := token.NewIssuer(secret, cfg.TokenLifetime())
	if err != nil {
		return nil, nil, err
	}

	logger := zap.NewNop()
	s := server.NewServer(logger, tokens, server.Options{Host: "127.0.0.1", Port: port})
	s.EntriesStore = gormstore.NewEntriesStore(gormDB)
	s.GoalsStore = gormstore.NewGoalsStore(gormDB)
	s.AliasesStore = gormstore.NewAliasesStore(gormDB)
	s.UsersStore = gormstore.NewUsersStore(gormDB)
	s.HealthStore = gormstore.NewHealthStore(gormDB)
	s.Advisor = advisor.New(nil)
	s.Auditor = audit.New(audit.NewLogger(), nil, logger)
	s.Authenticators.Register(authn.New(s.UsersStore, s.HealthStore))
	s.Authenticators.Register(guest.New())
	if err := s.ApplyConfig(cfg); err != nil {
		return nil, nil, err
	}
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	cancel := func() {
		ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = s.Shutdown(ctx)
	}
	return s, cancel, nil
}

// startBinary starts the footprintctl server binary
func startBinary(binaryPath, dbURL, port string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"FOOTPRINT_DATABASE_URL="+dbURL,
		"FOOTPRINT_TOKEN_SECRET="+testSecret,
		"FOOTPRINT_AUTHENTICATORS=authn,guest",
		"FOOTPRINT_CONFIG_PATH="+os.TempDir(),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, cancel, nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Reset empties every table between scenarios.
func (tc *TestContext) Reset(ctx context.Context) error {
	_, err := tc.RawDB.ExecContext(ctx,
		`TRUNCATE daily_emissions, user_goals, leaderboard_aliases, users, audit_messages`)
	return err
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

func freePort() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to allocate port: %w", err)
	}
	defer func() { _ = l.Close() }()
	_, port, err := net.SplitHostPort(l.Addr().String())
	return port, err
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}
