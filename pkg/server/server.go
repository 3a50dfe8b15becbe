package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/footprint/pkg/advisor"
	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator"
	"github.com/doodlesbykumbi/footprint/pkg/config"
	"github.com/doodlesbykumbi/footprint/pkg/emissions"
	"github.com/doodlesbykumbi/footprint/pkg/server/middleware"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
	"github.com/doodlesbykumbi/footprint/pkg/token"
)

// Server holds the router and everything the endpoints depend on.
type Server struct {
	Router *mux.Router
	Logger *zap.Logger

	// Config returns the live configuration; it changes on hot reload.
	Config func() *config.FootprintConfig
	// Clock returns the current time; endpoints derive "today" from it.
	Clock func() time.Time

	EntriesStore store.EntriesStore
	GoalsStore   store.GoalsStore
	AliasesStore store.AliasesStore
	UsersStore   store.UsersStore
	HealthStore  store.HealthStore

	Authenticators *authenticator.Registry
	Tokens         *token.Issuer
	JWTMiddleware  *middleware.JWTAuthenticator
	Advisor        *advisor.Advisor
	Auditor        *audit.Auditor
	Validate       *validator.Validate

	srv *http.Server
}

// Options configures the listener.
type Options struct {
	Host string
	Port string
	// AccessLog receives combined-format request lines. Defaults to the
	// server logger at info level.
	AccessLog io.Writer
}

func NewServer(logger *zap.Logger, tokens *token.Issuer, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter().UseEncodedPath()
	s := &Server{
		Router:         router,
		Logger:         logger,
		Config:         config.Get,
		Clock:          time.Now,
		Authenticators: authenticator.NewRegistry(),
		Tokens:         tokens,
		JWTMiddleware:  middleware.NewJWTAuthenticator(tokens),
		Validate:       newValidator(),
	}

	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = zap.NewStdLog(logger.Named("http")).Writer()
	}

	s.srv = &http.Server{
		Handler:           handlers.LoggingHandler(accessLog, s.corsHandler(router)),
		Addr:              opts.Host + ":" + opts.Port,
		WriteTimeout:      60 * time.Second,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Version is reported by the status endpoint. Overridden at link time.
var Version = "0.1.0"

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// corsHandler applies the configured CORS origins per request so that
// reloaded origins take effect without a restart.
func (s *Server) corsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origins := s.Config().CORSAllowedOrigins
		if len(origins) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.ExposedHeaders([]string{"Content-Disposition"}),
		)(next).ServeHTTP(w, r)
	})
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Now returns the server's current time in UTC.
func (s *Server) Now() time.Time {
	return s.Clock().UTC()
}

// Factors returns the emission factors from the live configuration,
// falling back to the defaults if the configured overrides are invalid.
func (s *Server) Factors() emissions.Factors {
	f, err := s.Config().Factors()
	if err != nil {
		s.Logger.Warn("invalid emission factors in configuration, using defaults", zap.Error(err))
		return emissions.DefaultFactors()
	}
	return f
}

// ApplyConfig syncs runtime toggles with cfg. Called at startup and after
// every configuration reload.
func (s *Server) ApplyConfig(cfg *config.FootprintConfig) error {
	if err := s.Authenticators.EnableOnly(cfg.Authenticators); err != nil {
		return err
	}
	if s.Auditor != nil {
		s.Auditor.SetEnabled(cfg.AuditEnabled)
	}
	return nil
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
