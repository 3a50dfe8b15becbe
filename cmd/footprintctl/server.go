package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/footprint/pkg/advisor"
	"github.com/doodlesbykumbi/footprint/pkg/audit"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/footprint/pkg/authenticator/guest"
	"github.com/doodlesbykumbi/footprint/pkg/config"
	"github.com/doodlesbykumbi/footprint/pkg/db"
	"github.com/doodlesbykumbi/footprint/pkg/logging"
	"github.com/doodlesbykumbi/footprint/pkg/server"
	"github.com/doodlesbykumbi/footprint/pkg/server/endpoints"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
	"github.com/doodlesbykumbi/footprint/pkg/server/store/fallback"
	gormstore "github.com/doodlesbykumbi/footprint/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/footprint/pkg/token"
)

const shutdownTimeout = 15 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the footprint API server",
	Long: `Run the footprint API server.

FOOTPRINT_TOKEN_SECRET is required. The database defaults to a sqlite file
(footprint.db); set FOOTPRINT_DATABASE_URL to a postgres:// URL to use
postgres. When FOOTPRINT_REMOTE_DATABASE_URL is set, new entries are written
there first and stored locally when the replica is unreachable.

By default, database migrations are run on startup. Use --no-migrate to skip.
With --watch-config the config file is reloaded when it changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		watch, _ := cmd.Flags().GetBool("watch-config")
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")

		if err := runServer(serverOptions{
			Host:    host,
			Port:    port,
			Migrate: !noMigrate,
			Watch:   watch,
		}); err != nil {
			fail("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload the config file when it changes")
}

type serverOptions struct {
	Host    string
	Port    string
	Migrate bool
	Watch   bool
}

func runServer(opts serverOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.TokenSecret == "" {
		return errors.New("FOOTPRINT_TOKEN_SECRET environment variable is required")
	}
	secret, err := token.DecodeSecret(cfg.TokenSecret)
	if err != nil {
		return err
	}
	tokens, err := token.NewIssuer(secret, cfg.TokenLifetime())
	if err != nil {
		return err
	}

	logger, level, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.Migrate {
		logger.Info("running database migrations", zap.String("source", migrationSourceName()))
		version, err := db.MigrateUp(cfg.DatabaseURL, migrationSource())
		if err != nil {
			return err
		}
		logger.Info("database migrated", zap.Uint("version", version))
	}

	gormDB, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}
	defer closeDatabase(gormDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.NewServer(logger, tokens, server.Options{Host: opts.Host, Port: opts.Port})
	s.EntriesStore = entriesStore(cfg, gormDB, logger, opts.Migrate)
	s.GoalsStore = gormstore.NewGoalsStore(gormDB)
	s.AliasesStore = gormstore.NewAliasesStore(gormDB)
	s.UsersStore = gormstore.NewUsersStore(gormDB)
	s.HealthStore = gormstore.NewHealthStore(gormDB)

	s.Advisor = advisor.New(nil)
	if cfg.AIEnabled() {
		gen, err := advisor.NewGenAIGenerator(ctx, cfg.AIAPIKey, cfg.AIModel, cfg.AIMaxOutputTokens)
		if err != nil {
			return err
		}
		s.Advisor = advisor.New(gen)
		logger.Info("AI advisor enabled", zap.String("model", gen.Model()))
	}

	var auditStore *audit.Store
	if cfg.AuditPersist {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		auditStore = audit.NewStore(sqlDB)
	}
	s.Auditor = audit.New(audit.NewLogger(), auditStore, logger.Named("audit"))

	s.Authenticators.Register(authn.New(s.UsersStore, s.HealthStore))
	s.Authenticators.Register(guest.New())
	if err := s.ApplyConfig(cfg); err != nil {
		return err
	}

	endpoints.RegisterAll(s)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(s.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if opts.Watch {
		watcher := config.NewWatcher(cfg.ConfigFilePath(), logger.Named("config"))
		watcher.OnReload(func(next *config.FootprintConfig) {
			if err := s.ApplyConfig(next); err != nil {
				logger.Warn("failed to apply reloaded configuration", zap.Error(err))
			}
			if lvl, err := logging.ParseLevel(next.LogLevel); err == nil {
				level.SetLevel(lvl)
			}
			logger.Info("configuration reloaded")
		})
		g.Go(func() error { return watcher.Run(ctx) })
	}

	return g.Wait()
}

// entriesStore returns the local gorm store, wrapped with the remote
// replica when one is configured and reachable.
func entriesStore(cfg *config.FootprintConfig, local *gorm.DB, logger *zap.Logger, migrate bool) store.EntriesStore {
	localStore := gormstore.NewEntriesStore(local)
	if cfg.RemoteDatabaseURL == "" {
		return localStore
	}

	if migrate {
		if _, err := db.MigrateUp(cfg.RemoteDatabaseURL, migrationSource()); err != nil {
			logger.Warn("remote database migration failed", zap.Error(err))
		}
	}
	remote, err := db.Connect(db.Config{URL: cfg.RemoteDatabaseURL})
	if err != nil {
		logger.Warn("remote database unavailable, using local storage only", zap.Error(err))
		return localStore
	}
	logger.Info("replicating entries to remote database")
	return fallback.New(gormstore.NewEntriesStore(remote), localStore, logger.Named("fallback"))
}
