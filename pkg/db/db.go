package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/footprint/pkg/config"
)

// Dialect identifies the SQL backend behind a database URL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to the configured database_url)
	URL string
	// Debug turns on SQL query logging
	Debug bool
}

// DialectOf returns the dialect for a database URL. Anything that is not a
// postgres URL is treated as a sqlite file path.
func DialectOf(url string) Dialect {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// SQLitePath strips an optional sqlite3:// or sqlite:// scheme.
func SQLitePath(url string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

// MigrateURL returns the URL golang-migrate expects for the given database URL.
func MigrateURL(url string) string {
	if DialectOf(url) == DialectPostgres {
		return url
	}
	return "sqlite3://" + SQLitePath(url)
}

// Connect establishes a database connection.
// If no URL is provided, it uses the configured database_url.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		return nil, fmt.Errorf("database_url is required")
	}

	logMode := logger.Silent
	if cfg.Debug || config.Get().LogLevel == "debug" {
		logMode = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	}

	var dialector gorm.Dialector
	switch DialectOf(dbURL) {
	case DialectPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	default:
		dialector = sqlite.Open(SQLitePath(dbURL) + "?_foreign_keys=on&_busy_timeout=5000")
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if DialectOf(dbURL) == DialectSQLite {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// URL returns the configured database URL.
func URL() string {
	return config.Get().DatabaseURL
}

// RemoteURL returns the configured remote replica URL, or "".
func RemoteURL() string {
	return config.Get().RemoteDatabaseURL
}
