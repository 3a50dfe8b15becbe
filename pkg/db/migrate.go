package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Source opens the migrations for a dialect.
type Source interface {
	Open(dialect Dialect) (source.Driver, error)
	// Files lists the .up.sql file names for a dialect.
	Files(dialect Dialect) ([]string, error)
}

func dialectDir(d Dialect) string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// FSSource reads migrations from an fs.FS laid out as
// migrations/{sqlite,postgres}/*.sql.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) sub(d Dialect) (fs.FS, error) {
	sub, err := fs.Sub(s.FS, path.Join("migrations", dialectDir(d)))
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations: %w", err)
	}
	return sub, nil
}

func (s FSSource) Open(d Dialect) (source.Driver, error) {
	sub, err := s.sub(d)
	if err != nil {
		return nil, err
	}
	drv, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}
	return drv, nil
}

func (s FSSource) Files(d Dialect) ([]string, error) {
	sub, err := s.sub(d)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	return upFiles(entries), nil
}

// DirSource reads migrations from a directory on disk.
type DirSource struct {
	Dir string
}

func (s DirSource) Open(d Dialect) (source.Driver, error) {
	return (&file.File{}).Open("file://" + path.Join(s.Dir, dialectDir(d)))
}

func (s DirSource) Files(d Dialect) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.Dir, dialectDir(d)))
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	return upFiles(entries), nil
}

func upFiles(entries []fs.DirEntry) []string {
	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	return files
}

// NewMigrator creates a golang-migrate instance for the database URL.
func NewMigrator(dbURL string, src Source) (*migrate.Migrate, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database_url is required")
	}
	d, err := src.Open(DialectOf(dbURL))
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("migrations", d, MigrateURL(dbURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// MigrateUp applies all pending migrations and returns the resulting version.
func MigrateUp(dbURL string, src Source) (uint, error) {
	m, err := NewMigrator(dbURL, src)
	if err != nil {
		return 0, err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, err
	}
	return version, nil
}
