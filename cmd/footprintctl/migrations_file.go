//go:build !embed_migrations

package main

import (
	"os"

	"github.com/doodlesbykumbi/footprint/pkg/db"
)

const defaultMigrationsPath = "db/migrations"

func migrationsPath() string {
	if p := os.Getenv("FOOTPRINT_MIGRATIONS_PATH"); p != "" {
		return p
	}
	return defaultMigrationsPath
}

func migrationSource() db.Source {
	return db.DirSource{Dir: migrationsPath()}
}

func migrationSourceName() string {
	return "file://" + migrationsPath()
}
