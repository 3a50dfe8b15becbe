//go:build embed_migrations

package main

import (
	migrations "github.com/doodlesbykumbi/footprint/db"
	"github.com/doodlesbykumbi/footprint/pkg/db"
)

func migrationSource() db.Source {
	return db.FSSource{FS: migrations.Migrations}
}

func migrationSourceName() string {
	return "embedded"
}
