// Package db holds the SQL migrations, embedded when built with the
// embed_migrations tag.
package db

import "embed"

// Migrations contains migrations/sqlite and migrations/postgres.
//
//go:embed migrations
var Migrations embed.FS
