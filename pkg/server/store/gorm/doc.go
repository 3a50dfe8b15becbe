// Package gorm provides GORM-based implementations of the store interfaces.
//
// The same implementations serve sqlite and PostgreSQL; the schema is
// created by the migrations in db/migrations.
package gorm
