package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectOf(t *testing.T) {
	tests := []struct {
		url  string
		want Dialect
	}{
		{"footprint.db", DialectSQLite},
		{"sqlite3:///tmp/x.db", DialectSQLite},
		{"postgres://u:p@localhost:5432/fp?sslmode=disable", DialectPostgres},
		{"postgresql://localhost/fp", DialectPostgres},
		{"POSTGRES://localhost/fp", DialectPostgres},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DialectOf(tt.url))
		})
	}
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "sqlite3://data/fp.db", MigrateURL("data/fp.db"))
	assert.Equal(t, "sqlite3:///tmp/fp.db", MigrateURL("sqlite3:///tmp/fp.db"))
	assert.Equal(t, "postgres://localhost/fp", MigrateURL("postgres://localhost/fp"))
}

func TestConnect_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fp.db")

	database, err := Connect(Config{URL: path})
	require.NoError(t, err)

	var one int
	require.NoError(t, database.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
