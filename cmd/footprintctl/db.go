package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/footprint/pkg/db"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema and migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'db' requires a subcommand (migrate, down, status)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

The local database is migrated first, then the remote replica when
remote_database_url is configured.

Example:
  footprintctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fail("%v", err)
		}
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			fail("Migration failed: %v", err)
		}
		if cfg.RemoteDatabaseURL != "" {
			if err := runMigrations(cfg.RemoteDatabaseURL); err != nil {
				fail("Remote migration failed: %v", err)
			}
		}
	},
}

var dbDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations on the local database.

Example:
  footprintctl db down      # Rollback 1 migration
  footprintctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				fail("steps must be a positive integer")
			}
			steps = n
		}
		cfg, err := loadConfig()
		if err != nil {
			fail("%v", err)
		}
		if err := runMigrationsDown(cfg.DatabaseURL, steps); err != nil {
			fail("Rollback failed: %v", err)
		}
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current migration version and the available migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fail("%v", err)
		}
		if err := showMigrationStatus(cfg.DatabaseURL); err != nil {
			fail("Failed to get status: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbDownCmd)
	dbCmd.AddCommand(dbStatusCmd)
}

func runMigrations(dbURL string) error {
	fmt.Printf("Running %s migrations from %s\n", db.DialectOf(dbURL), migrationSourceName())
	version, err := db.MigrateUp(dbURL, migrationSource())
	if err != nil {
		return err
	}
	fmt.Printf("Database is at version %d\n", version)
	return nil
}

func runMigrationsDown(dbURL string, steps int) error {
	m, err := db.NewMigrator(dbURL, migrationSource())
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	fmt.Printf("Rolling back %d migration(s)...\n", steps)
	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("All migrations rolled back")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Rolled back to version: %d\n", version)
	return nil
}

func showMigrationStatus(dbURL string) error {
	src := migrationSource()
	m, err := db.NewMigrator(dbURL, src)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	files, err := src.Files(db.DialectOf(dbURL))
	if err != nil {
		return err
	}
	sort.Strings(files)

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("No migrations have been applied yet")
	case err != nil:
		return err
	default:
		fmt.Printf("Current version: %d\n", version)
		if dirty {
			fmt.Println("Warning: Database is in a dirty state")
		}
	}

	fmt.Printf("Available migrations (%s):\n", migrationSourceName())
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}
