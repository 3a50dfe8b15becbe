package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/footprint/pkg/history"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/footprint/pkg/server/store/gorm"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Import and export activity history",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'entry' requires a subcommand (import, export)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var entryImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a CSV of daily activity for a user",
	Long: `Import a CSV of daily activity for a user.

Required columns: date, distance, transport_mode, electricity, lpg.
Optional columns: alias, notes. Rows that fail to parse are reported and
skipped. Use "-" to read from stdin.

Example:
  footprintctl entry import --user kim@example.com history.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")

		in := io.Reader(os.Stdin)
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				fail("%v", err)
			}
			defer func() { _ = f.Close() }()
			in = f
		}

		if err := importEntries(context.Background(), user, in); err != nil {
			fail("Import failed: %v", err)
		}
	},
}

var entryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's history as CSV",
	Long: `Export a user's history as CSV.

Example:
  footprintctl entry export --user kim@example.com --output co2_history.csv
  footprintctl entry export --user kim@example.com --from 2024-05-01`,
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		output, _ := cmd.Flags().GetString("output")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		out := io.Writer(os.Stdout)
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				fail("%v", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		if err := exportEntries(context.Background(), user, from, to, out); err != nil {
			fail("Export failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryImportCmd)
	entryCmd.AddCommand(entryExportCmd)

	entryCmd.PersistentFlags().StringP("user", "u", "", "user email, or a user ID such as guest-<uuid>")
	_ = entryCmd.MarkPersistentFlagRequired("user")

	entryExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	entryExportCmd.Flags().String("from", "", "first date to include (YYYY-MM-DD)")
	entryExportCmd.Flags().String("to", "", "last date to include (YYYY-MM-DD)")
}

// resolveUserID maps an email to the registered user's ID. Anything
// without an @ is taken as an ID.
func resolveUserID(ctx context.Context, gormDB *gorm.DB, user string) (string, error) {
	if !strings.Contains(user, "@") {
		return user, nil
	}
	u, err := gormstore.NewUsersStore(gormDB).FindUserByEmail(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", user, err)
	}
	return u.ID, nil
}

func importEntries(ctx context.Context, user string, in io.Reader) error {
	cfg, gormDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(gormDB)

	logger, _, err := newLogger(cfg)
	if err != nil {
		return err
	}

	userID, err := resolveUserID(ctx, gormDB, user)
	if err != nil {
		return err
	}
	factors, err := cfg.Factors()
	if err != nil {
		return err
	}
	alias, err := gormstore.NewAliasesStore(gormDB).GetAlias(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrAliasNotFound) {
		return err
	}

	result, err := history.ReadCSV(in, history.ImportOptions{UserID: userID, Alias: alias, Factors: factors})
	if err != nil {
		return err
	}
	for _, rowErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "line %d: %s\n", rowErr.Line, rowErr.Reason)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "line %d: warning: %s\n", warning.Line, warning.Reason)
	}

	if len(result.Entries) > 0 {
		entries := entriesStore(cfg, gormDB, logger, false)
		if err := entries.CreateBatch(ctx, result.Entries); err != nil {
			return err
		}
	}
	fmt.Printf("Imported %d entries, rejected %d rows\n", len(result.Entries), len(result.Errors))
	return nil
}

func exportEntries(ctx context.Context, user, from, to string, out io.Writer) error {
	cfg, gormDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(gormDB)

	logger, _, err := newLogger(cfg)
	if err != nil {
		return err
	}

	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := history.ParseDate(d); err != nil {
			return err
		}
	}

	userID, err := resolveUserID(ctx, gormDB, user)
	if err != nil {
		return err
	}
	entries, err := entriesStore(cfg, gormDB, logger, false).List(ctx, userID, from, to)
	if err != nil {
		return err
	}
	return history.WriteCSV(out, entries)
}
