package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/footprint/pkg/db"
	"github.com/doodlesbykumbi/footprint/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/footprint/pkg/server/store/gorm"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage registered users",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, delete, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Register a user and print their API key",
	Long: `Register a user and print their API key.

The API key is only shown once; it is stored as a bcrypt hash.

Example:
  footprintctl user create kim@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, gormDB, err := openDatabase()
		if err != nil {
			fail("%v", err)
		}
		defer closeDatabase(gormDB)

		user, apiKey, err := gormstore.NewUsersStore(gormDB).CreateUser(context.Background(), args[0])
		if errors.Is(err, store.ErrUserExists) {
			fail("User %s already exists", args[0])
		}
		if err != nil {
			fail("Failed to create user: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Created user %s (%s)\n", user.Email, user.ID)
		fmt.Println(apiKey)
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <email>",
	Short: "Delete a user with their entries, goal and alias",
	Long: `Delete a user with their entries, goal and alias.

When FOOTPRINT_REMOTE_DATABASE_URL is set the user's entries are purged from
the remote database first. If it cannot be reached nothing is deleted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, gormDB, err := openDatabase()
		if err != nil {
			fail("%v", err)
		}
		defer closeDatabase(gormDB)

		ctx := context.Background()
		users := gormstore.NewUsersStore(gormDB)
		user, err := users.FindUserByEmail(ctx, args[0])
		if errors.Is(err, store.ErrUserNotFound) {
			fail("User %s not found", args[0])
		}
		if err != nil {
			fail("Failed to delete user: %v", err)
		}

		if cfg.RemoteDatabaseURL != "" {
			n, err := purgeRemoteEntries(ctx, cfg.RemoteDatabaseURL, user.ID)
			if err != nil {
				fail("Failed to delete entries from the remote database, user not deleted: %v", err)
			}
			fmt.Fprintf(os.Stderr, "Deleted %d remote entries\n", n)
		}

		if err := users.DeleteUser(ctx, user.Email); err != nil {
			fail("Failed to delete user: %v", err)
		}
		fmt.Printf("Deleted user %s\n", args[0])
	},
}

func purgeRemoteEntries(ctx context.Context, url, userID string) (int64, error) {
	remote, err := db.Connect(db.Config{URL: url})
	if err != nil {
		return 0, err
	}
	defer closeDatabase(remote)
	return gormstore.NewEntriesStore(remote).DeleteUserEntries(ctx, userID)
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Run: func(cmd *cobra.Command, args []string) {
		_, gormDB, err := openDatabase()
		if err != nil {
			fail("%v", err)
		}
		defer closeDatabase(gormDB)

		users, err := gormstore.NewUsersStore(gormDB).ListUsers(context.Background())
		if err != nil {
			fail("Failed to list users: %v", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EMAIL\tID\tCREATED")
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Email, u.ID, u.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		_ = tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userListCmd)
}
