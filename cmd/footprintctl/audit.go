package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/footprint/pkg/model"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect persisted audit messages",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'audit' requires a subcommand (list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent audit messages",
	Long: `List the most recent audit messages stored in the database.

Messages are only stored when audit_persist is enabled.

Example:
  footprintctl audit list --limit 50 --msgid authn`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		msgid, _ := cmd.Flags().GetString("msgid")

		_, gormDB, err := openDatabase()
		if err != nil {
			fail("%v", err)
		}
		defer closeDatabase(gormDB)

		query := gormDB.Order("timestamp desc").Limit(limit)
		if msgid != "" {
			query = query.Where("msgid = ?", msgid)
		}
		var messages []model.AuditMessage
		if err := query.Find(&messages).Error; err != nil {
			fail("Failed to list audit messages: %v", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tSEVERITY\tMSGID\tMESSAGE")
		for _, m := range messages {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", m.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), m.Severity, m.Msgid, m.Message)
		}
		_ = tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().IntP("limit", "n", 20, "maximum number of messages")
	auditListCmd.Flags().String("msgid", "", "only show this message id (authn, entry-create, ...)")
}
