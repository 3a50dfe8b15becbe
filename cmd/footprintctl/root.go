package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "footprintctl",
	Short: "Carbon footprint tracking server and tools",
	Long: `footprintctl runs the footprint API server and manages its database,
users and activity history.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
