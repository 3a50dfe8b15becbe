package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/footprint/pkg/token"
)

var tokenSecretCmd = &cobra.Command{
	Use:   "token-secret",
	Short: "Manage the token signing secret",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'token-secret' requires a subcommand (generate)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// tokenSecretGenerateCmd represents the token-secret > generate command
var tokenSecretGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a token signing secret",
	Long: `
Generate a token signing secret

Prints a new Base64-encoded 256 bit secret. Place it in the environment of
the server; changing it invalidates every issued token.

Example:

$ export FOOTPRINT_TOKEN_SECRET="$(footprintctl token-secret generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		secret, err := token.GenerateSecret()
		if err != nil {
			fail("Failed to generate secret: %v", err)
		}
		fmt.Print(secret)
	},
}

func init() {
	rootCmd.AddCommand(tokenSecretCmd)
	tokenSecretCmd.AddCommand(tokenSecretGenerateCmd)
}
