package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the footprint server to be ready",
	Long: `Wait for the footprint server to be ready by polling the status endpoint.

The status endpoint answers 503 while the database is unreachable, so a
successful wait means the server can serve requests.

Example:
  footprintctl wait
  footprintctl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")

		if err := waitForServer(port, retries); err != nil {
			fail("Server did not become ready: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

func defaultPortInt() int {
	if p, err := strconv.Atoi(defaultPort()); err == nil {
		return p
	}
	return 8000
}

func waitForServer(port, retries int) error {
	url := fmt.Sprintf("http://localhost:%d/", port)
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Fprintln(os.Stderr, "Waiting for footprint to be ready...")

	for i := 0; i < retries; i++ {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 300 {
				fmt.Fprintln(os.Stderr)
				fmt.Println("footprint is ready")
				return nil
			}
		}

		fmt.Fprint(os.Stderr, ".")
		time.Sleep(1 * time.Second)
	}

	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("footprint is not ready after %d seconds", retries)
}
