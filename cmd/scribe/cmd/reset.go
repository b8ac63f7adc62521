package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Abandon the local session",
	Long: `Removes the local session file. The server-side run, if one is
suspended, is left for its TTL to reclaim.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	if err := os.Remove(sessionPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no active session")
			return nil
		}
		return fmt.Errorf("remove session: %w", err)
	}

	fmt.Println("session cleared")
	return nil
}
