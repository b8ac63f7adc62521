// Package cmd implements the scribe CLI: a thin interactive driver for
// authoring workflows, carrying its session in a local state file so a
// suspended run can be picked up across invocations.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scribe-works/scribe/pkg/client"
)

const ownerEnv = "SCRIBE_OWNER"

var (
	addr        string
	ownerFlag   string
	sessionPath string
)

var rootCmd = &cobra.Command{
	Use:           "scribe",
	Short:         "Drive Scribe authoring workflows from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr",
		"http://localhost:8080/api", "base URL of the Scribe API")
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "",
		"owner identity UUID (default: "+ownerEnv+" env)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session",
		".scribe-session.json", "path to the local session file")
}

func newClient() (*client.Client, error) {
	raw := ownerFlag
	if raw == "" {
		raw = os.Getenv(ownerEnv)
	}
	if raw == "" {
		return nil, fmt.Errorf("owner identity required: set --owner or %s", ownerEnv)
	}

	owner, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid owner identity %q: %w", raw, err)
	}

	return client.New(addr, owner), nil
}
