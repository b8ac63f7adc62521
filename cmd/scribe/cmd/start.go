package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scribe-works/scribe/pkg/client"
)

var (
	startDocument string
	startKind     string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a workflow run for a document",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVar(&startDocument, "document", "", "document UUID (required)")
	startCmd.Flags().StringVar(&startKind, "kind", client.KindGuided,
		"pipeline kind (guided, autonomous, coaching)")
	startCmd.MarkFlagRequired("document")
}

func runStart(cmd *cobra.Command, _ []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	documentID, err := uuid.Parse(startDocument)
	if err != nil {
		return fmt.Errorf("invalid document id %q: %w", startDocument, err)
	}

	ctrl := client.NewController(c, documentID)
	if err := ctrl.Start(cmd.Context(), startKind); err != nil {
		return err
	}

	if err := saveSession(ctrl); err != nil {
		return err
	}

	printState(ctrl)
	return nil
}
