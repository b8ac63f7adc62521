package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var advanceCmd = &cobra.Command{
	Use:   "advance [note]",
	Short: "Move the coach to the next stage",
	RunE:  runAdvance,
}

func init() {
	rootCmd.AddCommand(advanceCmd)
}

func runAdvance(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	ctrl, err := loadSession(c)
	if err != nil {
		return err
	}

	if err := ctrl.Advance(cmd.Context(), strings.Join(args, " ")); err != nil {
		saveSession(ctrl)
		return err
	}

	if err := saveSession(ctrl); err != nil {
		return err
	}

	printState(ctrl)
	return nil
}
