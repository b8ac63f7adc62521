package cmd

import (
	"github.com/spf13/cobra"
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve the suspended step and continue the run",
	RunE:  runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)
}

func runApprove(cmd *cobra.Command, _ []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	ctrl, err := loadSession(c)
	if err != nil {
		return err
	}

	if err := ctrl.Approve(cmd.Context(), nil); err != nil {
		saveSession(ctrl)
		return err
	}

	if err := saveSession(ctrl); err != nil {
		return err
	}

	printState(ctrl)
	return nil
}
