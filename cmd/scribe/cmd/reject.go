package cmd

import (
	"github.com/spf13/cobra"
)

var rejectCmd = &cobra.Command{
	Use:   "reject",
	Short: "Reject the suspended step and regenerate it",
	RunE:  runReject,
}

func init() {
	rootCmd.AddCommand(rejectCmd)
}

func runReject(cmd *cobra.Command, _ []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	ctrl, err := loadSession(c)
	if err != nil {
		return err
	}

	if err := ctrl.Reject(cmd.Context()); err != nil {
		saveSession(ctrl)
		return err
	}

	if err := saveSession(ctrl); err != nil {
		return err
	}

	printState(ctrl)
	return nil
}
