package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var replyCmd = &cobra.Command{
	Use:   "reply <note>",
	Short: "Answer the coach and stay on the current stage",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReply,
}

func init() {
	rootCmd.AddCommand(replyCmd)
}

func runReply(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	ctrl, err := loadSession(c)
	if err != nil {
		return err
	}

	if err := ctrl.Reply(cmd.Context(), strings.Join(args, " ")); err != nil {
		saveSession(ctrl)
		return err
	}

	if err := saveSession(ctrl); err != nil {
		return err
	}

	printState(ctrl)
	return nil
}
