package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Print the Nushell auto-activation hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), c.app.HookScript())
			return err
		},
	}
}
