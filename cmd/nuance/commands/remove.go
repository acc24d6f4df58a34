package commands

import "github.com/spf13/cobra"

func (c *CLI) newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Drop a declared dependency and prune its modules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			global, _ := cmd.Flags().GetBool("global")

			dir, err := workingDir(global)
			if err != nil {
				return err
			}
			return c.app.Remove(cmd.Context(), dir, args[0], global)
		},
	}
	cmd.Flags().BoolP("global", "g", false, "Remove from the global module set")
	return cmd
}
