package commands

import "github.com/spf13/cobra"

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Re-resolve every dependency and refresh the lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			global, _ := cmd.Flags().GetBool("global")

			dir, err := workingDir(global)
			if err != nil {
				return err
			}
			return c.app.Update(cmd.Context(), dir, global)
		},
	}
	cmd.Flags().BoolP("global", "g", false, "Update the global module set")
	return cmd
}
