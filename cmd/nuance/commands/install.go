package commands

import "github.com/spf13/cobra"

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Resolve dependencies and materialize them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			frozen, _ := cmd.Flags().GetBool("frozen")
			global, _ := cmd.Flags().GetBool("global")

			dir, err := workingDir(global)
			if err != nil {
				return err
			}
			return c.app.Install(cmd.Context(), dir, frozen, global)
		},
	}
	cmd.Flags().Bool("frozen", false, "Install strictly from the lockfile without resolving")
	cmd.Flags().BoolP("global", "g", false, "Install the global module set")
	return cmd
}
