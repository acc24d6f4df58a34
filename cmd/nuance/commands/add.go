package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/nuance/internal/app"
)

func (c *CLI) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <source>",
		Short: "Declare a dependency and install it",
		Long: `Declare a dependency and install it.

The source is a git URL or an owner/repo shorthand expanded against the
configured default git provider. Without a ref flag the latest tag is used,
falling back to the remote's default branch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			global, _ := cmd.Flags().GetBool("global")
			tag, _ := cmd.Flags().GetString("tag")
			branch, _ := cmd.Flags().GetString("branch")
			rev, _ := cmd.Flags().GetString("rev")
			ref, _ := cmd.Flags().GetString("ref")

			dir, err := workingDir(global)
			if err != nil {
				return err
			}
			return c.app.Add(cmd.Context(), dir, app.AddOptions{
				Source: args[0],
				Tag:    tag,
				Branch: branch,
				Rev:    rev,
				Ref:    ref,
				Global: global,
			})
		},
	}
	cmd.Flags().StringP("tag", "t", "", "Pin to a tag")
	cmd.Flags().StringP("branch", "b", "", "Track a branch head")
	cmd.Flags().String("rev", "", "Pin to an exact commit")
	cmd.Flags().String("ref", "", "Pin to a named ref, resolving whether it is a tag or a branch")
	cmd.Flags().BoolP("global", "g", false, "Add to the global module set")
	return cmd
}
