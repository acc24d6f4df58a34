package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/nuance/internal/app"
)

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a mod.toml manifest in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			version, _ := cmd.Flags().GetString("module-version")
			description, _ := cmd.Flags().GetString("description")

			dir, err := workingDir(false)
			if err != nil {
				return err
			}
			return c.app.Init(dir, app.InitOptions{
				Name:        name,
				Version:     version,
				Description: description,
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "Package name (defaults to the directory name)")
	cmd.Flags().String("module-version", "0.1.0", "Initial package version")
	cmd.Flags().StringP("description", "d", "", "Package description")
	return cmd
}
