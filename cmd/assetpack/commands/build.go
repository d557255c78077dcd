package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/assetpack/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [packages...]",
		Short: "Build the named packages, or all packages",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			parallel, _ := cmd.Flags().GetInt("parallel")
			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				Force:       force,
				Parallelism: parallel,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Rebuild packages that already exist locally or remotely")
	cmd.Flags().IntP("parallel", "p", 0, "Maximum number of packages built at once (default: number of CPUs)")
	return cmd
}

func (c *CLI) newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish [packages...]",
		Short: "Upload built packages to the configured bucket",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Publish(cmd.Context(), args)
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove built bundles and the build manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context())
		},
	}
}
