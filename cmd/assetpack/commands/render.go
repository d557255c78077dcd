package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <package>",
		Short: "Print the markup of a package for the current mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, _ := cmd.Flags().GetStringArray("attr")
			attrs, err := parseAttrs(pairs)
			if err != nil {
				return err
			}
			return c.app.Render(cmd.Context(), args[0], attrs)
		},
	}
	cmd.Flags().StringArrayP("attr", "a", nil, "Extra tag attribute as key=value (repeatable)")
	return cmd
}

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show fingerprints and build state of every package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Status(cmd.Context())
		},
	}
}

func parseAttrs(pairs []string) (map[string]string, error) {
	attrs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "attribute must be key=value"), "attr", pair)
		}
		attrs[k] = v
	}
	return attrs, nil
}
