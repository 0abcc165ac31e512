package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/drc/internal/cli/render"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered domains",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			bindings, err := app.QueryBinding.ListBindings(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list bindings: %w", err)
			}

			return render.NewBindingRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderList(bindings)
		},
	}
}
