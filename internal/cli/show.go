package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/drc/internal/cli/render"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <domain>",
		Short: "Show the binding of a domain",
		Long: `Show the dapp address, admin and pending transition of a domain.
Unregistered domains are reported as such rather than as an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			binding, err := app.QueryBinding.GetBinding(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load binding: %w", err)
			}

			return render.NewBindingRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(binding)
		},
	}
}
