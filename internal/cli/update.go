package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/drc/internal/cli/render"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// NewUpdateCmd creates the update command
func NewUpdateCmd() *cobra.Command {
	var (
		caller   string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "update <domain> <address>",
		Short: "Request that a domain be bound to a dapp address",
		Long: `Request a binding change for a domain on behalf of --caller.

The domain's manifest is validated first. The first valid request for an
unregistered domain, and any valid request from the current admin, is
committed immediately. Other callers record a pending transition and can
commit it with a second request once the cooldown has elapsed.

Examples:
  drc update example.com 0xDapp... --caller 0xMe...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			outcome, err := app.RequestUpdate.Execute(cmd.Context(), usecase.RequestUpdateParams{
				Domain:          args[0],
				ProposedAddress: args[1],
				Caller:          caller,
				Endpoint:        endpoint,
			})
			if err != nil && !errors.Is(err, domain.ErrCooldownNotElapsed) {
				return fmt.Errorf("update failed: %w", err)
			}

			if rerr := render.NewBindingRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderOutcome(outcome); rerr != nil {
				return rerr
			}
			// the outcome is shown, the exit status still reports the revert
			return err
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "Address making the request (required)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Manifest path on the domain (default contracts.json)")
	_ = cmd.MarkFlagRequired("caller")

	return cmd
}
