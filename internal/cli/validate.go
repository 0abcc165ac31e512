package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/drc/internal/cli/render"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "validate <domain> <address>",
		Short: "Check a domain's manifest against the allow-list",
		Long: `Fetch the manifest a domain publishes and check that every address it
declares is allow-listed. The candidate address is required but is not
itself compared with the manifest.

Examples:
  drc validate example.com 0x1234...
  drc validate example.com 0x1234... --endpoint .well-known/contracts.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stop := func() {}
			if !app.Config.JSON && !color.NoColor {
				stop = render.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Fetching manifest of %s", args[0]))
			}

			verdict, err := app.ValidateDomain.Validate(cmd.Context(), usecase.ValidateParams{
				Domain:    args[0],
				Candidate: args[1],
				Endpoint:  endpoint,
			})
			stop()
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			return render.NewVerdictRenderer(out, app.Config.JSON).Render(verdict)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Manifest path on the domain (default contracts.json)")

	return cmd
}
