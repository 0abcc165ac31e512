package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/drc/internal/adapters/allowlist"
	"github.com/trebuchet-org/drc/internal/cli/render"
)

// NewAllowListCmd creates the allowlist command group
func NewAllowListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "allowlist",
		Aliases: []string{"al"},
		Short:   "Manage the contract allow-list",
		Long: `Manage the canonical set of approved contract addresses.

With the chain backend, add and import submit transactions to the DRC
contract and require --private-key. List is only available for the file
and memory backends.`,
	}

	cmd.AddCommand(newAllowListAddCmd())
	cmd.AddCommand(newAllowListCheckCmd())
	cmd.AddCommand(newAllowListListCmd())
	cmd.AddCommand(newAllowListImportCmd())

	return cmd
}

func newAllowListAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <address>...",
		Short: "Add addresses to the allow-list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			results, err := app.ManageAllowList.Add(cmd.Context(), args)
			if err != nil {
				return err
			}
			return render.NewAllowListRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderAdded(results)
		},
	}
}

func newAllowListCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <address>",
		Short: "Check whether an address is allow-listed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, ok, err := app.ManageAllowList.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render.NewAllowListRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderCheck(addr, ok)
		},
	}
}

func newAllowListListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List allow-listed addresses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			entries, err := app.ManageAllowList.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list allow-list: %w", err)
			}
			return render.NewAllowListRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderList(entries)
		},
	}
}

func newAllowListImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add every address listed in a YAML file",
		Long: `Add every address listed in a YAML file of the form:

  addresses:
    - 0x1234...
    - 0xabcd...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			addresses, err := allowlist.ParseImportFile(args[0])
			if err != nil {
				return err
			}

			results, err := app.ManageAllowList.Add(cmd.Context(), addresses)
			if err != nil {
				return err
			}
			return render.NewAllowListRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderAdded(results)
		},
	}
}
