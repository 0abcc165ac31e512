package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/drc/internal/app"
	"github.com/trebuchet-org/drc/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// skipInit lists commands that run without an app
var skipInit = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "drc",
		Short: "Domain registry with oracle-validated contract manifests",
		Long: `drc binds web domains to dapp contract addresses.

A domain publishes the contracts it runs at https://<domain>/contracts.json.
Every declared address must be on the allow-list before a binding can be
created or moved. The current admin of a domain commits changes directly,
anyone else waits out a cooldown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipInit[cmd.Name()] {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, appCleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// serve runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "serve" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				prev := cleanup
				cleanup = func() {
					cancel()
					prev()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
				cleanup = nil
			}
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("json", false, "Output as JSON")
	flags.StringP("network", "n", "", "Network from drc.toml to use for the ledger allow-list")
	flags.String("rpc-url", "", "RPC endpoint, used when no network is given")
	flags.Uint64("chain-id", 0, "Expected chain ID of the RPC endpoint")
	flags.String("data-dir", "", "Directory for file-backed stores (default .drc)")
	flags.String("allowlist", "", "Allow-list contract address")
	flags.String("allowlist-backend", "", "Allow-list backend: memory, file or chain")
	flags.String("private-key", "", "Key that signs allow-list transactions")
	flags.String("registry-backend", "", "Registry backend: memory or file")
	flags.String("cooldown", "", "Challenger cooldown, e.g. 24h")
	flags.Int("retry-budget", 0, "Manifest fetch retries after the first attempt")
	flags.Duration("retry-backoff", 0, "Initial delay between manifest fetch attempts")
	flags.Duration("retry-max-backoff", 0, "Upper bound for the fetch backoff")
	flags.Duration("retry-deadline", 0, "Overall deadline for a manifest fetch")
	flags.String("manifest-scheme", "", "Scheme used to reach domains (http or https)")
	flags.String("manifest-path", "", "Manifest path on the domain")
	flags.Duration("manifest-timeout", 0, "Timeout of a single manifest request")
	flags.Duration("timeout", 0, "Overall command timeout")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{
		NewValidateCmd(),
		NewUpdateCmd(),
		NewShowCmd(),
		NewListCmd(),
	} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewAllowListCmd(),
		NewServeCmd(),
		NewJobCmd(),
	} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command and releases app resources even when the
// command fails
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	defer func() {
		// PersistentPostRun is skipped on error
		if rootCmd.PersistentPostRun != nil {
			rootCmd.PersistentPostRun(rootCmd, nil)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
