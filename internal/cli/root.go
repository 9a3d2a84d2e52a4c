package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/adapters/progress"
	"github.com/grugslair/blob-arena-contracts/internal/app"
	"github.com/grugslair/blob-arena-contracts/internal/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// skipsApp lists commands that run without a project
var skipsApp = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:   "sai",
		Short: "Deploy and seed the Blob Arena Starknet contracts",
		Long: `sai declares, deploys and configures the Blob Arena Dojo contracts.

Each deployment profile reads sai_<profile>.toml and keeps what it learned
in manifest_<profile>.json next to Scarb.toml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp[cmd.Name()] {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				if projectRoot, err = config.FindProjectRoot(); err != nil {
					return err
				}
			}
			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewSpinnerProgressReporter()
			if v.GetBool("json") {
				sink = progress.NewNopSink()
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cancel != nil {
				cancel()
			}
			if a, err := getApp(cmd); err == nil {
				a.Close()
			}
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("profile", "dev", "Deployment profile (selects sai_<profile>.toml)")
	flags.StringP("password", "p", "", "Keystore password")
	flags.StringP("keystore", "k", "", "Path to a starkli keystore")
	flags.StringP("account-address", "A", "", "Account contract address")
	flags.StringP("rpc-url", "u", "", "Starknet JSON-RPC endpoint")
	flags.StringP("project-root", "d", "", "Directory holding Scarb.toml (default: search upwards)")
	flags.String("private-key", "", "Account private key")
	flags.String("manifest", "", "Manifest path (default: manifest_<profile>.json)")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("dry-run", false, "Print what would be sent without sending it")
	flags.Bool("keep-going", false, "Continue with later steps after a failure")
	flags.Duration("timeout", 0, "Abort after this long (default 5m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "deploy",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "game",
		Title: "Game Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	addToGroup(rootCmd, "deploy",
		NewDeclareCmd(),
		NewDeployCmd(),
		NewGrantCmd(),
		NewMigrateCmd(),
		NewPredictCmd(),
	)
	addToGroup(rootCmd, "game",
		NewSeedCmd(),
		NewExecuteCmd(),
		NewCombatCmd(),
	)
	addToGroup(rootCmd, "inspect",
		NewListCmd(),
		NewShowCmd(),
		NewCallCmd(),
		NewEventsCmd(),
		NewClassHashCmd(),
	)
	addToGroup(rootCmd, "management",
		NewBindgenCmd(),
		NewConfigCmd(),
	)
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok {
		return nil, fmt.Errorf("app not initialized")
	}
	return appInstance, nil
}
