package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	keys := make([]string, 0, len(config.ValidConfigKeys()))
	for _, k := range config.ValidConfigKeys() {
		keys = append(keys, string(k))
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage local defaults in sai.local.toml",
		Long: `Show or change the defaults sai reads from sai.local.toml in the project
root. Values set there apply whenever the matching flag is not given.

Keys: ` + strings.Join(keys, ", ") + `

Examples:
  sai config
  sai config set profile sepolia
  sai config set rpc-url https://starknet-sepolia.public.blastapi.io
  sai config remove keystore`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}
			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.RenderConfig(cmd.OutOrStdout(), result)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a local default",
		Args:      cobra.ExactArgs(2),
		ValidArgs: keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{Key: args[0], Value: args[1]})
			if err != nil {
				return err
			}
			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.RenderConfigSet(cmd.OutOrStdout(), result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "remove <key>",
		Aliases:   []string{"rm", "unset"},
		Short:     "Remove a local default",
		Args:      cobra.ExactArgs(1),
		ValidArgs: keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{Key: args[0]})
			if err != nil {
				return err
			}
			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			return render.RenderConfigRemove(cmd.OutOrStdout(), result)
		},
	})

	return cmd
}
