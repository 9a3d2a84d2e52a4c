package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy [tag...]",
		Short: "Deploy contracts through the universal deployer",
		Long: `Deploy the contracts listed under [deploy] in sai_<profile>.toml in a
single multicall and record them in the manifest.

Contracts already deployed at their recorded address are skipped.

Examples:
  sai deploy
  sai deploy arena_classic arcade_amma
  sai deploy --dry-run --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.DeployContracts.Run(cmd.Context(), usecase.DeployContractsParams{Tags: args})
			if err != nil {
				return err
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderDeploy(result)
		},
	}
}

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict [tag...]",
		Short: "Compute deployment addresses without deploying",
		Long: `Compute the universal deployer address of [deploy] entries.

Entries without a fixed salt reuse the salt recorded in the manifest, or get
a fresh random one, so their prediction only holds for that salt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.PredictAddress.Run(cmd.Context(), usecase.PredictAddressParams{Tags: args})
			if err != nil {
				return err
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderPredict(result)
		},
	}
}
