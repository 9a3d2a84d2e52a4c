package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var withABI bool

	cmd := &cobra.Command{
		Use:   "show [tag]",
		Short: "Show a manifest contract",
		Long: `Show the address, class and deployment record of a contract.

Without a tag an interactive fuzzy picker lists the manifest contracts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			params := usecase.ShowContractParams{WithABI: withABI}
			if len(args) == 1 {
				params.Tag = args[0]
			}
			result, err := app.ShowContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewContractsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderShow(result)
		},
	}

	cmd.Flags().BoolVar(&withABI, "abi", false, "List the functions of the contract ABI")

	return cmd
}
