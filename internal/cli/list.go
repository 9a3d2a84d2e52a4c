package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contracts and classes in the manifest",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.ListContracts.Run(cmd.Context(), usecase.ListContractsParams{Filter: filter})
			if err != nil {
				return err
			}
			return render.NewContractsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderList(result)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list tags containing this text")

	return cmd
}
