package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewClassHashCmd creates the class-hash command
func NewClassHashCmd() *cobra.Command {
	var casm string

	cmd := &cobra.Command{
		Use:   "class-hash <sierra.json>",
		Short: "Compute the class hash of a compiled class",
		Long: `Compute the class hash of a Sierra contract class, and the compiled
class hash of its CASM when one sits next to it or is given with --casm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.ComputeClassHash.Run(cmd.Context(), usecase.ComputeClassHashParams{
				SierraPath: args[0],
				CasmPath:   casm,
			})
			if err != nil {
				return err
			}
			return render.NewContractsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderClassHash(result)
		},
	}

	cmd.Flags().StringVar(&casm, "casm", "", "Path of the compiled CASM class")

	return cmd
}
