package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewDeclareCmd creates the declare command
func NewDeclareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "declare [tag...]",
		Short: "Declare the profile's contract classes",
		Long: `Declare the classes listed under [declare] in sai_<profile>.toml.

Classes whose hash is already declared on chain are skipped. With no tags
every class of the profile is declared.

Examples:
  sai declare
  sai declare arena_classic --profile sepolia
  sai declare --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.DeclareClasses.Run(cmd.Context(), usecase.DeclareClassesParams{Tags: args})
			if err != nil {
				return err
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderDeclare(result)
		},
	}
}
