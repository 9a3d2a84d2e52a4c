package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewBindgenCmd creates the bindgen command
func NewBindgenCmd() *cobra.Command {
	var (
		pkg    string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "bindgen <tag>",
		Short: "Generate Go bindings for a manifest contract",
		Long: `Render a Go file with one method per ABI function of the contract's
class, each returning a prepared call.

Examples:
  sai bindgen arena_credit
  sai bindgen combat --package game --output internal/game/combat.go --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.GenerateBindings.Run(cmd.Context(), usecase.GenerateBindingsParams{
				Tag:     args[0],
				Package: pkg,
				Output:  output,
				Force:   force,
			})
			if err != nil {
				return err
			}
			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Wrote %d functions to %s", result.Functions, result.Path)))
			return nil
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "bindings", "Package name of the generated file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: bindings/<tag>.go)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
