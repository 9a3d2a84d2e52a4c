package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Declare, deploy and grant in one go",
		Long: `Run declare, deploy and grant for the whole profile.

A failing step stops the migration unless --keep-going is set, in which
case later steps still run and every failure is reported at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.Migrate.Run(cmd.Context())
			if result != nil {
				if rerr := render.NewTransactionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderMigrate(result); rerr != nil {
					return rerr
				}
			}
			return err
		},
	}
}
