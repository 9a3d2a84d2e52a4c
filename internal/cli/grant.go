package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
)

// NewGrantCmd creates the grant command
func NewGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant",
		Short: "Grant the roles and writers listed in the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.GrantPermissions.Run(cmd.Context())
			if err != nil {
				return err
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderGrant(result)
		},
	}
}
