package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var (
		unlockPassword string
		unlockAmount   uint64
	)

	targets := append(lo.Map(usecase.SeedTargets, func(t usecase.SeedTarget, _ int) string {
		return string(t)
	}), string(usecase.SeedUnlockCode), string(usecase.SeedAll))

	cmd := &cobra.Command{
		Use:   "seed <target>...",
		Short: "Write game data from the configuration documents",
		Long: fmt.Sprintf(`Turn the documents under post-deploy-config/ into contract calls and
execute them in batches.

Targets: %s

"all" runs every target except unlock-code, which needs --unlock-password.

Examples:
  sai seed all
  sai seed loadouts-classic arcade-amma --dry-run
  sai seed orbs achievements
  sai seed unlock-code --unlock-password hunter2 --unlock-amount 10`, strings.Join(targets, ", ")),
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: targets,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if !lo.Contains(targets, arg) {
					return fmt.Errorf("unknown seed target %q (available: %s)", arg, strings.Join(targets, ", "))
				}
			}
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			params := usecase.SeedGameDataParams{
				Targets: lo.Map(args, func(a string, _ int) usecase.SeedTarget {
					return usecase.SeedTarget(a)
				}),
				UnlockPassword: unlockPassword,
				UnlockAmount:   unlockAmount,
			}
			result, err := app.SeedGameData.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderSeed(result)
		},
	}

	cmd.Flags().StringVar(&unlockPassword, "unlock-password", "", "Password of the unlock code")
	cmd.Flags().Uint64Var(&unlockAmount, "unlock-amount", 1, "Number of unlocks the code grants")

	return cmd
}
