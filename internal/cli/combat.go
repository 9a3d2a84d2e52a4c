package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewCombatCmd creates the combat command group
func NewCombatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combat",
		Short: "Play test battles against a deployed game contract",
	}
	cmd.AddCommand(newCombatRunCmd())
	return cmd
}

func newCombatRunCmd() *cobra.Command {
	var (
		tag       string
		maxRounds int
		sides     [2]usecase.Combatant
		relayer   string
	)

	cmd := &cobra.Command{
		Use:   "run <combat-id>",
		Short: "Commit, reveal and run rounds until the combat ends",
		Long: `Play a combat between two combatants, each controlled by a [players]
account, picking a random attack every round until the combat leaves the
Commit phase.

Examples:
  sai combat run 0x12 --tag classic_arcade \
    --player1 alice --id1 0x1 --attacks1 0xa1,0xa2 \
    --player2 bob --id2 0x2 --attacks2 0xb1

  # players sign, the profile account submits (execute_from_outside_v2)
  sai combat run 0x12 --relayer profile \
    --player1 alice --id1 0x1 --attacks1 0xa1 \
    --player2 bob --id2 0x2 --attacks2 0xb1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			result, err := app.RunCombat.Run(cmd.Context(), usecase.RunCombatParams{
				Tag:        tag,
				CombatID:   args[0],
				Combatants: sides,
				MaxRounds:  maxRounds,
				Relay:      relayer != "",
				Relayer:    relayerName(relayer),
			})
			if result == nil || (err != nil && len(result.Rounds) == 0) {
				return err
			}
			if rerr := render.RenderCombat(cmd.OutOrStdout(), result, app.Config.JSON); rerr != nil {
				return rerr
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&tag, "tag", "combat", "Manifest tag of the game contract")
	f.IntVar(&maxRounds, "max-rounds", usecase.DefaultMaxRounds, "Give up after this many rounds")
	f.StringVar(&relayer, "relayer", "", `Submit combatant calls as outside executions from this [players] account ("profile" for the profile account)`)
	f.StringVar(&sides[0].Player, "player1", "", "[players] account of the first combatant (default: profile account)")
	f.StringVar(&sides[0].ID, "id1", "", "Combatant id of the first combatant")
	f.StringSliceVar(&sides[0].Attacks, "attacks1", nil, "Attack ids the first combatant picks from")
	f.StringVar(&sides[1].Player, "player2", "", "[players] account of the second combatant (default: profile account)")
	f.StringVar(&sides[1].ID, "id2", "", "Combatant id of the second combatant")
	f.StringSliceVar(&sides[1].Attacks, "attacks2", nil, "Attack ids the second combatant picks from")
	for _, name := range []string{"id1", "id2", "attacks1", "attacks2"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// relayerName maps the "profile" alias to the profile account.
func relayerName(flag string) string {
	if flag == "profile" {
		return ""
	}
	return flag
}
