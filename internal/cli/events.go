package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewEventsCmd creates the events command
func NewEventsCmd() *cobra.Command {
	var (
		tags      []string
		world     string
		abiSource string
		fromBlock uint64
		toBlock   uint64
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List decoded dojo records emitted by the world",
		Long: `Fetch the world's EventEmitted and StoreSetRecord events for the given
dojo tags and decode them with the matching struct of a manifest ABI.

Examples:
  sai events --tag blob_arena-AttackResult
  sai events --tag blob_arena-Round --abi-source combat --from-block 1200000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			params := usecase.FetchEventsParams{
				Tags:      tags,
				World:     world,
				ABISource: abiSource,
			}
			if cmd.Flags().Changed("from-block") {
				params.FromBlock = &fromBlock
			}
			if cmd.Flags().Changed("to-block") {
				params.ToBlock = &toBlock
			}
			result, err := app.FetchEvents.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.RenderEvents(cmd.OutOrStdout(), result, app.Config.JSON)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Dojo tag (<namespace>-<Name>) to list, repeatable")
	cmd.Flags().StringVar(&world, "world", usecase.DefaultWorldTag, "Manifest tag of the world contract")
	cmd.Flags().StringVar(&abiSource, "abi-source", "", "Manifest contract whose ABI declares the records")
	cmd.Flags().Uint64Var(&fromBlock, "from-block", 0, "First block to read")
	cmd.Flags().Uint64Var(&toBlock, "to-block", 0, "Last block to read")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}
