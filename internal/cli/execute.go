package cli

import (
	"github.com/spf13/cobra"

	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var (
		withReturn bool
		account    string
	)

	cmd := &cobra.Command{
		Use:   "execute <tag> <entrypoint> [args...]",
		Short: "Send a transaction calling a manifest contract",
		Long: `Encode the arguments against the contract ABI and send the call.

Arguments are either one JSON object keyed by input name, one JSON array,
or a list of literals in input order.

Examples:
  sai execute arena_credit mint '{"to": "0x123", "amount": 100}'
  sai execute classic_arcade set_max_respawns 3 --with-return
  sai execute combat commit 0x1 0xabc --account alice`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			callArgs, err := parseCallArgs(args[2:])
			if err != nil {
				return err
			}
			params := usecase.ExecuteCallsParams{
				Calls:      []domain.Call{{Tag: args[0], Entrypoint: args[1], Args: callArgs}},
				WithReturn: withReturn,
				Account:    account,
			}
			result, err := app.ExecuteCalls.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderExecution(result)
		},
	}

	cmd.Flags().BoolVar(&withReturn, "with-return", false, "Print values returned through return events")
	cmd.Flags().StringVar(&account, "account", "", "Send from this [players] account")

	return cmd
}

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tag> <entrypoint> [args...]",
		Short: "Call a view function and decode the result",
		Long: `Call an entrypoint without a transaction and decode its output
against the contract ABI.

Examples:
  sai call arena_credit balance_of 0x123
  sai call combat combat_phase '[1]' --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			callArgs, err := parseCallArgs(args[2:])
			if err != nil {
				return err
			}
			result, err := app.CallView.Run(cmd.Context(), usecase.CallViewParams{
				Tag:        args[0],
				Entrypoint: args[1],
				Args:       callArgs,
			})
			if err != nil {
				return err
			}
			return render.NewContractsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderCall(result)
		},
	}
}
