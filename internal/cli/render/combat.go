package render

import (
	"fmt"
	"io"

	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// RenderCombat renders a played battle
func RenderCombat(out io.Writer, result *usecase.RunCombatResult, asJSON bool) error {
	if asJSON {
		return JSON(out, result)
	}
	for _, round := range result.Rounds {
		fmt.Fprintf(out, "Round %3d  %s vs %s\n", round.Number, functionStyle.Sprint(round.Attacks[0]), functionStyle.Sprint(round.Attacks[1]))
	}
	fmt.Fprintln(out, FormatSuccess(fmt.Sprintf("%d rounds, combat ended in phase %s", len(result.Rounds), result.FinalPhase)))
	return nil
}
