package calldata

import (
	"fmt"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// OrbRarities are the action pools of an orb, lowest first.
var OrbRarities = []string{"common", "rare", "epic", "legendary"}

// OrbMinterCalls builds set_shards_in_orbs and set_charge from
// {shards_in_orbs, charge}.
func OrbMinterCalls(tag string, doc map[string]any) ([]domain.Call, error) {
	shards, err := asMap(doc["shards_in_orbs"], "shards in orbs")
	if err != nil {
		return nil, err
	}
	charge, err := cairo.BigInt(doc["charge"])
	if err != nil {
		return nil, fmt.Errorf("charge: %w", err)
	}
	return []domain.Call{
		{Tag: tag, Entrypoint: "set_shards_in_orbs", Args: shards,
			Description: fmt.Sprintf("set shards in %d orb rarities", len(shards))},
		{Tag: tag, Entrypoint: "set_charge", Args: map[string]any{"charge": charge},
			Description: fmt.Sprintf("set orb charge %s", charge)},
	}, nil
}

// OrbActions parses the <rarity>_actions lists, one slice per rarity.
func OrbActions(doc map[string]any) ([][]map[string]any, error) {
	out := make([][]map[string]any, len(OrbRarities))
	for i, rarity := range OrbRarities {
		items, err := asList(doc[rarity+"_actions"], rarity+" actions")
		if err != nil {
			return nil, err
		}
		out[i] = make([]map[string]any, 0, len(items))
		for _, item := range items {
			action, err := NewAttack(item)
			if err != nil {
				return nil, withItem(err, "%s action", rarity)
			}
			out[i] = append(out[i], action)
		}
	}
	return out, nil
}

// OrbActionCalls registers the actions the chain does not know yet and points
// each rarity pool at its action ids. checks is the decoded output of
// check_action_arrays: per rarity, one (id, is_new) pair per action.
func OrbActionCalls(actionTag, minterTag string, actions [][]map[string]any, checks any) ([]domain.Call, error) {
	pools, err := asList(checks, "action checks")
	if err != nil {
		return nil, err
	}
	if len(pools) != len(actions) {
		return nil, fmt.Errorf("action checks: expected %d pools, got %d", len(actions), len(pools))
	}

	var fresh []map[string]any
	calls := make([]domain.Call, 0, len(actions)+1)
	for i, pool := range pools {
		rarity := OrbRarities[i]
		pairs, err := asList(pool, rarity+" action checks")
		if err != nil {
			return nil, err
		}
		if len(pairs) != len(actions[i]) {
			return nil, fmt.Errorf("%s action checks: expected %d, got %d", rarity, len(actions[i]), len(pairs))
		}
		ids := make([]any, 0, len(pairs))
		for j, p := range pairs {
			pair, err := asList(p, rarity+" action check")
			if err != nil {
				return nil, err
			}
			if len(pair) != 2 {
				return nil, fmt.Errorf("%s action check %d: expected (id, is_new)", rarity, j)
			}
			ids = append(ids, pair[0])
			if isNew, _ := pair[1].(bool); isNew {
				fresh = append(fresh, actions[i][j])
			}
		}
		calls = append(calls, domain.Call{
			Tag:         minterTag,
			Entrypoint:  fmt.Sprintf("set_%s_actions", rarity),
			Args:        map[string]any{"actions": ids},
			Description: fmt.Sprintf("set %d %s orb actions", len(ids), rarity),
		})
	}

	create := domain.Call{
		Tag:         actionTag,
		Entrypoint:  "create_actions",
		Args:        map[string]any{"actions": fresh},
		Description: fmt.Sprintf("create %d actions", len(fresh)),
	}
	return append([]domain.Call{create}, calls...), nil
}

// OrbRoleCalls lets the minter mint orbs and every consumer spend them.
func OrbRoleCalls(tag, minter string, consumers []string) []domain.Call {
	calls := []domain.Call{{
		Tag: tag, Entrypoint: "grant_role",
		Args:        map[string]any{"user": minter, "role": cairo.Unit("Minter")},
		Description: "orb minter: " + minter,
	}}
	for _, c := range consumers {
		calls = append(calls, domain.Call{
			Tag: tag, Entrypoint: "grant_role",
			Args:        map[string]any{"user": c, "role": cairo.Unit("Consumer")},
			Description: "orb consumer: " + c,
		})
	}
	return calls
}
