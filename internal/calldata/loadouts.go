package calldata

import (
	"fmt"
	"math/big"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// ClassicTraits are the blobert trait slots, in submission order.
var ClassicTraits = []string{"armour", "background", "jewelry", "mask", "weapon"}

// ClassicLoadouts parses {trait: {index: item}} into set_loadouts entries.
func ClassicLoadouts(doc map[string]any) ([]map[string]any, error) {
	var loadouts []map[string]any
	for _, trait := range ClassicTraits {
		items, err := asMap(doc[trait], trait)
		if err != nil {
			return nil, err
		}
		for _, n := range indexedKeys(items) {
			item, err := asMap(items[n], fmt.Sprintf("%s %s", trait, n))
			if err != nil {
				return nil, err
			}
			name, _ := item["name"].(string)
			loadout, err := classicLoadout(trait, n, item)
			if err != nil {
				return nil, withItem(err, "item %s %s, %s", trait, n, name)
			}
			loadouts = append(loadouts, loadout)
		}
	}
	return loadouts, nil
}

func classicLoadout(trait, n string, item map[string]any) (map[string]any, error) {
	index, err := cairo.BigInt(n)
	if err != nil {
		return nil, err
	}
	attributes, err := PartialAttributes(item["attributes"])
	if err != nil {
		return nil, err
	}
	attacks, err := IdTagAttacks(item["attacks"])
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"blobert_trait": cairo.Unit(Pascal(trait)),
		"index":         index,
		"name":          item["name"],
		"attributes":    attributes,
		"attacks":       attacks,
	}, nil
}

// ClassicLoadoutCalls builds the single set_loadouts call.
func ClassicLoadoutCalls(tag string, doc map[string]any) ([]domain.Call, error) {
	loadouts, err := ClassicLoadouts(doc)
	if err != nil {
		return nil, err
	}
	return []domain.Call{{
		Tag:         tag,
		Entrypoint:  "set_loadouts",
		Args:        map[string]any{"loadouts": loadouts},
		Description: fmt.Sprintf("set %d classic loadouts", len(loadouts)),
	}}, nil
}

// AmmaFighters parses {fighter: {abilities, attacks}} into set_fighters entries.
func AmmaFighters(doc map[string]any) ([]map[string]any, error) {
	fighters := make([]map[string]any, 0, len(doc))
	for _, n := range indexedKeys(doc) {
		data, err := asMap(doc[n], "fighter "+n)
		if err != nil {
			return nil, err
		}
		fighter, err := func() (map[string]any, error) {
			id, err := cairo.BigInt(n)
			if err != nil {
				return nil, err
			}
			attributes, err := Attributes(data["abilities"])
			if err != nil {
				return nil, err
			}
			attacks, err := IdTagAttacks(data["attacks"])
			if err != nil {
				return nil, err
			}
			return map[string]any{"fighter": id, "attributes": attributes, "attacks": attacks}, nil
		}()
		if err != nil {
			return nil, withItem(err, "fighter %s", n)
		}
		fighters = append(fighters, fighter)
	}
	return fighters, nil
}

// AmmaLoadoutCalls builds set_fighters followed by set_fighter_count.
func AmmaLoadoutCalls(tag string, doc map[string]any) ([]domain.Call, error) {
	fighters, err := AmmaFighters(doc)
	if err != nil {
		return nil, err
	}
	count := big.NewInt(int64(len(fighters)))
	return []domain.Call{
		{
			Tag:         tag,
			Entrypoint:  "set_fighters",
			Args:        map[string]any{"fighters": fighters},
			Description: fmt.Sprintf("set %d amma fighters", len(fighters)),
		},
		{
			Tag:         tag,
			Entrypoint:  "set_fighter_count",
			Args:        map[string]any{"count": count},
			Description: fmt.Sprintf("set amma fighter count %s", count),
		},
	}, nil
}
