package calldata

import (
	"fmt"
	"slices"
	"strings"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

var (
	signed100Affects = []string{
		"Strength", "Vitality", "Dexterity", "Luck",
		"BludgeonResistance", "MagicResistance", "PierceResistance", "Health",
	}
	i16Affects    = []string{"BludgeonVulnerability", "MagicVulnerability", "PierceVulnerability"}
	le100Affects  = []string{"Stun", "Block"}
	effectTargets = []string{"Attacker", "Defender"}
)

// Target parses an effect target.
func Target(v any) (cairo.Enum, error) {
	key, _, err := EnumObject(v)
	if err != nil {
		return cairo.Enum{}, fmt.Errorf("effect target: %w", err)
	}
	key = Pascal(key)
	if !slices.Contains(effectTargets, key) {
		return cairo.Enum{}, fmt.Errorf("unknown effect target: %s", key)
	}
	return cairo.Unit(key), nil
}

// Damage parses {power 1..100, critical 0..100, damage_type}.
func Damage(v any) (map[string]any, error) {
	m, err := asMap(v, "damage")
	if err != nil {
		return nil, err
	}
	power, err := Positive100.Parse(m["power"], "Power")
	if err != nil {
		return nil, err
	}
	critical, err := Percent.Parse(m["critical"], "Critical")
	if err != nil {
		return nil, err
	}
	damageType, err := MakeEnum(m["damage_type"], "None")
	if err != nil {
		return nil, fmt.Errorf("damage type: %w", err)
	}
	damageType.Variant = Pascal(damageType.Variant)
	return map[string]any{"power": power, "critical": critical, "damage_type": damageType}, nil
}

// Affect parses one affect, {Key: value} or a bare key.
func Affect(v any) (cairo.Enum, error) {
	key, payload, err := EnumObject(v)
	if err != nil {
		return cairo.Enum{}, fmt.Errorf("affect: %w", err)
	}
	key = Pascal(key)

	var value any
	switch {
	case slices.Contains(signed100Affects, key):
		value, err = Signed100NonZero.Parse(payload, key)
	case slices.Contains(i16Affects, key):
		value, err = I16NonZero.Parse(payload, key)
	case slices.Contains(le100Affects, key):
		value, err = Positive100.Parse(payload, key)
	case key == "Damage":
		value, err = Damage(payload)
	case key == "Abilities":
		value, err = AbilityMods(payload)
	case key == "Resistances":
		value, err = ResistanceMods(payload)
	case key == "Vulnerabilities":
		value, err = VulnerabilityMods(payload)
	default:
		return cairo.Enum{}, fmt.Errorf("unknown effect affect: %s", key)
	}
	if err != nil {
		return cairo.Enum{}, err
	}
	return cairo.NewEnum(key, value), nil
}

func effect(target, affect any) (map[string]any, error) {
	t, err := Target(target)
	if err != nil {
		return nil, err
	}
	a, err := Affect(affect)
	if err != nil {
		return nil, err
	}
	return map[string]any{"target": t, "affect": a}, nil
}

// targetEffects expands the affects written for one target. They may be a
// list of affects, {"affects": ...}, {"affect": ...} or an object whose
// non-target keys are affects.
func targetEffects(target, affects any) ([]map[string]any, error) {
	switch x := affects.(type) {
	case []any:
		out := make([]map[string]any, 0, len(x))
		for _, a := range x {
			e, err := effect(target, a)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case map[string]any:
		if inner, ok := x["affects"]; ok {
			return targetEffects(target, inner)
		}
		if inner, ok := x["affect"]; ok {
			e, err := effect(target, inner)
			if err != nil {
				return nil, err
			}
			return []map[string]any{e}, nil
		}
		var out []map[string]any
		for _, k := range sortedKeys(x) {
			if strings.EqualFold(k, "target") {
				continue
			}
			e, err := effect(target, map[string]any{k: x[k]})
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}
	return nil, fmt.Errorf("effects for %v: expected a list or object, got %T", target, affects)
}

// Effects parses an effect list: either a list of objects each naming its
// target, or an object keyed by target.
func Effects(v any) ([]map[string]any, error) {
	out := []map[string]any{}
	switch x := v.(type) {
	case nil:
		return out, nil
	case []any:
		for i, item := range x {
			m, err := asMap(item, fmt.Sprintf("effect %d", i))
			if err != nil {
				return nil, err
			}
			es, err := targetEffects(m["target"], m)
			if err != nil {
				return nil, err
			}
			out = append(out, es...)
		}
	case map[string]any:
		for _, target := range sortedKeys(x) {
			es, err := targetEffects(target, x[target])
			if err != nil {
				return nil, err
			}
			out = append(out, es...)
		}
	default:
		return nil, fmt.Errorf("effects: expected a list or object, got %T", v)
	}
	return out, nil
}
