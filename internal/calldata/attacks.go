package calldata

import (
	"fmt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// NewAttack parses {name, speed, chance, cooldown, success, fail}.
func NewAttack(v any) (map[string]any, error) {
	m, err := asMap(v, "attack")
	if err != nil {
		return nil, err
	}
	name, _ := m["name"].(string)

	out, err := func() (map[string]any, error) {
		speed, err := U16.Parse(m["speed"], "Speed")
		if err != nil {
			return nil, err
		}
		chance, err := Positive100.Parse(m["chance"], "Chance")
		if err != nil {
			return nil, err
		}
		cooldown, err := U8.Parse(m["cooldown"], "Cooldown")
		if err != nil {
			return nil, err
		}
		success, err := Effects(m["success"])
		if err != nil {
			return nil, fmt.Errorf("success: %w", err)
		}
		fail, err := Effects(m["fail"])
		if err != nil {
			return nil, fmt.Errorf("fail: %w", err)
		}
		return map[string]any{
			"name":     name,
			"speed":    speed,
			"chance":   chance,
			"cooldown": cooldown,
			"success":  success,
			"fail":     fail,
		}, nil
	}()
	return out, withItem(err, "attack %q", name)
}

// IdTagAttack parses a reference to an attack: {tag} for a named attack,
// {id} for an existing one, {attack} or an inline attack for a new one.
func IdTagAttack(v any) (cairo.Enum, error) {
	m, err := asMap(v, "attack")
	if err != nil {
		return cairo.Enum{}, err
	}
	if tag, ok := m["tag"].(string); ok {
		return cairo.NewEnum("Tag", tag), nil
	}
	if id, ok := m["id"]; ok && id != nil {
		n, err := cairo.BigInt(id)
		if err != nil {
			return cairo.Enum{}, fmt.Errorf("attack id: %w", err)
		}
		return cairo.NewEnum("Id", n), nil
	}
	if inner, ok := m["attack"]; ok && inner != nil {
		v = inner
	}
	attack, err := NewAttack(v)
	if err != nil {
		return cairo.Enum{}, err
	}
	return cairo.NewEnum("Attack", attack), nil
}

// IdTagAttacks parses a list of attack references.
func IdTagAttacks(v any) ([]cairo.Enum, error) {
	items, err := asList(v, "attacks")
	if err != nil {
		return nil, err
	}
	out := make([]cairo.Enum, 0, len(items))
	for _, item := range items {
		e, err := IdTagAttack(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
