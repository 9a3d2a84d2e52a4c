package calldata

import (
	"fmt"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// Collections maps a collection name used in documents to its address.
type Collections map[string]string

func (c Collections) address(name any) (string, error) {
	s, _ := name.(string)
	addr, ok := c[s]
	if !ok {
		return "", fmt.Errorf("unknown collection %v", name)
	}
	return addr, nil
}

func (c Collections) addresses(v any) ([]string, error) {
	if v == nil {
		return []string{}, nil
	}
	names, err := stringList(v)
	if err != nil {
		return nil, fmt.Errorf("collections allowed: %w", err)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		addr, err := c.address(n)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// ArcadeOpponent parses {name, collection, attributes, stats, attacks}.
func ArcadeOpponent(v any, collections Collections) (map[string]any, error) {
	m, err := asMap(v, "opponent")
	if err != nil {
		return nil, err
	}
	name, _ := m["name"].(string)
	collection, err := collections.address(m["collection"])
	if err != nil {
		return nil, withItem(err, "opponent %q", name)
	}
	attributes, err := MakeEnum(m["attributes"], "")
	if err != nil {
		return nil, withItem(err, "opponent %q attributes", name)
	}
	attacks, err := IdTagAttacks(m["attacks"])
	if err != nil {
		return nil, withItem(err, "opponent %q", name)
	}
	return map[string]any{
		"name":       name,
		"collection": collection,
		"attributes": attributes,
		"stats":      m["stats"],
		"attacks":    attacks,
	}, nil
}

// ChallengeOpponent reads {tag}, {id}, {new} or an inline opponent.
func ChallengeOpponent(v any, collections Collections) (cairo.Enum, error) {
	m, err := asMap(v, "opponent")
	if err != nil {
		return cairo.Enum{}, err
	}
	if tag, ok := m["tag"].(string); ok {
		return cairo.NewEnum("Tag", tag), nil
	}
	if id, ok := m["id"]; ok && id != nil {
		n, err := cairo.BigInt(id)
		if err != nil {
			return cairo.Enum{}, fmt.Errorf("opponent id: %w", err)
		}
		return cairo.NewEnum("Id", n), nil
	}
	if inner, ok := m["new"]; ok && inner != nil {
		return cairo.NewEnum("New", inner), nil
	}
	opponent, err := ArcadeOpponent(m, collections)
	if err != nil {
		return cairo.Enum{}, err
	}
	return cairo.NewEnum("New", opponent), nil
}

// ArcadeChallengeCalls builds one new_opponent per opponent and one
// new_challenge per challenge from {opponents, challenges}.
func ArcadeChallengeCalls(tag string, doc map[string]any, collections Collections) ([]domain.Call, error) {
	opponents, err := asList(doc["opponents"], "opponents")
	if err != nil {
		return nil, err
	}
	challenges, err := asList(doc["challenges"], "challenges")
	if err != nil {
		return nil, err
	}

	calls := make([]domain.Call, 0, len(opponents)+len(challenges))
	for _, item := range opponents {
		o, err := ArcadeOpponent(item, collections)
		if err != nil {
			return nil, err
		}
		calls = append(calls, domain.Call{
			Tag: tag, Entrypoint: "new_opponent", Args: o,
			Description: fmt.Sprintf("arcade opponent: %s", o["name"]),
		})
	}
	for i, item := range challenges {
		c, err := asMap(item, "challenge")
		if err != nil {
			return nil, withItem(err, "challenge %d", i)
		}
		name, _ := c["name"].(string)
		recovery, err := Percent.Parse(c["health_recovery"], "Health Recovery")
		if err != nil {
			return nil, withItem(err, "challenge %q", name)
		}
		list, err := asList(c["opponents"], "opponents")
		if err != nil {
			return nil, withItem(err, "challenge %q", name)
		}
		opponents := make([]cairo.Enum, 0, len(list))
		for _, o := range list {
			e, err := ChallengeOpponent(o, collections)
			if err != nil {
				return nil, withItem(err, "challenge %q", name)
			}
			opponents = append(opponents, e)
		}
		allowed, err := collections.addresses(c["collections_allowed"])
		if err != nil {
			return nil, withItem(err, "challenge %q", name)
		}
		calls = append(calls, domain.Call{
			Tag:        tag,
			Entrypoint: "new_challenge",
			Args: map[string]any{
				"name":                name,
				"health_recovery_pc":  recovery,
				"opponents":           opponents,
				"collections_allowed": allowed,
			},
			Description: fmt.Sprintf("arcade challenge: %s", name),
		})
	}
	return calls, nil
}
