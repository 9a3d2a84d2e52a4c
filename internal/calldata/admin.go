package calldata

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// RoleCalls grants every listed user its role: one set_multiple_has_role per
// role, in name order.
func RoleCalls(tag string, roles map[string]any) ([]domain.Call, error) {
	calls := make([]domain.Call, 0, len(roles))
	for _, role := range sortedKeys(roles) {
		users, err := stringList(roles[role])
		if err != nil {
			return nil, withItem(err, "role %s", role)
		}
		calls = append(calls, domain.Call{
			Tag:        tag,
			Entrypoint: "set_multiple_has_role",
			Args: map[string]any{
				"users": users,
				"role":  cairo.Unit(Pascal(role)),
				"has":   true,
			},
			Description: "role: " + role,
		})
	}
	return calls, nil
}

// Grant is the kind of world permission a call hands out.
type Grant string

const (
	GrantWriter Grant = "writer"
	GrantOwner  Grant = "owner"
)

// PermissionCalls turns a {contract tag: grantee | [grantees]} table into
// grant_contract_<kind>(s) calls on each contract. A single grantee uses the
// singular entrypoint, a list the plural one.
func PermissionCalls(kind Grant, table map[string]any) ([]domain.Call, error) {
	calls := make([]domain.Call, 0, len(table))
	for _, resource := range sortedKeys(table) {
		var call domain.Call
		switch v := table[resource].(type) {
		case string:
			call = domain.Call{
				Entrypoint: fmt.Sprintf("grant_contract_%s", kind),
				Args:       map[string]any{string(kind): v},
			}
		default:
			grantees, err := stringList(v)
			if err != nil {
				return nil, withItem(err, "%s %s", kind, resource)
			}
			call = domain.Call{
				Entrypoint: fmt.Sprintf("grant_contract_%ss", kind),
				Args:       map[string]any{string(kind) + "s": grantees},
			}
		}
		call.Tag = resource
		call.Description = fmt.Sprintf("%s: %s", kind, resource)
		calls = append(calls, call)
	}
	return calls, nil
}

// UnlockSalt is mixed into every unlock code.
const UnlockSalt = "salt from mediterranean"

// UnlockCode hashes a game password the way the arcade contract checks it:
// poseidon over the salt short string followed by the password byte array.
func UnlockCode(password string) *felt.Felt {
	elems := append([]*felt.Felt{cairo.MustShortString(UnlockSalt)}, cairo.ByteArrayFromString(password).Felts()...)
	return crypto.PoseidonArray(elems...)
}

// UnlockCodeCalls registers a password that unlocks amount free games.
func UnlockCodeCalls(tag, password string, amount uint64) []domain.Call {
	return []domain.Call{{
		Tag:        tag,
		Entrypoint: "set_unlockable_games",
		Args: map[string]any{
			"code":   UnlockCode(password),
			"amount": new(big.Int).SetUint64(amount),
		},
		Description: "Password deployed: " + password,
	}}
}

func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case string:
		return []string{x}, nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a string or list of strings, got %T", v)
}
