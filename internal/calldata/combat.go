package calldata

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
)

// saltBytes keeps a random salt below the field modulus.
const saltBytes = 31

// RandomSalt reads a 31-byte salt from r, or crypto/rand when r is nil.
func RandomSalt(r io.Reader) (*felt.Felt, error) {
	if r == nil {
		r = rand.Reader
	}
	var b [saltBytes]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	return new(felt.Felt).SetBytes(b[:]), nil
}

// Commitment is the hash a combatant commits before revealing attack.
func Commitment(attack, salt *felt.Felt) *felt.Felt {
	return crypto.PoseidonArray(attack, salt)
}

func CommitCall(tag string, combatant, hash *felt.Felt) domain.Call {
	return domain.Call{
		Tag:         tag,
		Entrypoint:  "commit",
		Args:        map[string]any{"combatant_id": combatant, "hash": hash},
		Description: fmt.Sprintf("commit %s", combatant),
	}
}

func RevealCall(tag string, combatant, attack, salt *felt.Felt) domain.Call {
	return domain.Call{
		Tag:         tag,
		Entrypoint:  "reveal",
		Args:        map[string]any{"combatant_id": combatant, "attack": attack, "salt": salt},
		Description: fmt.Sprintf("reveal %s", combatant),
	}
}

func RunCall(tag string, combat *felt.Felt) domain.Call {
	return domain.Call{
		Tag:         tag,
		Entrypoint:  "run",
		Args:        map[string]any{"combat_id": combat},
		Description: fmt.Sprintf("run round of %s", combat),
	}
}
