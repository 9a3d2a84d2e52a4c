package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/internal/calldata"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// DefaultMaxRounds bounds a battle when the caller sets no limit.
const DefaultMaxRounds = 100

// phaseCommit is the combat phase in which combatants commit attacks.
const phaseCommit = "Commit"

// Combatant is one side of a battle
type Combatant struct {
	// Player is a [players] name; empty uses the profile account.
	Player string
	ID     string
	// Attacks are the attack ids to pick from at random each round.
	Attacks []string
}

// RunCombatParams contains parameters for running a battle
type RunCombatParams struct {
	// Tag is the manifest tag of the game contract.
	Tag        string
	CombatID   string
	Combatants [2]Combatant
	MaxRounds  int
	// Relay submits every combatant call as an outside execution signed by
	// the combatant and sent by the Relayer account.
	Relay   bool
	Relayer string
}

// CombatRound is the record of one played round
type CombatRound struct {
	Number  int
	Attacks [2]string
}

// RunCombatResult contains the played rounds and the phase the battle
// ended in
type RunCombatResult struct {
	Rounds     []CombatRound
	FinalPhase string
}

// RunCombat plays commit/reveal rounds with random attacks until the combat
// leaves the commit phase.
type RunCombat struct {
	manifests ManifestStore
	resolver  *ContractResolver
	chain     ChainReader
	accounts  AccountProvider
	progress  ProgressSink
	log       *slog.Logger
}

// NewRunCombat creates a new RunCombat use case
func NewRunCombat(
	manifests ManifestStore,
	resolver *ContractResolver,
	chain ChainReader,
	accounts AccountProvider,
	progress ProgressSink,
	log *slog.Logger,
) *RunCombat {
	return &RunCombat{
		manifests: manifests,
		resolver:  resolver,
		chain:     chain,
		accounts:  accounts,
		progress:  progress,
		log:       log,
	}
}

type fighter struct {
	account Account
	// relayer submits the account's signed calls when set.
	relayer Account
	id      *felt.Felt
	attacks []*felt.Felt
}

// sender is the account whose transactions carry the fighter's calls.
func (f fighter) sender() Account {
	if f.relayer != nil {
		return f.relayer
	}
	return f.account
}

// Run plays the battle
func (uc *RunCombat) Run(ctx context.Context, params RunCombatParams) (*RunCombatResult, error) {
	combatID, err := cairo.ParseFelt(params.CombatID)
	if err != nil {
		return nil, fmt.Errorf("combat id: %w", err)
	}
	var relayer Account
	if params.Relay {
		if relayer, err = uc.accounts.Account(ctx, params.Relayer); err != nil {
			return nil, fmt.Errorf("relayer: %w", err)
		}
	}
	var fighters [2]fighter
	for i, c := range params.Combatants {
		if fighters[i], err = uc.fighter(ctx, c); err != nil {
			return nil, fmt.Errorf("combatant %d: %w", i+1, err)
		}
		fighters[i].relayer = relayer
	}
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	maxRounds := params.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	result := &RunCombatResult{}
	for n := 1; ; n++ {
		phase, err := uc.phase(ctx, m, params.Tag, combatID)
		if err != nil {
			return result, err
		}
		result.FinalPhase = phase
		if phase != phaseCommit {
			break
		}
		if n > maxRounds {
			return result, fmt.Errorf("combat %s still running after %d rounds", params.CombatID, maxRounds)
		}

		attacks := [2]*felt.Felt{pick(fighters[0].attacks), pick(fighters[1].attacks)}
		round := CombatRound{Number: n, Attacks: [2]string{cairo.Hex(attacks[0]), cairo.Hex(attacks[1])}}
		uc.progress.Info(fmt.Sprintf("Round %d Attacks: %s vs %s", n, round.Attacks[0], round.Attacks[1]))
		if err := uc.round(ctx, m, params.Tag, combatID, fighters, attacks); err != nil {
			return result, fmt.Errorf("round %d: %w", n, err)
		}
		result.Rounds = append(result.Rounds, round)
	}
	return result, saveIfChanged(ctx, uc.manifests, m)
}

func (uc *RunCombat) fighter(ctx context.Context, c Combatant) (fighter, error) {
	id, err := cairo.ParseFelt(c.ID)
	if err != nil {
		return fighter{}, fmt.Errorf("id: %w", err)
	}
	if len(c.Attacks) == 0 {
		return fighter{}, fmt.Errorf("%w: no attacks to choose from", domain.ErrInvalidConfig)
	}
	attacks, err := cairo.ParseFelts(c.Attacks)
	if err != nil {
		return fighter{}, fmt.Errorf("attacks: %w", err)
	}
	account, err := uc.accounts.Account(ctx, c.Player)
	if err != nil {
		return fighter{}, err
	}
	return fighter{account: account, id: id, attacks: attacks}, nil
}

func (uc *RunCombat) phase(ctx context.Context, m *models.Manifest, tag string, combatID *felt.Felt) (string, error) {
	value, _, err := callView(ctx, uc.chain, uc.resolver, m, tag, "combat_phase", []any{combatID})
	if err != nil {
		return "", err
	}
	phase, err := cairo.AsEnum(value)
	if err != nil {
		return "", fmt.Errorf("combat_phase: %w", err)
	}
	return phase.Variant, nil
}

// round commits, reveals and runs one round. When a reveal or the run fails
// to submit, the transactions it depends on are awaited and it is retried
// once.
func (uc *RunCombat) round(ctx context.Context, m *models.Manifest, tag string, combatID *felt.Felt, fighters [2]fighter, attacks [2]*felt.Felt) error {
	var salts, commits, reveals [2]*felt.Felt
	for i, f := range fighters {
		salt, err := calldata.RandomSalt(nil)
		if err != nil {
			return err
		}
		salts[i] = salt
		hash, err := uc.send(ctx, m, f, calldata.CommitCall(tag, f.id, calldata.Commitment(attacks[i], salt)))
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		commits[i] = hash
	}

	reveal := func() error {
		for i, f := range fighters {
			if reveals[i] != nil {
				continue
			}
			hash, err := uc.send(ctx, m, f, calldata.RevealCall(tag, f.id, attacks[i], salts[i]))
			if err != nil {
				return err
			}
			reveals[i] = hash
		}
		return nil
	}
	if err := reveal(); err != nil {
		uc.log.Debug("reveal failed, waiting for commits", "error", err)
		if err := uc.waitAll(ctx, fighters, commits); err != nil {
			return err
		}
		if err := reveal(); err != nil {
			return fmt.Errorf("reveal: %w", err)
		}
	}

	run := calldata.RunCall(tag, combatID)
	hash, err := uc.send(ctx, m, fighters[0], run)
	if err != nil {
		uc.log.Debug("run failed, waiting for reveals", "error", err)
		if err := uc.waitAll(ctx, fighters, reveals); err != nil {
			return err
		}
		if hash, err = uc.send(ctx, m, fighters[0], run); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return waitFor(ctx, fighters[0].sender(), hash)
}

func (uc *RunCombat) send(ctx context.Context, m *models.Manifest, f fighter, call domain.Call) (*felt.Felt, error) {
	encoded, err := uc.resolver.Encode(ctx, m, []domain.Call{call})
	if err != nil {
		return nil, err
	}
	calls, err := toStarknetCalls(encoded)
	if err != nil {
		return nil, err
	}
	if f.relayer != nil {
		outside, err := f.account.SignOutsideExecution(ctx, f.relayer.Address(), calls)
		if err != nil {
			return nil, err
		}
		calls = []starknet.Call{outside}
	}
	hash, err := f.sender().Execute(ctx, calls)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("sent", "call", call.String(), "hash", cairo.Hex(hash))
	return hash, nil
}

func (uc *RunCombat) waitAll(ctx context.Context, fighters [2]fighter, hashes [2]*felt.Felt) error {
	for i, f := range fighters {
		if hashes[i] == nil {
			continue
		}
		if err := waitFor(ctx, f.sender(), hashes[i]); err != nil {
			return err
		}
	}
	return nil
}

func pick(attacks []*felt.Felt) *felt.Felt {
	return attacks[rand.IntN(len(attacks))]
}
