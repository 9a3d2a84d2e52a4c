package calldata

import (
	"fmt"
	"math/big"

	"github.com/mitchellh/mapstructure"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// opponentAttackSlots is the fixed attack count of an arcade opponent.
const opponentAttackSlots = 4

// Opponent parses {attributes, abilities, attacks} for the classic arcade.
// Attacks are padded with Id(0) up to four slots.
func Opponent(v any) (map[string]any, error) {
	m, err := asMap(v, "opponent")
	if err != nil {
		return nil, err
	}
	attributes, err := Attributes(m["attributes"])
	if err != nil {
		return nil, err
	}
	abilities, err := AbilityMods(m["abilities"])
	if err != nil {
		return nil, err
	}
	attacks, err := IdTagAttacks(m["attacks"])
	if err != nil {
		return nil, err
	}
	if len(attacks) > opponentAttackSlots {
		return nil, fmt.Errorf("opponent has %d attacks, at most %d allowed", len(attacks), opponentAttackSlots)
	}
	for len(attacks) < opponentAttackSlots {
		attacks = append(attacks, cairo.NewEnum("Id", new(big.Int)))
	}
	return map[string]any{"attributes": attributes, "abilities": abilities, "attacks": attacks}, nil
}

// OpponentsCall builds set_opponents from a list of opponents.
func OpponentsCall(tag string, v any) (domain.Call, error) {
	list, err := asList(v, "opponents")
	if err != nil {
		return domain.Call{}, err
	}
	opponents := make([]map[string]any, 0, len(list))
	for i, item := range list {
		o, err := Opponent(item)
		if err != nil {
			return domain.Call{}, withItem(err, "opponent %d", i)
		}
		opponents = append(opponents, o)
	}
	return domain.Call{
		Tag:         tag,
		Entrypoint:  "set_opponents",
		Args:        map[string]any{"opponents": opponents},
		Description: fmt.Sprintf("set %d arcade opponents", len(opponents)),
	}, nil
}

// ClassicArcadeCalls builds set_opponents, set_max_respawns and set_time_limit
// from {opponents, max_respawns, time_limit}.
func ClassicArcadeCalls(tag string, doc map[string]any) ([]domain.Call, error) {
	opponents, err := OpponentsCall(tag, doc["opponents"])
	if err != nil {
		return nil, err
	}
	respawns, err := U8.Parse(doc["max_respawns"], "Max Respawns")
	if err != nil {
		return nil, err
	}
	timeLimit, err := cairo.BigInt(doc["time_limit"])
	if err != nil {
		return nil, fmt.Errorf("time limit: %w", err)
	}
	return []domain.Call{
		opponents,
		{Tag: tag, Entrypoint: "set_max_respawns", Args: map[string]any{"max_respawns": respawns},
			Description: fmt.Sprintf("set max respawns %s", respawns)},
		{Tag: tag, Entrypoint: "set_time_limit", Args: map[string]any{"time_limit": timeLimit},
			Description: fmt.Sprintf("set time limit %s", timeLimit)},
	}, nil
}

// ArcadeConfig is the arcade-classic / arcade-amma document.
type ArcadeConfig struct {
	MaxRespawns        uint64 `mapstructure:"max_respawns"`
	TimeLimit          uint64 `mapstructure:"time_limit"`
	HealthRegenPercent uint64 `mapstructure:"health_regen_percent"`
	EnergyCost         uint64 `mapstructure:"energy_cost"`
	CreditCost         uint64 `mapstructure:"credit_cost"`
	GeneratedStages    uint64 `mapstructure:"generated_stages"`
}

// DecodeArcadeConfig reads an arcade document, accepting numbers written as
// strings.
func DecodeArcadeConfig(doc map[string]any) (ArcadeConfig, error) {
	var cfg ArcadeConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(doc); err != nil {
		return cfg, fmt.Errorf("arcade config: %w", err)
	}
	if cfg.HealthRegenPercent > 100 {
		return cfg, &domain.RangeError{
			Name:  "Health Regen Percent",
			Value: new(big.Int).SetUint64(cfg.HealthRegenPercent),
			Min:   big.NewInt(0), Max: big.NewInt(100),
		}
	}
	return cfg, nil
}

// ArcadeAddresses are the manifest contracts an arcade points at.
type ArcadeAddresses struct {
	VRF         string
	ArenaCredit string
	// CombatClass is set for the classic arcade only.
	CombatClass string
}

// ArcadeConfigCalls configures an arcade contract. Stage generation applies
// to the amma arcade, the combat class hash to the classic one.
func ArcadeConfigCalls(tag string, cfg ArcadeConfig, addrs ArcadeAddresses, amma bool) []domain.Call {
	u := func(n uint64) *big.Int { return new(big.Int).SetUint64(n) }
	calls := []domain.Call{
		{Tag: tag, Entrypoint: "set_max_respawns", Args: map[string]any{"max_respawns": u(cfg.MaxRespawns)},
			Description: fmt.Sprintf("%s: max respawns %d", tag, cfg.MaxRespawns)},
		{Tag: tag, Entrypoint: "set_time_limit", Args: map[string]any{"time_limit": u(cfg.TimeLimit)},
			Description: fmt.Sprintf("%s: time limit %d", tag, cfg.TimeLimit)},
		{Tag: tag, Entrypoint: "set_health_regen_percent", Args: map[string]any{"health_regen_percent": u(cfg.HealthRegenPercent)},
			Description: fmt.Sprintf("%s: health regen %d%%", tag, cfg.HealthRegenPercent)},
		{Tag: tag, Entrypoint: "set_cost", Args: map[string]any{"energy": u(cfg.EnergyCost), "credit": u(cfg.CreditCost)},
			Description: fmt.Sprintf("%s: cost %d energy, %d credit", tag, cfg.EnergyCost, cfg.CreditCost)},
		{Tag: tag, Entrypoint: "set_vrf_address", Args: map[string]any{"contract_address": addrs.VRF},
			Description: fmt.Sprintf("%s: vrf %s", tag, addrs.VRF)},
		{Tag: tag, Entrypoint: "set_credit_address", Args: map[string]any{"contract_address": addrs.ArenaCredit},
			Description: fmt.Sprintf("%s: credit %s", tag, addrs.ArenaCredit)},
	}
	if amma {
		calls = append(calls, domain.Call{
			Tag: tag, Entrypoint: "set_gen_stages", Args: map[string]any{"gen_stages": u(cfg.GeneratedStages)},
			Description: fmt.Sprintf("%s: generated stages %d", tag, cfg.GeneratedStages),
		})
	} else if addrs.CombatClass != "" {
		calls = append(calls, CombatClassCall(tag, addrs.CombatClass))
	}
	return calls
}

// CombatClassCall points a game contract (an arcade or pvp) at the combat
// class it library-calls.
func CombatClassCall(tag, classHash string) domain.Call {
	return domain.Call{
		Tag: tag, Entrypoint: "set_combat_class_hash", Args: map[string]any{"class_hash": classHash},
		Description: fmt.Sprintf("%s: combat class %s", tag, classHash),
	}
}

// ArenaCreditCalls builds set_max_energy from {max_energy}.
func ArenaCreditCalls(tag string, doc map[string]any) ([]domain.Call, error) {
	maxEnergy, err := cairo.BigInt(doc["max_energy"])
	if err != nil {
		return nil, fmt.Errorf("max energy: %w", err)
	}
	return []domain.Call{{
		Tag: tag, Entrypoint: "set_max_energy", Args: map[string]any{"max_energy": maxEnergy},
		Description: fmt.Sprintf("set max energy %s", maxEnergy),
	}}, nil
}

// ArenaTokenCalls builds set_min_mint_time and set_max_bloberts.
func ArenaTokenCalls(tag string, doc map[string]any) ([]domain.Call, error) {
	minMint, err := cairo.BigInt(doc["min_mint_time"])
	if err != nil {
		return nil, fmt.Errorf("min mint time: %w", err)
	}
	maxBloberts, err := cairo.BigInt(doc["max_bloberts"])
	if err != nil {
		return nil, fmt.Errorf("max bloberts: %w", err)
	}
	return []domain.Call{
		{Tag: tag, Entrypoint: "set_min_mint_time", Args: map[string]any{"min_mint_time": minMint},
			Description: fmt.Sprintf("set min mint time %s", minMint)},
		{Tag: tag, Entrypoint: "set_max_bloberts", Args: map[string]any{"max_bloberts": maxBloberts},
			Description: fmt.Sprintf("set max bloberts %s", maxBloberts)},
	}, nil
}
