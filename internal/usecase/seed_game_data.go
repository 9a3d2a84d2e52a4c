package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/grugslair/blob-arena-contracts/internal/calldata"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
)

// SeedTarget names a group of game data written after deployment
type SeedTarget string

const (
	SeedLoadoutsClassic SeedTarget = "loadouts-classic"
	SeedLoadoutsAmma    SeedTarget = "loadouts-amma"
	SeedClassicArcade   SeedTarget = "classic-arcade"
	SeedArcadeClassic   SeedTarget = "arcade-classic"
	SeedArcadeAmma      SeedTarget = "arcade-amma"
	SeedArenaToken      SeedTarget = "arena-token"
	SeedArenaCredit     SeedTarget = "arena-credit"
	SeedPvp             SeedTarget = "pvp"
	SeedOrbs            SeedTarget = "orbs"
	SeedAchievements    SeedTarget = "achievements"
	SeedChallenges      SeedTarget = "arcade-challenges"
	SeedRoles           SeedTarget = "roles"
	SeedUnlockCode      SeedTarget = "unlock-code"

	// SeedAll expands to every target except unlock-code.
	SeedAll SeedTarget = "all"
)

// SeedTargets lists the targets in the order "all" runs them.
var SeedTargets = []SeedTarget{
	SeedRoles,
	SeedLoadoutsClassic,
	SeedLoadoutsAmma,
	SeedClassicArcade,
	SeedArcadeClassic,
	SeedArcadeAmma,
	SeedArenaToken,
	SeedArenaCredit,
	SeedPvp,
	SeedOrbs,
	SeedAchievements,
	SeedChallenges,
}

// defaultSeedTags are the manifest tags each target (and each referenced
// contract or class) resolves to unless [seed.tags] overrides them.
var defaultSeedTags = map[string]string{
	string(SeedLoadoutsClassic): "loadout_classic",
	string(SeedLoadoutsAmma):    "loadout_amma",
	string(SeedClassicArcade):   "classic_arcade",
	string(SeedArcadeClassic):   "arcade_classic",
	string(SeedArcadeAmma):      "arcade_amma",
	string(SeedArenaToken):      "arena_blobert_minter",
	string(SeedArenaCredit):     "arena_credit",
	string(SeedPvp):             "pvp",
	string(SeedOrbs):            "orb_minter",
	string(SeedAchievements):    "blob_arena-game_admin",
	string(SeedChallenges):      "pve_blobert-pve_blobert_admin_actions",
	string(SeedRoles):           "blob_arena-game_admin",
	string(SeedUnlockCode):      "arcade_classic",
	"vrf":                       "vrf",
	"arena_credit":              "arena_credit",
	"combat":                    "combat",
	"orb":                       "orb",
	"action":                    "action",
	"blobert":                   "blobert-blobert_actions",
	"free_blobert":              "free_blobert-free_blobert_actions",
}

// SeedGameDataParams contains parameters for seeding game data
type SeedGameDataParams struct {
	Targets []SeedTarget
	// UnlockPassword and UnlockAmount feed the unlock-code target.
	UnlockPassword string
	UnlockAmount   uint64
}

// SeedGameDataResult contains the result of seeding
type SeedGameDataResult struct {
	Calls     []domain.Call
	Execution *ExecuteCallsResult
}

// SeedGameData turns configuration documents into contract calls and
// executes them in batches.
type SeedGameData struct {
	config    *config.RuntimeConfig
	manifests ManifestStore
	documents DocumentLoader
	view      *CallView
	execute   *ExecuteCalls
	progress  ProgressSink
}

// NewSeedGameData creates a new SeedGameData use case
func NewSeedGameData(
	cfg *config.RuntimeConfig,
	manifests ManifestStore,
	documents DocumentLoader,
	view *CallView,
	execute *ExecuteCalls,
	progress ProgressSink,
) *SeedGameData {
	return &SeedGameData{
		config:    cfg,
		manifests: manifests,
		documents: documents,
		view:      view,
		execute:   execute,
		progress:  progress,
	}
}

// Run builds and executes the calls of every target
func (uc *SeedGameData) Run(ctx context.Context, params SeedGameDataParams) (*SeedGameDataResult, error) {
	targets, err := expandTargets(params.Targets)
	if err != nil {
		return nil, err
	}
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	result := &SeedGameDataResult{}
	for i, target := range targets {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "building",
			Current: i + 1,
			Total:   len(targets),
			Message: fmt.Sprintf("Building %s calls", target),
			Spinner: true,
		})
		calls, err := uc.build(ctx, m, target, params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", target, err)
		}
		result.Calls = append(result.Calls, calls...)
	}
	if err := saveIfChanged(ctx, uc.manifests, m); err != nil {
		return nil, err
	}

	batch := uc.config.ProfileConfig.Seed.BatchSize
	if batch <= 0 {
		batch = config.DefaultBatchSize
	}
	result.Execution, err = uc.execute.Run(ctx, ExecuteCallsParams{Calls: result.Calls, BatchSize: batch})
	return result, err
}

func (uc *SeedGameData) build(ctx context.Context, m *models.Manifest, target SeedTarget, params SeedGameDataParams) ([]domain.Call, error) {
	tag := uc.tag(string(target))
	switch target {
	case SeedUnlockCode:
		if params.UnlockPassword == "" {
			return nil, fmt.Errorf("%w: an unlock password is required", domain.ErrInvalidConfig)
		}
		amount := params.UnlockAmount
		if amount == 0 {
			amount = uc.config.ProfileConfig.Seed.UnlockAmount
		}
		return calldata.UnlockCodeCalls(tag, params.UnlockPassword, amount), nil
	case SeedRoles:
		doc, err := uc.documents.LoadDocument(ctx, string(target))
		if err != nil {
			return nil, err
		}
		roles, _ := doc[uc.config.Profile].(map[string]any)
		return calldata.RoleCalls(tag, roles)
	case SeedPvp:
		combat, err := m.Class(uc.tag("combat"))
		if err != nil {
			return nil, err
		}
		return []domain.Call{calldata.CombatClassCall(tag, combat.ClassHash)}, nil
	}

	doc, err := uc.documents.LoadDocument(ctx, string(target))
	if err != nil {
		return nil, err
	}
	switch target {
	case SeedLoadoutsClassic:
		return calldata.ClassicLoadoutCalls(tag, doc)
	case SeedLoadoutsAmma:
		return calldata.AmmaLoadoutCalls(tag, doc)
	case SeedClassicArcade:
		return calldata.ClassicArcadeCalls(tag, doc)
	case SeedArenaToken:
		return calldata.ArenaTokenCalls(tag, doc)
	case SeedArenaCredit:
		return calldata.ArenaCreditCalls(tag, doc)
	case SeedAchievements:
		call, err := calldata.AchievementsCall(tag, doc)
		if err != nil {
			return nil, err
		}
		return []domain.Call{call}, nil
	case SeedOrbs:
		return uc.orbCalls(ctx, m, tag, doc)
	case SeedChallenges:
		collections := calldata.Collections{}
		for _, name := range []string{"blobert", "free_blobert"} {
			c, err := m.Contract(uc.tag(name))
			if err != nil {
				return nil, err
			}
			collections[name] = c.ContractAddress
		}
		return calldata.ArcadeChallengeCalls(tag, doc, collections)
	case SeedArcadeClassic, SeedArcadeAmma:
		return uc.arcadeCalls(m, tag, doc, target == SeedArcadeAmma)
	}
	return nil, fmt.Errorf("unknown seed target %q", target)
}

func (uc *SeedGameData) arcadeCalls(m *models.Manifest, tag string, doc map[string]any, amma bool) ([]domain.Call, error) {
	cfg, err := calldata.DecodeArcadeConfig(doc)
	if err != nil {
		return nil, err
	}
	vrf, err := m.Contract(uc.tag("vrf"))
	if err != nil {
		return nil, err
	}
	credit, err := m.Contract(uc.tag("arena_credit"))
	if err != nil {
		return nil, err
	}
	addrs := calldata.ArcadeAddresses{VRF: vrf.ContractAddress, ArenaCredit: credit.ContractAddress}

	var calls []domain.Call
	if !amma {
		combat, err := m.Class(uc.tag("combat"))
		if err != nil {
			return nil, err
		}
		addrs.CombatClass = combat.ClassHash
		if opponents, ok := doc["opponents"]; ok {
			call, err := calldata.OpponentsCall(tag, opponents)
			if err != nil {
				return nil, err
			}
			calls = append(calls, call)
		}
	}
	return append(calls, calldata.ArcadeConfigCalls(tag, cfg, addrs, amma)...), nil
}

// orbCalls configures the orb minter, registers the actions the action
// contract does not know yet and grants the orb roles.
func (uc *SeedGameData) orbCalls(ctx context.Context, m *models.Manifest, tag string, doc map[string]any) ([]domain.Call, error) {
	calls, err := calldata.OrbMinterCalls(tag, doc)
	if err != nil {
		return nil, err
	}
	actions, err := calldata.OrbActions(doc)
	if err != nil {
		return nil, err
	}
	pools := make([]any, len(actions))
	for i, a := range actions {
		pools[i] = a
	}
	actionTag := uc.tag("action")
	checks, err := uc.view.call(ctx, m, actionTag, "check_action_arrays", []any{pools})
	if err != nil {
		return nil, err
	}
	actionCalls, err := calldata.OrbActionCalls(actionTag, tag, actions, checks)
	if err != nil {
		return nil, err
	}
	calls = append(calls, actionCalls...)

	minter, err := m.Contract(tag)
	if err != nil {
		return nil, err
	}
	consumers := make([]string, 0, 3)
	for _, t := range []SeedTarget{SeedArcadeAmma, SeedArcadeClassic, SeedPvp} {
		c, err := m.Contract(uc.tag(string(t)))
		if err != nil {
			return nil, err
		}
		consumers = append(consumers, c.ContractAddress)
	}
	return append(calls, calldata.OrbRoleCalls(uc.tag("orb"), minter.ContractAddress, consumers)...), nil
}

func (uc *SeedGameData) tag(key string) string {
	if tag, ok := uc.config.ProfileConfig.Seed.Tags[key]; ok && tag != "" {
		return tag
	}
	return defaultSeedTags[key]
}

func expandTargets(targets []SeedTarget) ([]SeedTarget, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no seed target given")
	}
	var out []SeedTarget
	for _, t := range targets {
		if t == SeedAll {
			out = append(out, SeedTargets...)
			continue
		}
		if t != SeedUnlockCode && !slices.Contains(SeedTargets, t) {
			names := make([]string, 0, len(SeedTargets)+1)
			for _, known := range append(slices.Clone(SeedTargets), SeedUnlockCode) {
				names = append(names, string(known))
			}
			return nil, domain.NewTagNotFound("seed target", string(t), names)
		}
		out = append(out, t)
	}
	return lo.Uniq(out), nil
}
