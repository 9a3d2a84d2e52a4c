package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

const (
	gameClass   = "0x9a3e"
	combatClass = "0xc0b"
)

const gameABI = `[
  {"type": "struct", "name": "blob_arena::action::Action", "members": [
    {"name": "name", "type": "core::byte_array::ByteArray"},
    {"name": "speed", "type": "core::integer::u16"},
    {"name": "chance", "type": "core::integer::u8"},
    {"name": "cooldown", "type": "core::integer::u32"},
    {"name": "success", "type": "core::array::Array::<core::felt252>"},
    {"name": "fail", "type": "core::array::Array::<core::felt252>"}
  ]},
  {"type": "enum", "name": "blob_arena::orb::Role", "variants": [
    {"name": "Minter", "type": "()"},
    {"name": "Consumer", "type": "()"}
  ]},
  {"type": "function", "name": "set_max_energy", "inputs": [
    {"name": "max_energy", "type": "core::integer::u64"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "set_combat_class_hash", "inputs": [
    {"name": "class_hash", "type": "core::starknet::class_hash::ClassHash"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "set_shards_in_orbs", "inputs": [
    {"name": "common", "type": "core::integer::u32"}, {"name": "rare", "type": "core::integer::u32"},
    {"name": "epic", "type": "core::integer::u32"}, {"name": "legendary", "type": "core::integer::u32"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "set_charge", "inputs": [
    {"name": "charge", "type": "core::integer::u128"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "check_action_arrays", "inputs": [
    {"name": "actions", "type": "[core::array::Array::<blob_arena::action::Action>; 4]"}
  ], "outputs": [{"type": "[core::array::Array::<(core::felt252, core::bool)>; 4]"}], "state_mutability": "view"},
  {"type": "function", "name": "create_actions", "inputs": [
    {"name": "actions", "type": "core::array::Array::<blob_arena::action::Action>"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "set_common_actions", "inputs": [
    {"name": "actions", "type": "core::array::Array::<core::felt252>"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "set_rare_actions", "inputs": [
    {"name": "actions", "type": "core::array::Array::<core::felt252>"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "set_epic_actions", "inputs": [
    {"name": "actions", "type": "core::array::Array::<core::felt252>"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "set_legendary_actions", "inputs": [
    {"name": "actions", "type": "core::array::Array::<core::felt252>"}
  ], "outputs": [], "state_mutability": "external"},
  {"type": "function", "name": "grant_role", "inputs": [
    {"name": "user", "type": "core::starknet::contract_address::ContractAddress"},
    {"name": "role", "type": "blob_arena::orb::Role"}
  ], "outputs": [], "state_mutability": "external"}
]`

var gameContracts = map[string]string{
	"arena_credit":   "0xa1",
	"pvp":            "0xa2",
	"orb_minter":     "0xa3",
	"orb":            "0xa4",
	"action":         "0xa5",
	"arcade_amma":    "0xa6",
	"arcade_classic": "0xa7",
}

func gameManifests() *memManifests {
	store := newMemManifests()
	for tag, addr := range gameContracts {
		store.m.Contracts[tag] = &models.Contract{Tag: tag, ContractAddress: addr, ClassHash: gameClass}
	}
	store.m.Classes["combat"] = &models.Class{Tag: "combat", ClassHash: combatClass}
	store.m.ABIs[gameClass] = json.RawMessage(gameABI)
	store.m.MarkClean()
	return store
}

func newGameSeed(t *testing.T, chain *MockChainReader, docs fakeDocuments) *usecase.SeedGameData {
	t.Helper()
	cfg := testConfig()
	cfg.DryRun = true
	store := gameManifests()
	resolver := usecase.NewContractResolver(chain, discardLogger())
	execute := usecase.NewExecuteCalls(cfg, store, resolver, chain, &fakeAccounts{}, &recordingSink{}, discardLogger())
	view := usecase.NewCallView(store, resolver, chain)
	return usecase.NewSeedGameData(cfg, store, docs, view, execute, &recordingSink{})
}

func entrypoints(calls []domain.Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Entrypoint
	}
	return out
}

func TestSeedGameTargets(t *testing.T) {
	ctx := context.Background()

	t.Run("pvp points at the combat class", func(t *testing.T) {
		result, err := newGameSeed(t, &MockChainReader{}, fakeDocuments{}).Run(ctx, usecase.SeedGameDataParams{
			Targets: []usecase.SeedTarget{usecase.SeedPvp},
		})
		require.NoError(t, err)
		require.Len(t, result.Calls, 1)
		assert.Equal(t, "pvp", result.Calls[0].Tag)
		encoded := result.Execution.Batches[0].Calls[0]
		assert.Equal(t, "0xa2", encoded.ContractAddress)
		assert.Equal(t, []string{combatClass}, encoded.Calldata)
	})

	t.Run("arena credit max energy", func(t *testing.T) {
		result, err := newGameSeed(t, &MockChainReader{}, fakeDocuments{
			"arena-credit": {"max_energy": 5000},
		}).Run(ctx, usecase.SeedGameDataParams{Targets: []usecase.SeedTarget{usecase.SeedArenaCredit}})
		require.NoError(t, err)
		encoded := result.Execution.Batches[0].Calls[0]
		assert.Equal(t, "set_max_energy", encoded.Entrypoint)
		assert.Equal(t, []string{"0x1388"}, encoded.Calldata)
	})

	t.Run("orbs register only new actions", func(t *testing.T) {
		chain := &MockChainReader{}
		// common: one (0xac71, new) pair, the other pools empty
		checks := []*felt.Felt{hash("0x1"), hash("0xac71"), hash("0x1"), hash("0x0"), hash("0x0"), hash("0x0")}
		chain.On("Call", mock.Anything, mock.MatchedBy(func(c starknet.Call) bool {
			return c.Selector.Equal(starknet.Selector("check_action_arrays")) && cairo.Hex(c.To) == "0xa5"
		})).Return(checks, nil).Once()

		result, err := newGameSeed(t, chain, fakeDocuments{
			"orbs": {
				"shards_in_orbs": map[string]any{"common": 1, "rare": 3, "epic": 6, "legendary": 10},
				"charge":         100,
				"common_actions": []any{
					map[string]any{"name": "Zap", "speed": 3, "chance": 90, "cooldown": 1},
				},
			},
		}).Run(ctx, usecase.SeedGameDataParams{Targets: []usecase.SeedTarget{usecase.SeedOrbs}})
		require.NoError(t, err)
		chain.AssertExpectations(t)

		assert.Equal(t, []string{
			"set_shards_in_orbs", "set_charge", "create_actions",
			"set_common_actions", "set_rare_actions", "set_epic_actions", "set_legendary_actions",
			"grant_role", "grant_role", "grant_role", "grant_role",
		}, entrypoints(result.Calls))

		encoded := result.Execution.Batches[0].Calls
		assert.Equal(t, []string{"0x1", "0x3", "0x6", "0xa"}, encoded[0].Calldata)
		assert.Equal(t, []string{"0x1", "0xac71"}, encoded[3].Calldata)
		assert.Equal(t, []string{"0x0"}, encoded[4].Calldata)
		// Minter for orb_minter, then Consumer for amma, classic and pvp
		assert.Equal(t, []string{"0xa3", "0x0"}, encoded[7].Calldata)
		assert.Equal(t, []string{"0xa6", "0x1"}, encoded[8].Calldata)
		assert.Equal(t, []string{"0xa2", "0x1"}, encoded[10].Calldata)
	})

	t.Run("orbs fail when the action view fails", func(t *testing.T) {
		chain := &MockChainReader{}
		chain.On("Call", mock.Anything, mock.Anything).Return(nil, assert.AnError)
		_, err := newGameSeed(t, chain, fakeDocuments{
			"orbs": {"shards_in_orbs": map[string]any{}, "charge": 1},
		}).Run(ctx, usecase.SeedGameDataParams{Targets: []usecase.SeedTarget{usecase.SeedOrbs}})
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "action.check_action_arrays")
	})

	t.Run("challenges need the collection contracts", func(t *testing.T) {
		_, err := newGameSeed(t, &MockChainReader{}, fakeDocuments{
			"arcade-challenges": {"opponents": []any{}, "challenges": []any{}},
		}).Run(ctx, usecase.SeedGameDataParams{Targets: []usecase.SeedTarget{usecase.SeedChallenges}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blobert-blobert_actions")
	})

	t.Run("all includes the game targets", func(t *testing.T) {
		assert.Subset(t, usecase.SeedTargets, []usecase.SeedTarget{
			usecase.SeedArenaCredit, usecase.SeedPvp, usecase.SeedOrbs,
			usecase.SeedAchievements, usecase.SeedChallenges,
		})
		assert.NotContains(t, usecase.SeedTargets, usecase.SeedUnlockCode)
	})
}
