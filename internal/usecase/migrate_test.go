package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

func newMigrate(cfg *config.RuntimeConfig, store *memManifests, accounts usecase.AccountProvider, sink usecase.ProgressSink) *usecase.Migrate {
	chain := &MockChainReader{}
	resolver := usecase.NewContractResolver(chain, discardLogger())
	log := discardLogger()
	execute := usecase.NewExecuteCalls(cfg, store, resolver, chain, accounts, sink, log)
	return usecase.NewMigrate(cfg,
		usecase.NewDeclareClasses(cfg, store, fakeArtifacts{}, chain, accounts, sink, log),
		usecase.NewDeployContracts(cfg, store, resolver, chain, accounts, sink, log),
		usecase.NewGrantPermissions(cfg, execute),
		sink,
	)
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	// the declare step fails because no artifact exists for the entry
	brokenConfig := func(keepGoing bool) *config.RuntimeConfig {
		cfg := testConfig()
		cfg.KeepGoing = keepGoing
		cfg.ProfileConfig.Declare = map[string]config.DeclareConfig{"missing": {}}
		cfg.ProfileOrder.Declare = []string{"missing"}
		return cfg
	}

	t.Run("stops at the first failure", func(t *testing.T) {
		sink := &recordingSink{}
		result, err := newMigrate(brokenConfig(false), newMemManifests(), &fakeAccounts{}, sink).Run(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, result.Deploy)
		assert.Nil(t, result.Grant)
		assert.Equal(t, []string{"Declaring classes"}, sink.infos)
		assert.Len(t, sink.errors, 1)
	})

	t.Run("keep going runs every step", func(t *testing.T) {
		sink := &recordingSink{}
		result, err := newMigrate(brokenConfig(true), newMemManifests(), &fakeAccounts{}, sink).Run(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NotNil(t, result.Deploy)
		assert.NotNil(t, result.Grant)
		assert.Equal(t, []string{"Declaring classes", "Deploying contracts", "Granting permissions"}, sink.infos)
	})
}

func TestGrantPermissions(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.ProfileConfig.Writers = map[string]any{"arena_credit": "0xbeef"}
	account := newMockAccount(accountAddr)
	account.On("Execute", mock.Anything, mock.MatchedBy(func(calls []starknet.Call) bool {
		return len(calls) == 1 && calls[0].Selector.Equal(starknet.Selector("grant_contract_writer"))
	})).Return(hash("0x9a"), nil)
	account.On("WaitForTransaction", mock.Anything, "0x9a").Return(succeeded, nil)

	store := newMemManifests().withCredit("arena_credit")
	chain := &MockChainReader{}
	execute := usecase.NewExecuteCalls(cfg, store, usecase.NewContractResolver(chain, discardLogger()), chain,
		&fakeAccounts{accounts: map[string]usecase.Account{"": account}}, &recordingSink{}, discardLogger())

	result, err := usecase.NewGrantPermissions(cfg, execute).Run(ctx)
	require.NoError(t, err)

	require.Len(t, result.Calls, 1)
	assert.Equal(t, "writer: arena_credit", result.Calls[0].String())
	require.NotNil(t, result.Execution)
	assert.Equal(t, "0x9a", result.Execution.Batches[0].TransactionHash)
	account.AssertExpectations(t)
}
