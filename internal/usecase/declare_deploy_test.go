package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

func declareConfig() *config.RuntimeConfig {
	cfg := testConfig()
	cfg.ProfileConfig.Declare = map[string]config.DeclareConfig{
		"arena_credit": {},
		"combat":       {},
	}
	cfg.ProfileOrder.Declare = []string{"arena_credit", "combat"}
	return cfg
}

func testArtifacts() fakeArtifacts {
	sierra := &starknet.SierraClass{ABI: json.RawMessage(creditABI)}
	return fakeArtifacts{
		"arena_credit": {Tag: "arena_credit", Sierra: sierra, ClassHash: hash("0xc1"), CompiledClassHash: hash("0xcc1")},
		"combat":       {Tag: "combat", Sierra: sierra, ClassHash: hash("0xc2"), CompiledClassHash: hash("0xcc2")},
	}
}

func TestDeclareClasses(t *testing.T) {
	ctx := context.Background()

	t.Run("declares only unknown classes", func(t *testing.T) {
		chain := &MockChainReader{}
		chain.On("IsClassDeclared", mock.Anything, "0xc1").Return(false, nil)
		chain.On("IsClassDeclared", mock.Anything, "0xc2").Return(true, nil)
		account := newMockAccount(accountAddr)
		account.On("Declare", mock.Anything, "0xc1").Return(hash("0xd1"), nil).Once()
		account.On("WaitForTransaction", mock.Anything, "0xd1").Return(succeeded, nil)
		store := newMemManifests()

		uc := usecase.NewDeclareClasses(declareConfig(), store, testArtifacts(), chain,
			&fakeAccounts{accounts: map[string]usecase.Account{"": account}}, &recordingSink{}, discardLogger())
		result, err := uc.Run(ctx, usecase.DeclareClassesParams{})
		require.NoError(t, err)

		require.Len(t, result.Classes, 2)
		assert.Equal(t, "0xd1", result.Classes[0].TransactionHash)
		assert.False(t, result.Classes[0].AlreadyDeclared)
		assert.True(t, result.Classes[1].AlreadyDeclared)

		assert.Equal(t, 1, store.saves)
		assert.Equal(t, "0xc1", store.m.Classes["arena_credit"].ClassHash)
		assert.Equal(t, "0xc2", store.m.Classes["combat"].ClassHash)
		assert.Contains(t, store.m.Declarations, "arena_credit")
		assert.NotContains(t, store.m.Declarations, "combat")
		_, cached := store.m.ABI("0xc1")
		assert.True(t, cached)
		account.AssertExpectations(t)
	})

	t.Run("dry run sends and saves nothing", func(t *testing.T) {
		chain := &MockChainReader{}
		chain.On("IsClassDeclared", mock.Anything, mock.Anything).Return(false, nil)
		accounts := &fakeAccounts{}
		store := newMemManifests()
		cfg := declareConfig()
		cfg.DryRun = true

		uc := usecase.NewDeclareClasses(cfg, store, testArtifacts(), chain, accounts, &recordingSink{}, discardLogger())
		result, err := uc.Run(ctx, usecase.DeclareClassesParams{Tags: []string{"combat"}})
		require.NoError(t, err)

		require.Len(t, result.Classes, 1)
		assert.Empty(t, result.Classes[0].TransactionHash)
		assert.Empty(t, accounts.opened)
		assert.Zero(t, store.saves)
	})

	t.Run("unknown tag", func(t *testing.T) {
		uc := usecase.NewDeclareClasses(declareConfig(), newMemManifests(), testArtifacts(), &MockChainReader{},
			&fakeAccounts{}, &recordingSink{}, discardLogger())
		_, err := uc.Run(ctx, usecase.DeclareClassesParams{Tags: []string{"combats"}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("failure keeps earlier declarations", func(t *testing.T) {
		chain := &MockChainReader{}
		chain.On("IsClassDeclared", mock.Anything, mock.Anything).Return(false, nil)
		account := newMockAccount(accountAddr)
		account.On("Declare", mock.Anything, "0xc1").Return(hash("0xd1"), nil)
		account.On("Declare", mock.Anything, "0xc2").Return(nil, errors.New("insufficient balance"))
		account.On("WaitForTransaction", mock.Anything, "0xd1").Return(succeeded, nil)
		store := newMemManifests()

		uc := usecase.NewDeclareClasses(declareConfig(), store, testArtifacts(), chain,
			&fakeAccounts{accounts: map[string]usecase.Account{"": account}}, &recordingSink{}, discardLogger())
		_, err := uc.Run(ctx, usecase.DeclareClassesParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to declare combat")
		assert.Equal(t, 1, store.saves)
		assert.Contains(t, store.m.Declarations, "arena_credit")
	})
}

func deployConfig() *config.RuntimeConfig {
	cfg := testConfig()
	cfg.ProfileConfig.Deploy = map[string]config.DeployConfig{
		"arena_credit": {Salt: "0x5a17", Calldata: []any{"$account"}},
		"classic_arcade": {
			Class:    "arena_credit",
			Salt:     "0x5a18",
			Calldata: []any{"$contracts.arena_credit", "$variables.max_respawns"},
		},
	}
	cfg.ProfileConfig.Variables = map[string]any{"max_respawns": int64(3)}
	cfg.ProfileOrder.Deploy = []string{"arena_credit", "classic_arcade"}
	return cfg
}

func deployManifests() *memManifests {
	store := newMemManifests()
	store.m.Classes["arena_credit"] = &models.Class{Tag: "arena_credit", ClassHash: creditClass}
	store.m.ABIs[creditClass] = json.RawMessage(creditABI)
	store.m.MarkClean()
	return store
}

func TestPredictAddress(t *testing.T) {
	ctx := context.Background()
	cfg := deployConfig()
	uc := usecase.NewPredictAddress(cfg, deployManifests(), usecase.NewContractResolver(&MockChainReader{}, discardLogger()))

	result, err := uc.Run(ctx, usecase.PredictAddressParams{})
	require.NoError(t, err)
	require.Len(t, result.Deployments, 2)

	credit, arcade := result.Deployments[0], result.Deployments[1]
	deployer := hash(accountAddr)
	assert.Equal(t, []string{accountAddr}, cairo.HexAll(credit.Constructor))
	assert.Equal(t,
		cairo.Hex(starknet.UDCContractAddress(deployer, hash(creditClass), hash("0x5a17"), false, credit.Constructor)),
		cairo.Hex(credit.Address))
	assert.True(t, credit.Once)
	assert.False(t, credit.Unique)

	// references resolve to the planned address of the same run
	assert.Equal(t, []string{cairo.Hex(credit.Address), "0x3"}, cairo.HexAll(arcade.Constructor))
	assert.Equal(t, "arena_credit", arcade.ClassTag)

	t.Run("requires an account address", func(t *testing.T) {
		cfg := deployConfig()
		cfg.Account.AccountAddress = ""
		uc := usecase.NewPredictAddress(cfg, deployManifests(), usecase.NewContractResolver(&MockChainReader{}, discardLogger()))
		_, err := uc.Run(ctx, usecase.PredictAddressParams{})
		assert.ErrorIs(t, err, domain.ErrNoAccount)
	})

	t.Run("undeclared class", func(t *testing.T) {
		uc := usecase.NewPredictAddress(deployConfig(), newMemManifests(), usecase.NewContractResolver(&MockChainReader{}, discardLogger()))
		_, err := uc.Run(ctx, usecase.PredictAddressParams{Tags: []string{"arena_credit"}})
		assert.ErrorIs(t, err, domain.ErrClassNotDeclared)
	})

	t.Run("self reference", func(t *testing.T) {
		cfg := deployConfig()
		cfg.ProfileConfig.Deploy["arena_credit"] = config.DeployConfig{Calldata: []any{"$contracts.arena_credit"}}
		uc := usecase.NewPredictAddress(cfg, deployManifests(), usecase.NewContractResolver(&MockChainReader{}, discardLogger()))
		_, err := uc.Run(ctx, usecase.PredictAddressParams{Tags: []string{"arena_credit"}})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestDeployContracts(t *testing.T) {
	ctx := context.Background()

	t.Run("skips deployed once entries and deploys the rest in one multicall", func(t *testing.T) {
		cfg := deployConfig()
		store := deployManifests()
		planned, err := usecase.NewPredictAddress(cfg, store, usecase.NewContractResolver(&MockChainReader{}, discardLogger())).
			Run(ctx, usecase.PredictAddressParams{})
		require.NoError(t, err)
		creditAddr := cairo.Hex(planned.Deployments[0].Address)
		arcadeAddr := cairo.Hex(planned.Deployments[1].Address)

		chain := &MockChainReader{}
		chain.On("IsContractDeployed", mock.Anything, creditAddr).Return(true, nil)
		chain.On("IsContractDeployed", mock.Anything, arcadeAddr).Return(false, nil)
		account := newMockAccount(accountAddr)
		account.On("Execute", mock.Anything, mock.MatchedBy(func(calls []starknet.Call) bool {
			return len(calls) == 1 && calls[0].To.Equal(starknet.UDCAddress)
		})).Return(hash("0xde"), nil).Once()
		account.On("WaitForTransaction", mock.Anything, "0xde").Return(succeeded, nil)

		uc := usecase.NewDeployContracts(cfg, store, usecase.NewContractResolver(chain, discardLogger()), chain,
			&fakeAccounts{accounts: map[string]usecase.Account{"": account}}, &recordingSink{}, discardLogger())
		result, err := uc.Run(ctx, usecase.DeployContractsParams{})
		require.NoError(t, err)

		require.Len(t, result.Contracts, 2)
		assert.True(t, result.Contracts[0].AlreadyDeployed)
		assert.Equal(t, arcadeAddr, result.Contracts[1].ContractAddress)
		assert.Equal(t, "0xde", result.TransactionHash)

		assert.Equal(t, 1, store.saves)
		assert.Equal(t, creditAddr, store.m.Contracts["arena_credit"].ContractAddress)
		record := store.m.Deployments["classic_arcade"]
		require.NotNil(t, record)
		assert.Equal(t, models.DeploymentConfirmed, record.Status)
		assert.Equal(t, "0x5a18", record.Salt)
		assert.Equal(t, accountAddr, record.DeployerAddress)
		account.AssertExpectations(t)
	})

	t.Run("failed deploy is recorded", func(t *testing.T) {
		chain := &MockChainReader{}
		chain.On("IsContractDeployed", mock.Anything, mock.Anything).Return(false, nil)
		account := newMockAccount(accountAddr)
		account.On("Execute", mock.Anything, mock.Anything).Return(hash("0xde"), nil)
		account.On("WaitForTransaction", mock.Anything, "0xde").Return(nil, starknet.ErrTransactionReverted)
		store := deployManifests()

		uc := usecase.NewDeployContracts(deployConfig(), store, usecase.NewContractResolver(chain, discardLogger()), chain,
			&fakeAccounts{accounts: map[string]usecase.Account{"": account}}, &recordingSink{}, discardLogger())
		result, err := uc.Run(ctx, usecase.DeployContractsParams{Tags: []string{"arena_credit"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)

		require.Len(t, result.Contracts, 1)
		assert.True(t, result.Contracts[0].Failed)
		assert.Equal(t, models.DeploymentFailed, store.m.Deployments["arena_credit"].Status)
		assert.Equal(t, 1, store.saves)
	})
}
