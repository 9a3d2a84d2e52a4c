package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
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

func mintCalls(n int) []domain.Call {
	calls := make([]domain.Call, n)
	for i := range calls {
		calls[i] = domain.Call{
			Tag:        "arena_credit",
			Entrypoint: "mint",
			Args:       map[string]any{"to": "0x1", "amount": i + 1},
		}
	}
	return calls
}

func newExecute(t *testing.T, cfgDryRun bool, chain usecase.ChainReader, accounts usecase.AccountProvider) (*usecase.ExecuteCalls, *memManifests) {
	t.Helper()
	cfg := testConfig()
	cfg.DryRun = cfgDryRun
	store := newMemManifests().withCredit("arena_credit")
	resolver := usecase.NewContractResolver(chain, discardLogger())
	return usecase.NewExecuteCalls(cfg, store, resolver, chain, accounts, &recordingSink{}, discardLogger()), store
}

func TestExecuteCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("dry run encodes and batches without an account", func(t *testing.T) {
		accounts := &fakeAccounts{}
		uc, _ := newExecute(t, true, &MockChainReader{}, accounts)

		result, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: mintCalls(5), BatchSize: 2})
		require.NoError(t, err)

		assert.True(t, result.DryRun)
		require.Len(t, result.Batches, 3)
		assert.Len(t, result.Batches[0].Calls, 2)
		assert.Len(t, result.Batches[2].Calls, 1)
		first := result.Batches[0].Calls[0]
		assert.Equal(t, creditAddress, first.ContractAddress)
		assert.Equal(t, cairo.Hex(starknet.Selector("mint")), first.Selector)
		assert.Equal(t, []string{"0x1", "0x1"}, first.Calldata)
		assert.Empty(t, result.Batches[0].TransactionHash)
		assert.Empty(t, accounts.opened)
	})

	t.Run("no calls is a no-op", func(t *testing.T) {
		uc, _ := newExecute(t, false, &MockChainReader{}, &fakeAccounts{})
		result, err := uc.Run(ctx, usecase.ExecuteCallsParams{})
		require.NoError(t, err)
		assert.Empty(t, result.Batches)
	})

	t.Run("sends batches sequentially", func(t *testing.T) {
		account := newMockAccount(accountAddr)
		account.On("Execute", mock.Anything, mock.MatchedBy(func(calls []starknet.Call) bool { return len(calls) == 2 })).
			Return(hash("0xaa"), nil).Once()
		account.On("Execute", mock.Anything, mock.MatchedBy(func(calls []starknet.Call) bool { return len(calls) == 1 })).
			Return(hash("0xbb"), nil).Once()
		account.On("WaitForTransaction", mock.Anything, mock.Anything).Return(succeeded, nil)
		accounts := &fakeAccounts{accounts: map[string]usecase.Account{"": account}}

		uc, _ := newExecute(t, false, &MockChainReader{}, accounts)
		result, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: mintCalls(3), BatchSize: 2})
		require.NoError(t, err)

		require.Len(t, result.Batches, 2)
		assert.Equal(t, "0xaa", result.Batches[0].TransactionHash)
		assert.Equal(t, "0xbb", result.Batches[1].TransactionHash)
		assert.Equal(t, []string{""}, accounts.opened)
		account.AssertExpectations(t)
	})

	t.Run("reads return events", func(t *testing.T) {
		account := newMockAccount(accountAddr)
		account.On("Execute", mock.Anything, mock.Anything).Return(hash("0xaa"), nil)
		account.On("WaitForTransaction", mock.Anything, "0xaa").Return(succeeded, nil)
		chain := &MockChainReader{}
		chain.On("Receipt", mock.Anything, "0xaa").Return(&starknet.Receipt{Events: []starknet.Event{
			{Keys: []*felt.Felt{hash("0x1234")}, Data: []*felt.Felt{hash("0x9")}},
			{Keys: []*felt.Felt{hash(domain.ReturnEventKey)}, Data: []*felt.Felt{hash("0x2a"), hash("0x2b")}},
		}}, nil)

		uc, _ := newExecute(t, false, chain, &fakeAccounts{accounts: map[string]usecase.Account{"alice": account}})
		result, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: mintCalls(1), WithReturn: true, Account: "alice"})
		require.NoError(t, err)

		require.Len(t, result.Batches, 1)
		assert.Equal(t, [][]string{{"0x2a", "0x2b"}}, result.Batches[0].Returns)
	})

	t.Run("missing receipt waits for acceptance", func(t *testing.T) {
		account := newMockAccount(accountAddr)
		account.On("Execute", mock.Anything, mock.Anything).Return(hash("0xaa"), nil)
		account.On("WaitForTransaction", mock.Anything, "0xaa").
			Return(&starknet.TxStatus{FinalityStatus: starknet.StatusReceived}, nil).Once()
		account.On("WaitForAcceptance", mock.Anything, "0xaa").Return(succeeded, nil).Once()
		chain := &MockChainReader{}
		chain.On("Receipt", mock.Anything, "0xaa").Return(nil, domain.ErrNotFound).Once()
		chain.On("Receipt", mock.Anything, "0xaa").Return(&starknet.Receipt{Events: []starknet.Event{
			{Keys: []*felt.Felt{hash(domain.ReturnEventKey)}, Data: []*felt.Felt{hash("0x7")}},
		}}, nil).Once()

		uc, _ := newExecute(t, false, chain, &fakeAccounts{accounts: map[string]usecase.Account{"": account}})
		result, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: mintCalls(1), WithReturn: true})
		require.NoError(t, err)

		assert.Equal(t, [][]string{{"0x7"}}, result.Batches[0].Returns)
		account.AssertExpectations(t)
		chain.AssertExpectations(t)
	})

	t.Run("reverted while waiting for acceptance", func(t *testing.T) {
		account := newMockAccount(accountAddr)
		account.On("Execute", mock.Anything, mock.Anything).Return(hash("0xaa"), nil)
		account.On("WaitForTransaction", mock.Anything, "0xaa").
			Return(&starknet.TxStatus{FinalityStatus: starknet.StatusReceived}, nil)
		account.On("WaitForAcceptance", mock.Anything, "0xaa").Return(nil, starknet.ErrTransactionReverted)
		chain := &MockChainReader{}
		chain.On("Receipt", mock.Anything, "0xaa").Return(nil, domain.ErrNotFound)

		uc, _ := newExecute(t, false, chain, &fakeAccounts{accounts: map[string]usecase.Account{"": account}})
		_, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: mintCalls(1), WithReturn: true})
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
		chain.AssertNumberOfCalls(t, "Receipt", 1)
	})

	t.Run("reverted transaction stops the run", func(t *testing.T) {
		account := newMockAccount(accountAddr)
		account.On("Execute", mock.Anything, mock.Anything).Return(hash("0xaa"), nil).Once()
		account.On("WaitForTransaction", mock.Anything, "0xaa").Return(nil, starknet.ErrTransactionReverted)
		uc, _ := newExecute(t, false, &MockChainReader{}, &fakeAccounts{accounts: map[string]usecase.Account{"": account}})

		result, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: mintCalls(2), BatchSize: 1})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
		assert.Contains(t, err.Error(), "batch 1/2")
		require.Len(t, result.Batches, 1)
		assert.Equal(t, "0xaa", result.Batches[0].TransactionHash)
		account.AssertNumberOfCalls(t, "Execute", 1)
	})

	t.Run("unknown tag suggests known ones", func(t *testing.T) {
		uc, _ := newExecute(t, true, &MockChainReader{}, &fakeAccounts{})
		_, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: []domain.Call{{Tag: "arena_cred", Entrypoint: "mint"}}})

		var notFound *domain.TagNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Contains(t, notFound.Suggestions, "arena_credit")
	})

	t.Run("class hash and abi are fetched once and cached", func(t *testing.T) {
		chain := &MockChainReader{}
		chain.On("ClassHashAt", mock.Anything, creditAddress).Return(hash(creditClass), nil).Once()
		chain.On("ClassABI", mock.Anything, creditClass).Return(json.RawMessage(creditABI), nil).Once()

		cfg := testConfig()
		cfg.DryRun = true
		store := newMemManifests()
		store.m.Contracts["arena_credit"] = &models.Contract{Tag: "arena_credit", ContractAddress: creditAddress}
		resolver := usecase.NewContractResolver(chain, discardLogger())
		uc := usecase.NewExecuteCalls(cfg, store, resolver, chain, &fakeAccounts{}, &recordingSink{}, discardLogger())

		_, err := uc.Run(ctx, usecase.ExecuteCallsParams{Calls: mintCalls(2)})
		require.NoError(t, err)

		assert.Equal(t, 1, store.saves)
		assert.Equal(t, creditClass, store.m.Contracts["arena_credit"].ClassHash)
		_, cached := store.m.ABI(creditClass)
		assert.True(t, cached)
		chain.AssertExpectations(t)
	})
}

func TestReturnValues(t *testing.T) {
	receipt := &starknet.Receipt{Events: []starknet.Event{
		{Keys: nil, Data: []*felt.Felt{hash("0x1")}},
		{Keys: []*felt.Felt{hash(domain.ReturnEventKey)}},
	}}
	assert.Equal(t, [][]string{{}}, usecase.ReturnValues(receipt))
}
