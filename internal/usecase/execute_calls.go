package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// ExecuteCallsParams contains parameters for executing contract calls
type ExecuteCallsParams struct {
	Calls []domain.Call
	// BatchSize splits the calls into sequential multicalls; zero sends
	// everything in one transaction.
	BatchSize int
	// WithReturn reads return events from each batch's receipt.
	WithReturn bool
	// Account is a [players] name; empty uses the profile account.
	Account string
}

// ExecutedBatch is one submitted (or, on dry runs, prepared) multicall
type ExecutedBatch struct {
	Calls           []domain.EncodedCall
	TransactionHash string
	Returns         [][]string
}

// ExecuteCallsResult contains the result of executing calls
type ExecuteCallsResult struct {
	Batches []ExecutedBatch
	DryRun  bool
}

// ExecuteCalls encodes manifest calls and submits them as multicalls,
// waiting for each to land before sending the next.
type ExecuteCalls struct {
	config    *config.RuntimeConfig
	manifests ManifestStore
	resolver  *ContractResolver
	chain     ChainReader
	accounts  AccountProvider
	progress  ProgressSink
	log       *slog.Logger
}

// NewExecuteCalls creates a new ExecuteCalls use case
func NewExecuteCalls(
	cfg *config.RuntimeConfig,
	manifests ManifestStore,
	resolver *ContractResolver,
	chain ChainReader,
	accounts AccountProvider,
	progress ProgressSink,
	log *slog.Logger,
) *ExecuteCalls {
	return &ExecuteCalls{
		config:    cfg,
		manifests: manifests,
		resolver:  resolver,
		chain:     chain,
		accounts:  accounts,
		progress:  progress,
		log:       log,
	}
}

// Run executes the calls
func (uc *ExecuteCalls) Run(ctx context.Context, params ExecuteCallsParams) (*ExecuteCallsResult, error) {
	result := &ExecuteCallsResult{DryRun: uc.config.DryRun}
	if len(params.Calls) == 0 {
		return result, nil
	}

	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	encoded, err := uc.resolver.Encode(ctx, m, params.Calls)
	if err != nil {
		return nil, err
	}
	if err := saveIfChanged(ctx, uc.manifests, m); err != nil {
		return nil, err
	}

	size := params.BatchSize
	if size <= 0 {
		size = len(encoded)
	}
	batches := lo.Chunk(encoded, size)

	if result.DryRun {
		for _, batch := range batches {
			result.Batches = append(result.Batches, ExecutedBatch{Calls: batch})
		}
		return result, nil
	}

	account, err := uc.accounts.Account(ctx, params.Account)
	if err != nil {
		return nil, err
	}

	for i, batch := range batches {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "executing",
			Current: i + 1,
			Total:   len(batches),
			Message: fmt.Sprintf("Executing batch %d/%d (%d calls)", i+1, len(batches), len(batch)),
			Spinner: true,
		})
		for _, call := range batch {
			uc.progress.Info(fmt.Sprintf("  %s", call))
		}

		executed, err := uc.submit(ctx, account, batch, params.WithReturn)
		if executed != nil {
			result.Batches = append(result.Batches, *executed)
		}
		if err != nil {
			return result, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}
	}
	return result, nil
}

func (uc *ExecuteCalls) submit(ctx context.Context, account Account, batch []domain.EncodedCall, withReturn bool) (*ExecutedBatch, error) {
	calls, err := toStarknetCalls(batch)
	if err != nil {
		return nil, err
	}
	hash, err := account.Execute(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	executed := &ExecutedBatch{Calls: batch, TransactionHash: cairo.Hex(hash)}
	uc.log.Debug("transaction sent", "hash", executed.TransactionHash, "calls", len(batch))

	if err := waitFor(ctx, account, hash); err != nil {
		return executed, err
	}
	if withReturn {
		executed.Returns, err = uc.returns(ctx, account, hash)
		if err != nil {
			return executed, err
		}
	}
	return executed, nil
}

// returns reads the return events of a landed transaction. A RECEIVED
// transaction has no receipt yet, so a missing receipt waits for acceptance
// and retries.
func (uc *ExecuteCalls) returns(ctx context.Context, account Account, hash *felt.Felt) ([][]string, error) {
	receipt, err := uc.chain.Receipt(ctx, hash)
	if errors.Is(err, domain.ErrNotFound) {
		uc.log.Debug("receipt not available, waiting for acceptance", "hash", cairo.Hex(hash))
		if err := wrapTxError(account.WaitForAcceptance(ctx, hash)); err != nil {
			return nil, err
		}
		receipt, err = uc.chain.Receipt(ctx, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt of %s: %w", cairo.Hex(hash), err)
	}
	return ReturnValues(receipt), nil
}

// ReturnValues extracts the data of every return event in a receipt
func ReturnValues(receipt *starknet.Receipt) [][]string {
	var out [][]string
	for _, ev := range receipt.Events {
		if len(ev.Keys) == 0 || cairo.Hex(ev.Keys[0]) != domain.ReturnEventKey {
			continue
		}
		out = append(out, cairo.HexAll(ev.Data))
	}
	return out
}

// waitFor waits for a transaction to land, marking reverted and rejected
// transactions with domain.ErrTransactionReverted.
func waitFor(ctx context.Context, account Account, hash *felt.Felt) error {
	return wrapTxError(account.WaitForTransaction(ctx, hash))
}

func wrapTxError(_ *starknet.TxStatus, err error) error {
	if errors.Is(err, starknet.ErrTransactionReverted) || errors.Is(err, starknet.ErrTransactionRejected) {
		return &txError{err: err}
	}
	return err
}

type txError struct {
	err error
}

func (e *txError) Error() string {
	return e.err.Error()
}

func (e *txError) Unwrap() []error {
	return []error{e.err, domain.ErrTransactionReverted}
}
