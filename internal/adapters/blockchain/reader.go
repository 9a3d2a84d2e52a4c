package blockchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// ReaderAdapter implements ChainReader over the Starknet JSON-RPC client
type ReaderAdapter struct {
	clients *ClientProvider
	block   starknet.BlockID
}

// NewReaderAdapter creates a new chain reader. Reads target the pending
// block so that transactions just sent are visible.
func NewReaderAdapter(clients *ClientProvider) *ReaderAdapter {
	return &ReaderAdapter{clients: clients, block: starknet.Pending}
}

// IsClassDeclared reports whether a class hash is known to the node
func (r *ReaderAdapter) IsClassDeclared(ctx context.Context, classHash *felt.Felt) (bool, error) {
	c, err := r.clients.Client(ctx)
	if err != nil {
		return false, err
	}
	_, err = c.Class(ctx, r.block, classHash)
	return exists(err)
}

// IsContractDeployed reports whether a contract lives at address
func (r *ReaderAdapter) IsContractDeployed(ctx context.Context, address *felt.Felt) (bool, error) {
	c, err := r.clients.Client(ctx)
	if err != nil {
		return false, err
	}
	_, err = c.ClassHashAt(ctx, r.block, address)
	return exists(err)
}

// ClassHashAt returns the class of the contract at address
func (r *ReaderAdapter) ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	c, err := r.clients.Client(ctx)
	if err != nil {
		return nil, err
	}
	h, err := c.ClassHashAt(ctx, r.block, address)
	return h, notFound(err)
}

// ClassABI fetches a declared class and returns its ABI as a JSON array
func (r *ReaderAdapter) ClassABI(ctx context.Context, classHash *felt.Felt) (json.RawMessage, error) {
	c, err := r.clients.Client(ctx)
	if err != nil {
		return nil, err
	}
	def, err := c.Class(ctx, r.block, classHash)
	if err != nil {
		return nil, notFound(err)
	}
	abi, err := starknet.ABIArray(def.ABI)
	if err != nil {
		return nil, fmt.Errorf("abi of class %s: %w", classHash, err)
	}
	return abi, nil
}

// Call executes a view call
func (r *ReaderAdapter) Call(ctx context.Context, call starknet.Call) ([]*felt.Felt, error) {
	c, err := r.clients.Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := c.Call(ctx, r.block, call)
	return out, notFound(err)
}

// Receipt fetches a transaction receipt
func (r *ReaderAdapter) Receipt(ctx context.Context, hash *felt.Felt) (*starknet.Receipt, error) {
	c, err := r.clients.Client(ctx)
	if err != nil {
		return nil, err
	}
	receipt, err := c.TransactionReceipt(ctx, hash)
	return receipt, notFound(err)
}

// Events returns every event matching filter, following continuation tokens
func (r *ReaderAdapter) Events(ctx context.Context, filter starknet.EventFilter) ([]starknet.Event, error) {
	c, err := r.clients.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.AllEvents(ctx, filter)
}

func isNotFound(err error) bool {
	return errors.Is(err, starknet.ErrContractNotFound) ||
		errors.Is(err, starknet.ErrClassNotFound) ||
		errors.Is(err, starknet.ErrTransactionNotFound)
}

// notFound marks node "not found" errors with domain.ErrNotFound
func notFound(err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return err
}

func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	}
	return false, err
}

// Ensure the adapter implements the interface
var _ usecase.ChainReader = (*ReaderAdapter)(nil)
