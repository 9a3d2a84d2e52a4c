package starknet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// Starknet JSON-RPC error codes this client interprets.
const (
	codeContractNotFound  = 20
	codeClassHashNotFound = 28
	codeTxHashNotFound    = 29
)

var (
	// ErrContractNotFound is returned when no contract lives at an address.
	ErrContractNotFound = errors.New("contract not found")
	// ErrClassNotFound is returned for undeclared class hashes.
	ErrClassNotFound = errors.New("class hash not found")
	// ErrTransactionNotFound is returned for unknown transaction hashes.
	ErrTransactionNotFound = errors.New("transaction hash not found")
)

// Client is a typed wrapper around the Starknet JSON-RPC API.
type Client struct {
	c *rpc.Client
}

// DialContext connects a client to the given URL.
func DialContext(ctx context.Context, rawURL string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c}
}

func (sc *Client) Close() {
	sc.c.Close()
}

func (sc *Client) call(ctx context.Context, result any, method string, args ...any) error {
	err := sc.c.CallContext(ctx, result, method, args...)
	if err == nil {
		return nil
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeContractNotFound:
			return fmt.Errorf("%s: %w", method, ErrContractNotFound)
		case codeClassHashNotFound:
			return fmt.Errorf("%s: %w", method, ErrClassNotFound)
		case codeTxHashNotFound:
			return fmt.Errorf("%s: %w", method, ErrTransactionNotFound)
		}
		var dataErr rpc.DataError
		if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
			return fmt.Errorf("%s: %w: %v", method, err, dataErr.ErrorData())
		}
	}
	return fmt.Errorf("%s: %w", method, err)
}

// ChainID returns the chain identifier as a felt.
func (sc *Client) ChainID(ctx context.Context) (*felt.Felt, error) {
	var id string
	if err := sc.call(ctx, &id, "starknet_chainId"); err != nil {
		return nil, err
	}
	return cairo.ParseFelt(id)
}

// Nonce returns the next nonce of an account.
func (sc *Client) Nonce(ctx context.Context, block BlockID, address *felt.Felt) (*felt.Felt, error) {
	var nonce felt.Felt
	if err := sc.call(ctx, &nonce, "starknet_getNonce", block, hexFelt(address)); err != nil {
		return nil, err
	}
	return &nonce, nil
}

// ClassHashAt returns the class of the contract deployed at address.
func (sc *Client) ClassHashAt(ctx context.Context, block BlockID, address *felt.Felt) (*felt.Felt, error) {
	var h felt.Felt
	if err := sc.call(ctx, &h, "starknet_getClassHashAt", block, hexFelt(address)); err != nil {
		return nil, err
	}
	return &h, nil
}

// Class fetches a declared class definition.
func (sc *Client) Class(ctx context.Context, block BlockID, classHash *felt.Felt) (*ClassDefinition, error) {
	var def ClassDefinition
	if err := sc.call(ctx, &def, "starknet_getClass", block, hexFelt(classHash)); err != nil {
		return nil, err
	}
	return &def, nil
}

// Call executes a view call and returns the raw result felts.
func (sc *Client) Call(ctx context.Context, block BlockID, call Call) ([]*felt.Felt, error) {
	req := functionCall{
		ContractAddress:    hexFelt(call.To),
		EntryPointSelector: hexFelt(call.Selector),
		Calldata:           cairo.HexAll(call.Calldata),
	}
	var out []*felt.Felt
	if err := sc.call(ctx, &out, "starknet_call", req, block); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionStatus reports the finality and execution status of a transaction.
func (sc *Client) TransactionStatus(ctx context.Context, hash *felt.Felt) (*TxStatus, error) {
	var st TxStatus
	if err := sc.call(ctx, &st, "starknet_getTransactionStatus", hexFelt(hash)); err != nil {
		return nil, err
	}
	return &st, nil
}

// TransactionReceipt fetches the receipt of a transaction.
func (sc *Client) TransactionReceipt(ctx context.Context, hash *felt.Felt) (*Receipt, error) {
	var r Receipt
	if err := sc.call(ctx, &r, "starknet_getTransactionReceipt", hexFelt(hash)); err != nil {
		return nil, err
	}
	return &r, nil
}

// Events fetches one page of events.
func (sc *Client) Events(ctx context.Context, filter EventFilter) (*EventsPage, error) {
	if filter.ChunkSize == 0 {
		filter.ChunkSize = 1000
	}
	var page EventsPage
	if err := sc.call(ctx, &page, "starknet_getEvents", filter); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllEvents follows continuation tokens until the node reports none left.
func (sc *Client) AllEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	var all []Event
	for {
		page, err := sc.Events(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Events...)
		if !hasMore(page.ContinuationToken) {
			return all, nil
		}
		filter.ContinuationToken = page.ContinuationToken
	}
}

// hasMore interprets continuation tokens. Some nodes return "<block>,<offset>"
// style tokens where a zero final part means the scan is complete.
func hasMore(token string) bool {
	if token == "" {
		return false
	}
	parts := strings.Split(token, ",")
	last := parts[len(parts)-1]
	if f, err := cairo.ParseFelt("0x" + strings.TrimPrefix(last, "0x")); err == nil && len(parts) > 1 {
		return !f.IsZero()
	}
	return true
}

// EstimateFee estimates the fee of query-version transactions.
func (sc *Client) EstimateFee(ctx context.Context, txs []any, skipValidate bool) ([]FeeEstimate, error) {
	flags := []string{}
	if skipValidate {
		flags = append(flags, "SKIP_VALIDATE")
	}
	var out []FeeEstimate
	if err := sc.call(ctx, &out, "starknet_estimateFee", txs, flags, Pending); err != nil {
		return nil, err
	}
	return out, nil
}

// AddInvoke broadcasts a signed invoke transaction.
func (sc *Client) AddInvoke(ctx context.Context, tx any) (*felt.Felt, error) {
	var res AddTxResult
	if err := sc.call(ctx, &res, "starknet_addInvokeTransaction", tx); err != nil {
		return nil, err
	}
	return res.TransactionHash, nil
}

// AddDeclare broadcasts a signed declare transaction.
func (sc *Client) AddDeclare(ctx context.Context, tx any) (*AddTxResult, error) {
	var res AddTxResult
	if err := sc.call(ctx, &res, "starknet_addDeclareTransaction", tx); err != nil {
		return nil, err
	}
	return &res, nil
}

func hexFelt(f *felt.Felt) string {
	return cairo.Hex(f)
}
