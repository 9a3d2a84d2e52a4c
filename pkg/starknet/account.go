package starknet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

var (
	// ErrTransactionReverted is returned when a transaction executed and reverted.
	ErrTransactionReverted = errors.New("transaction reverted")
	// ErrTransactionRejected is returned when the sequencer rejected a transaction.
	ErrTransactionRejected = errors.New("transaction rejected")

	executeSelector = Selector("__execute__")
)

// AccountOptions tunes fee handling and polling.
type AccountOptions struct {
	// FeeMultiplier scales estimated amounts and prices. Defaults to 1.5.
	FeeMultiplier float64
	// Bounds, when set, skips estimation.
	Bounds *ResourceBounds
	// PollInterval between status checks. Defaults to one second.
	PollInterval time.Duration
	Tip          uint64
}

// Account signs and submits V3 transactions for a deployed account contract.
type Account struct {
	client  *Client
	address *felt.Felt
	signer  *Signer
	opts    AccountOptions

	mu      sync.Mutex
	chainID *felt.Felt
}

// NewAccount binds an account address to a signer.
func NewAccount(client *Client, address *felt.Felt, signer *Signer, opts AccountOptions) *Account {
	if opts.FeeMultiplier <= 0 {
		opts.FeeMultiplier = 1.5
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Account{client: client, address: address, signer: signer, opts: opts}
}

// Address is the account contract address.
func (a *Account) Address() *felt.Felt {
	return a.address
}

// Client exposes the underlying RPC client.
func (a *Account) Client() *Client {
	return a.client
}

func (a *Account) chain(ctx context.Context) (*felt.Felt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.chainID != nil {
		return a.chainID, nil
	}
	id, err := a.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	a.chainID = id
	return id, nil
}

func (a *Account) common(ctx context.Context) (TxCommon, error) {
	chainID, err := a.chain(ctx)
	if err != nil {
		return TxCommon{}, err
	}
	nonce, err := a.client.Nonce(ctx, Pending, a.address)
	if err != nil {
		return TxCommon{}, err
	}
	return TxCommon{Sender: a.address, Nonce: nonce, ChainID: chainID, Tip: a.opts.Tip}, nil
}

// Execute signs and broadcasts a multicall. It does not wait for inclusion.
func (a *Account) Execute(ctx context.Context, calls []Call) (*felt.Felt, error) {
	if len(calls) == 0 {
		return nil, errors.New("no calls to execute")
	}
	common, err := a.common(ctx)
	if err != nil {
		return nil, err
	}
	tx := &InvokeV3{TxCommon: common, Calldata: ExecuteCalldata(calls)}

	if a.opts.Bounds != nil {
		tx.Bounds = *a.opts.Bounds
	} else {
		query := *tx
		query.Query = true
		payload, err := a.invokePayload(&query)
		if err != nil {
			return nil, err
		}
		estimates, err := a.client.EstimateFee(ctx, []any{payload}, true)
		if err != nil {
			return nil, fmt.Errorf("estimate fee: %w", err)
		}
		tx.Bounds = a.boundsFrom(estimates[0])
	}

	payload, err := a.invokePayload(tx)
	if err != nil {
		return nil, err
	}
	return a.client.AddInvoke(ctx, payload)
}

// Declare signs and broadcasts a declare transaction for a Sierra class.
func (a *Account) Declare(ctx context.Context, class *SierraClass, classHash, compiledClassHash *felt.Felt) (*felt.Felt, error) {
	common, err := a.common(ctx)
	if err != nil {
		return nil, err
	}
	tx := &DeclareV3{TxCommon: common, ClassHash: classHash, CompiledClassHash: compiledClassHash}

	if a.opts.Bounds != nil {
		tx.Bounds = *a.opts.Bounds
	} else {
		query := *tx
		query.Query = true
		payload, err := a.declarePayload(&query, class)
		if err != nil {
			return nil, err
		}
		estimates, err := a.client.EstimateFee(ctx, []any{payload}, true)
		if err != nil {
			return nil, fmt.Errorf("estimate fee: %w", err)
		}
		tx.Bounds = a.boundsFrom(estimates[0])
	}

	payload, err := a.declarePayload(tx, class)
	if err != nil {
		return nil, err
	}
	res, err := a.client.AddDeclare(ctx, payload)
	if err != nil {
		return nil, err
	}
	return res.TransactionHash, nil
}

func (a *Account) signedCommon(typ string, c TxCommon, hash *felt.Felt) (broadcastedTxCommon, error) {
	sig, err := a.signer.Sign(hash)
	if err != nil {
		return broadcastedTxCommon{}, err
	}
	return broadcastedTxCommon{
		Type:                      typ,
		SenderAddress:             hexFelt(c.Sender),
		Version:                   hexFelt(c.version()),
		Signature:                 cairo.HexAll(sig),
		Nonce:                     hexFelt(c.Nonce),
		ResourceBounds:            boundsJSON(c.Bounds),
		Tip:                       fmt.Sprintf("0x%x", c.Tip),
		PaymasterData:             []string{},
		AccountDeploymentData:     []string{},
		NonceDataAvailabilityMode: "L1",
		FeeDataAvailabilityMode:   "L1",
	}, nil
}

func (a *Account) invokePayload(tx *InvokeV3) (*broadcastedInvoke, error) {
	common, err := a.signedCommon("INVOKE", tx.TxCommon, tx.Hash())
	if err != nil {
		return nil, err
	}
	return &broadcastedInvoke{broadcastedTxCommon: common, Calldata: cairo.HexAll(tx.Calldata)}, nil
}

func (a *Account) declarePayload(tx *DeclareV3, class *SierraClass) (*broadcastedDeclare, error) {
	common, err := a.signedCommon("DECLARE", tx.TxCommon, tx.Hash())
	if err != nil {
		return nil, err
	}
	abi, err := class.ABIString()
	if err != nil {
		return nil, err
	}
	return &broadcastedDeclare{
		broadcastedTxCommon: common,
		CompiledClassHash:   hexFelt(tx.CompiledClassHash),
		ContractClass: declareContractClass{
			SierraProgram:        cairo.HexAll(class.SierraProgram),
			ContractClassVersion: class.ContractClassVersion,
			EntryPointsByType: sierraEntryPoints{
				External:    entryPointsJSON(class.EntryPointsByType.External),
				L1Handler:   entryPointsJSON(class.EntryPointsByType.L1Handler),
				Constructor: entryPointsJSON(class.EntryPointsByType.Constructor),
			},
			ABI: abi,
		},
	}, nil
}

func entryPointsJSON(eps []SierraEntryPoint) []sierraEntryPoint {
	out := make([]sierraEntryPoint, len(eps))
	for i, ep := range eps {
		out[i] = sierraEntryPoint{Selector: hexFelt(ep.Selector), FunctionIdx: ep.FunctionIdx}
	}
	return out
}

func boundsJSON(b ResourceBounds) resourceBoundsJSON {
	conv := func(r ResourceBound) resourceBoundJSON {
		price := r.MaxPricePerUnit
		if price == nil {
			price = new(big.Int)
		}
		return resourceBoundJSON{
			MaxAmount:       fmt.Sprintf("0x%x", r.MaxAmount),
			MaxPricePerUnit: "0x" + price.Text(16),
		}
	}
	return resourceBoundsJSON{L1Gas: conv(b.L1Gas), L2Gas: conv(b.L2Gas), L1DataGas: conv(b.L1DataGas)}
}

func (a *Account) boundsFrom(est FeeEstimate) ResourceBounds {
	return ResourceBounds{
		L1Gas:     a.scaledBound(est.L1GasConsumed, est.L1GasPrice),
		L2Gas:     a.scaledBound(est.L2GasConsumed, est.L2GasPrice),
		L1DataGas: a.scaledBound(est.L1DataGasConsumed, est.L1DataGasPrice),
	}
}

func (a *Account) scaledBound(amount, price *felt.Felt) ResourceBound {
	return ResourceBound{
		MaxAmount:       scaleAmount(amount, a.opts.FeeMultiplier),
		MaxPricePerUnit: scale(price, a.opts.FeeMultiplier),
	}
}

func scale(f *felt.Felt, m float64) *big.Int {
	if f == nil {
		return new(big.Int)
	}
	v := new(big.Float).SetInt(cairo.ToBig(f))
	v.Mul(v, big.NewFloat(m))
	out, _ := v.Int(nil)
	return out
}

func scaleAmount(f *felt.Felt, m float64) uint64 {
	v := scale(f, m)
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}

// WaitForTransaction polls until the transaction reaches a success state.
// Unknown hashes are retried since nodes may not have seen the transaction yet.
func (a *Account) WaitForTransaction(ctx context.Context, hash *felt.Felt) (*TxStatus, error) {
	return WaitForTransaction(ctx, a.client, hash, a.opts.PollInterval)
}

// WaitForAcceptance polls until the transaction is accepted on L2 or L1.
func (a *Account) WaitForAcceptance(ctx context.Context, hash *felt.Felt) (*TxStatus, error) {
	return WaitForStatus(ctx, a.client, hash, a.opts.PollInterval, AcceptedStates)
}

// WaitForTransaction polls a transaction's status every interval until it
// reaches one of SuccessStates.
func WaitForTransaction(ctx context.Context, client *Client, hash *felt.Felt, interval time.Duration) (*TxStatus, error) {
	return WaitForStatus(ctx, client, hash, interval, SuccessStates)
}

// WaitForStatus polls a transaction's status every interval until its
// finality status is one of states.
func WaitForStatus(ctx context.Context, client *Client, hash *felt.Felt, interval time.Duration, states []string) (*TxStatus, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		st, err := client.TransactionStatus(ctx, hash)
		switch {
		case errors.Is(err, ErrTransactionNotFound):
		case err != nil:
			return nil, err
		case st.ExecutionStatus == ExecutionReverted:
			return st, fmt.Errorf("%w: %s: %s", ErrTransactionReverted, hexFelt(hash), st.FailureReason)
		case st.FinalityStatus == StatusRejected:
			return st, fmt.Errorf("%w: %s: %s", ErrTransactionRejected, hexFelt(hash), st.FailureReason)
		case slices.Contains(states, st.FinalityStatus):
			return st, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
