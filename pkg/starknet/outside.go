package starknet

import (
	"context"
	"fmt"
	"time"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

var (
	// AnyCaller lets any account submit an outside execution.
	AnyCaller = cairo.MustShortString("ANY_CALLER")

	outsideExecutionTypeHash = Keccak([]byte(`"OutsideExecution"("Caller":"ContractAddress","Nonce":"felt",` +
		`"Execute After":"u128","Execute Before":"u128","Calls":"Call*")` + outsideCallType))
	outsideCallTypeHash = Keccak([]byte(outsideCallType))
	starknetDomainHash  = Keccak([]byte(`"StarknetDomain"("name":"shortstring","version":"shortstring",` +
		`"chainId":"shortstring","revision":"shortstring")`))

	outsideDomainName = cairo.MustShortString("Account.execute_from_outside")
	messagePrefix     = cairo.MustShortString("StarkNet Message")

	executeFromOutsideSelector = Selector("execute_from_outside_v2")
)

const outsideCallType = `"Call"("To":"ContractAddress","Selector":"selector","Calldata":"felt*")`

// OutsideWindow is how long either side of now a signed outside execution
// stays valid.
const OutsideWindow = time.Hour

// OutsideExecution is a batch of calls an account signs for another account
// to submit through execute_from_outside_v2 (SNIP-9 v2, typed data revision 1).
type OutsideExecution struct {
	Caller        *felt.Felt
	Nonce         *felt.Felt
	ExecuteAfter  uint64
	ExecuteBefore uint64
	Calls         []Call
}

// Hash is the typed data message hash signer signs on chainID.
func (o *OutsideExecution) Hash(chainID, signer *felt.Felt) *felt.Felt {
	domain := crypto.PoseidonArray(
		starknetDomainHash,
		outsideDomainName,
		new(felt.Felt).SetUint64(2),
		chainID,
		new(felt.Felt).SetUint64(1),
	)
	calls := make([]*felt.Felt, len(o.Calls))
	for i, c := range o.Calls {
		calls[i] = crypto.PoseidonArray(outsideCallTypeHash, c.To, c.Selector, crypto.PoseidonArray(c.Calldata...))
	}
	message := crypto.PoseidonArray(
		outsideExecutionTypeHash,
		o.Caller,
		o.Nonce,
		new(felt.Felt).SetUint64(o.ExecuteAfter),
		new(felt.Felt).SetUint64(o.ExecuteBefore),
		crypto.PoseidonArray(calls...),
	)
	return crypto.PoseidonArray(messagePrefix, domain, signer, message)
}

// Calldata serializes the execution and its signature for
// execute_from_outside_v2.
func (o *OutsideExecution) Calldata(signature []*felt.Felt) []*felt.Felt {
	out := []*felt.Felt{
		o.Caller,
		o.Nonce,
		new(felt.Felt).SetUint64(o.ExecuteAfter),
		new(felt.Felt).SetUint64(o.ExecuteBefore),
	}
	out = append(out, ExecuteCalldata(o.Calls)...)
	out = append(out, new(felt.Felt).SetUint64(uint64(len(signature))))
	return append(out, signature...)
}

// Call wraps the signed execution into the call the submitting account makes
// on signer.
func (o *OutsideExecution) Call(signer *felt.Felt, signature []*felt.Felt) Call {
	return Call{To: signer, Selector: executeFromOutsideSelector, Calldata: o.Calldata(signature)}
}

// SignOutsideExecution signs calls for caller to submit on this account's
// behalf, valid for OutsideWindow either side of now.
func (a *Account) SignOutsideExecution(ctx context.Context, caller *felt.Felt, calls []Call) (Call, error) {
	chainID, err := a.chain(ctx)
	if err != nil {
		return Call{}, err
	}
	nonce, err := new(felt.Felt).SetRandom()
	if err != nil {
		return Call{}, fmt.Errorf("outside execution nonce: %w", err)
	}
	now := time.Now()
	o := &OutsideExecution{
		Caller:        caller,
		Nonce:         nonce,
		ExecuteAfter:  uint64(now.Add(-OutsideWindow).Unix()),
		ExecuteBefore: uint64(now.Add(OutsideWindow).Unix()),
		Calls:         calls,
	}
	sig, err := a.signer.Sign(o.Hash(chainID, a.address))
	if err != nil {
		return Call{}, err
	}
	return o.Call(a.address, sig), nil
}
