package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// ResolvedContract is a manifest contract with its parsed ABI
type ResolvedContract struct {
	models.Contract
	Address *felt.Felt
	ABI     *cairo.ABI
}

// ContractResolver turns manifest tags into addresses and ABIs. Missing class
// hashes and ABIs are fetched from chain and cached in the manifest, which is
// then marked dirty.
type ContractResolver struct {
	chain ChainReader
	log   *slog.Logger

	mu     sync.Mutex
	parsed map[string]*cairo.ABI
}

// NewContractResolver creates a new ContractResolver
func NewContractResolver(chain ChainReader, log *slog.Logger) *ContractResolver {
	return &ContractResolver{chain: chain, log: log, parsed: map[string]*cairo.ABI{}}
}

// ClassABI returns the ABI of a class, from the manifest cache or the chain.
func (r *ContractResolver) ClassABI(ctx context.Context, m *models.Manifest, classHash string) (*cairo.ABI, error) {
	hash, err := cairo.ParseFelt(classHash)
	if err != nil {
		return nil, fmt.Errorf("class hash %q: %w", classHash, err)
	}
	key := cairo.Hex(hash)

	r.mu.Lock()
	abi, ok := r.parsed[key]
	r.mu.Unlock()
	if ok {
		return abi, nil
	}

	raw, ok := m.ABI(key)
	if !ok {
		r.log.Debug("fetching abi from chain", "class_hash", key)
		raw, err = r.chain.ClassABI(ctx, hash)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch abi of class %s: %w", key, err)
		}
		m.CacheABI(key, raw)
	}
	abi, err = cairo.ParseABI(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi of class %s: %w", key, err)
	}

	r.mu.Lock()
	r.parsed[key] = abi
	r.mu.Unlock()
	return abi, nil
}

// Contract resolves a manifest tag.
func (r *ContractResolver) Contract(ctx context.Context, m *models.Manifest, tag string) (*ResolvedContract, error) {
	c, err := m.Contract(tag)
	if err != nil {
		return nil, err
	}
	address, err := cairo.ParseFelt(c.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("contract %s: invalid address %q: %w", tag, c.ContractAddress, err)
	}
	if c.ClassHash == "" {
		hash, err := r.chain.ClassHashAt(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("failed to get class hash of %s: %w", tag, err)
		}
		m.SetContractClassHash(tag, cairo.Hex(hash))
	}
	abi, err := r.ClassABI(ctx, m, c.ClassHash)
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", tag, err)
	}
	return &ResolvedContract{Contract: *c, Address: address, ABI: abi}, nil
}

// Encode resolves each call's contract and encodes its arguments.
func (r *ContractResolver) Encode(ctx context.Context, m *models.Manifest, calls []domain.Call) ([]domain.EncodedCall, error) {
	out := make([]domain.EncodedCall, 0, len(calls))
	for _, call := range calls {
		contract, err := r.Contract(ctx, m, call.Tag)
		if err != nil {
			return nil, err
		}
		calldata, err := contract.ABI.EncodeInputs(call.Entrypoint, call.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", call, err)
		}
		out = append(out, domain.EncodedCall{
			Call:            call,
			ContractAddress: cairo.Hex(contract.Address),
			Selector:        cairo.Hex(starknet.Selector(call.Entrypoint)),
			Calldata:        cairo.HexAll(calldata),
		})
	}
	return out, nil
}

// classKey normalizes a class hash to its manifest key, leaving malformed
// input untouched.
func classKey(classHash string) string {
	hash, err := cairo.ParseFelt(classHash)
	if err != nil {
		return classHash
	}
	return cairo.Hex(hash)
}

// toStarknetCalls converts encoded calls back to felts for submission.
func toStarknetCalls(encoded []domain.EncodedCall) ([]starknet.Call, error) {
	calls := make([]starknet.Call, 0, len(encoded))
	for _, e := range encoded {
		to, err := cairo.ParseFelt(e.ContractAddress)
		if err != nil {
			return nil, err
		}
		data, err := cairo.ParseFelts(e.Calldata)
		if err != nil {
			return nil, err
		}
		calls = append(calls, starknet.Call{To: to, Selector: starknet.Selector(e.Entrypoint), Calldata: data})
	}
	return calls, nil
}
