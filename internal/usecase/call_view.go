package usecase

import (
	"context"
	"fmt"

	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// CallViewParams contains parameters for a read-only call
type CallViewParams struct {
	Tag        string
	Entrypoint string
	Args       any
}

// CallViewResult contains the raw and decoded call output
type CallViewResult struct {
	Tag        string
	Entrypoint string
	Raw        []string
	Value      any
}

// CallView calls a contract entrypoint without a transaction and decodes
// the result against the contract ABI.
type CallView struct {
	manifests ManifestStore
	resolver  *ContractResolver
	chain     ChainReader
}

// NewCallView creates a new CallView use case
func NewCallView(manifests ManifestStore, resolver *ContractResolver, chain ChainReader) *CallView {
	return &CallView{manifests: manifests, resolver: resolver, chain: chain}
}

// Run executes the call
func (uc *CallView) Run(ctx context.Context, params CallViewParams) (*CallViewResult, error) {
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	value, raw, err := callView(ctx, uc.chain, uc.resolver, m, params.Tag, params.Entrypoint, params.Args)
	if err != nil {
		return nil, err
	}
	if err := saveIfChanged(ctx, uc.manifests, m); err != nil {
		return nil, err
	}
	return &CallViewResult{
		Tag:        params.Tag,
		Entrypoint: params.Entrypoint,
		Raw:        raw,
		Value:      value,
	}, nil
}

// call runs a view against an already loaded manifest and returns the
// decoded output.
func (uc *CallView) call(ctx context.Context, m *models.Manifest, tag, entrypoint string, args any) (any, error) {
	value, _, err := callView(ctx, uc.chain, uc.resolver, m, tag, entrypoint, args)
	return value, err
}

func callView(ctx context.Context, chain ChainReader, resolver *ContractResolver, m *models.Manifest, tag, entrypoint string, args any) (any, []string, error) {
	contract, err := resolver.Contract(ctx, m, tag)
	if err != nil {
		return nil, nil, err
	}
	calldata, err := contract.ABI.EncodeInputs(entrypoint, args)
	if err != nil {
		return nil, nil, fmt.Errorf("%s.%s: %w", tag, entrypoint, err)
	}
	out, err := chain.Call(ctx, starknet.Call{
		To:       contract.Address,
		Selector: starknet.Selector(entrypoint),
		Calldata: calldata,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s.%s: %w", tag, entrypoint, err)
	}
	value, err := contract.ABI.DecodeOutputs(entrypoint, out)
	if err != nil {
		return nil, nil, fmt.Errorf("%s.%s: decode output: %w", tag, entrypoint, err)
	}
	return value, cairo.HexAll(out), nil
}

// saveIfChanged persists class hashes and ABIs the resolver fetched.
func saveIfChanged(ctx context.Context, store ManifestStore, m *models.Manifest) error {
	if !m.Dirty() {
		return nil
	}
	if err := store.Save(ctx, m); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}
