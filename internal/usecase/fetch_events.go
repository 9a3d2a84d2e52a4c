package usecase

import (
	"context"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/dojo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// DefaultWorldTag is the manifest tag of the dojo world contract.
const DefaultWorldTag = "world"

// FetchEventsParams contains parameters for fetching dojo events
type FetchEventsParams struct {
	// Tags are dojo "<namespace>-<Name>" model or event tags.
	Tags []string
	// World is the manifest tag of the world contract.
	World string
	// ABISource names a manifest contract whose ABI declares the structs of
	// tags that are not manifest contracts themselves.
	ABISource string
	FromBlock *uint64
	ToBlock   *uint64
}

// FetchEventsResult contains the decoded records
type FetchEventsResult struct {
	Records []dojo.Decoded
}

// FetchEvents reads the world's dojo events for the given tags and decodes
// them with the ABIs found in the manifest
type FetchEvents struct {
	manifests ManifestStore
	resolver  *ContractResolver
	chain     ChainReader
	progress  ProgressSink
}

// NewFetchEvents creates a new FetchEvents use case
func NewFetchEvents(manifests ManifestStore, resolver *ContractResolver, chain ChainReader, progress ProgressSink) *FetchEvents {
	return &FetchEvents{manifests: manifests, resolver: resolver, chain: chain, progress: progress}
}

// Run fetches the events
func (uc *FetchEvents) Run(ctx context.Context, params FetchEventsParams) (*FetchEventsResult, error) {
	if len(params.Tags) == 0 {
		return nil, fmt.Errorf("at least one tag is required")
	}
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	worldTag := params.World
	if worldTag == "" {
		worldTag = DefaultWorldTag
	}
	world, err := m.Contract(worldTag)
	if err != nil {
		return nil, err
	}
	worldAddress, err := cairo.ParseFelt(world.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", worldTag, err)
	}

	abis, err := uc.abis(ctx, m, params)
	if err != nil {
		return nil, err
	}
	parser, err := dojo.NewParser(params.Tags, abis)
	if err != nil {
		return nil, err
	}

	selectors := make([]*felt.Felt, 0, len(params.Tags))
	for _, tag := range params.Tags {
		sel, err := dojo.TagSelector(tag)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	filter := starknet.EventFilter{
		FromBlock: blockID(params.FromBlock),
		ToBlock:   blockID(params.ToBlock),
		Address:   worldAddress,
		Keys:      [][]*felt.Felt{{dojo.EventEmittedSelector, dojo.StoreSetRecordSelector}, selectors},
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "fetching",
		Message: fmt.Sprintf("Fetching events of %d tags", len(params.Tags)),
		Spinner: true,
	})
	events, err := uc.chain.Events(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	records, err := parser.Parse(events)
	if err != nil {
		return nil, err
	}
	if err := saveIfChanged(ctx, uc.manifests, m); err != nil {
		return nil, err
	}
	return &FetchEventsResult{Records: records}, nil
}

func (uc *FetchEvents) abis(ctx context.Context, m *models.Manifest, params FetchEventsParams) (map[string]*cairo.ABI, error) {
	var fallback *cairo.ABI
	if params.ABISource != "" {
		source, err := uc.resolver.Contract(ctx, m, params.ABISource)
		if err != nil {
			return nil, err
		}
		fallback = source.ABI
	}
	abis := map[string]*cairo.ABI{}
	for _, tag := range params.Tags {
		if _, ok := m.Contracts[tag]; ok {
			c, err := uc.resolver.Contract(ctx, m, tag)
			if err != nil {
				return nil, err
			}
			abis[tag] = c.ABI
			continue
		}
		if fallback != nil {
			abis[tag] = fallback
		}
	}
	return abis, nil
}

func blockID(n *uint64) *starknet.BlockID {
	if n == nil {
		return nil
	}
	return &starknet.BlockID{Number: n}
}
