package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// ShowContractParams contains parameters for showing a contract
type ShowContractParams struct {
	// Tag may be partial; an empty or ambiguous tag prompts for a choice
	// when running interactively.
	Tag string
	// WithABI resolves the contract ABI, fetching it from chain if needed.
	WithABI bool
}

// ShowContractResult contains the details of a manifest contract
type ShowContractResult struct {
	Contract    models.Contract
	Deployment  *models.Deployment
	Declaration *models.Declaration
	Functions   []*cairo.Function
}

// ShowContract shows a contract's manifest records and, optionally, its
// entrypoints
type ShowContract struct {
	config    *config.RuntimeConfig
	manifests ManifestStore
	resolver  *ContractResolver
	selector  TagSelector
}

// NewShowContract creates a new ShowContract use case
func NewShowContract(cfg *config.RuntimeConfig, manifests ManifestStore, resolver *ContractResolver, selector TagSelector) *ShowContract {
	return &ShowContract{config: cfg, manifests: manifests, resolver: resolver, selector: selector}
}

// Run shows the contract
func (uc *ShowContract) Run(ctx context.Context, params ShowContractParams) (*ShowContractResult, error) {
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	tag, err := uc.resolveTag(ctx, m, params.Tag)
	if err != nil {
		return nil, err
	}

	c := m.Contracts[tag]
	result := &ShowContractResult{Contract: *c, Deployment: m.Deployments[tag]}
	result.Contract.Tag = tag
	if c.Class != "" {
		result.Declaration = m.Declarations[c.Class]
	}

	if params.WithABI {
		resolved, err := uc.resolver.Contract(ctx, m, tag)
		if err != nil {
			return nil, err
		}
		result.Contract.ClassHash = resolved.ClassHash
		for _, name := range resolved.ABI.FunctionNames() {
			result.Functions = append(result.Functions, resolved.ABI.Functions[name])
		}
		if err := saveIfChanged(ctx, uc.manifests, m); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (uc *ShowContract) resolveTag(ctx context.Context, m *models.Manifest, tag string) (string, error) {
	if _, ok := m.Contracts[tag]; ok {
		return tag, nil
	}
	candidates := m.ContractTags()
	if tag != "" {
		_, err := m.Contract(tag)
		var notFound *domain.TagNotFoundError
		if !errors.As(err, &notFound) || len(notFound.Suggestions) == 0 || uc.config.NonInteractive {
			return "", err
		}
		if len(notFound.Suggestions) == 1 {
			return notFound.Suggestions[0], nil
		}
		candidates = notFound.Suggestions
	}
	if uc.config.NonInteractive {
		return "", fmt.Errorf("a contract tag is required in non-interactive mode")
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: the manifest has no contracts", domain.ErrNotFound)
	}
	return uc.selector.SelectTag(ctx, candidates, "Select a contract")
}
