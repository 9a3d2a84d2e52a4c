package usecase

import (
	"context"
	"fmt"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

// PredictAddressParams contains parameters for predicting addresses
type PredictAddressParams struct {
	// Tags restricts the prediction to these [deploy] entries; empty
	// predicts all.
	Tags []string
}

// PredictAddressResult contains the planned deployments
type PredictAddressResult struct {
	Deployments []*PlannedDeployment
}

// PredictAddress computes UDC addresses of [deploy] entries without sending
// anything. Entries without a fixed salt get a random one, so their
// addresses only hold for a deploy run sharing that salt.
type PredictAddress struct {
	config    *config.RuntimeConfig
	manifests ManifestStore
	resolver  *ContractResolver
}

// NewPredictAddress creates a new PredictAddress use case
func NewPredictAddress(cfg *config.RuntimeConfig, manifests ManifestStore, resolver *ContractResolver) *PredictAddress {
	return &PredictAddress{config: cfg, manifests: manifests, resolver: resolver}
}

// Run predicts the addresses
func (uc *PredictAddress) Run(ctx context.Context, params PredictAddressParams) (*PredictAddressResult, error) {
	tags, err := selectTags(params.Tags, uc.config.ProfileOrder.Deploy, "deploy entry")
	if err != nil {
		return nil, err
	}
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	planner, err := newDeployPlanner(uc.config, m, uc.resolver)
	if err != nil {
		return nil, err
	}

	result := &PredictAddressResult{}
	for _, tag := range tags {
		planned, err := planner.plan(ctx, tag)
		if err != nil {
			return nil, err
		}
		result.Deployments = append(result.Deployments, planned)
	}
	return result, nil
}
