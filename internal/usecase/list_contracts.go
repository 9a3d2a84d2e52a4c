package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
)

// ListContractsParams contains parameters for listing manifest entries
type ListContractsParams struct {
	// Filter keeps tags containing this substring.
	Filter string
}

// ContractSummary is one row of the contract listing
type ContractSummary struct {
	Tag             string
	ContractAddress string
	ClassHash       string
	Class           string
	Status          models.DeploymentStatus
}

// ListContractsResult contains the listed contracts and classes
type ListContractsResult struct {
	Contracts []ContractSummary
	Classes   []models.Class
	Summary   ListSummary
}

// ListSummary counts the listing
type ListSummary struct {
	Contracts int
	Classes   int
	Failed    int
	Declared  int
}

// ListContracts lists the contracts and classes of the manifest
type ListContracts struct {
	manifests ManifestStore
	progress  ProgressSink
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(manifests ManifestStore, progress ProgressSink) *ListContracts {
	return &ListContracts{manifests: manifests, progress: progress}
}

// Run lists the manifest
func (uc *ListContracts) Run(ctx context.Context, params ListContractsParams) (*ListContractsResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading manifest",
		Spinner: true,
	})
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	result := &ListContractsResult{}
	for _, tag := range m.ContractTags() {
		if !strings.Contains(tag, params.Filter) {
			continue
		}
		c := m.Contracts[tag]
		row := ContractSummary{
			Tag:             tag,
			ContractAddress: c.ContractAddress,
			ClassHash:       c.ClassHash,
			Class:           c.Class,
		}
		if d, ok := m.Deployments[tag]; ok {
			row.Status = d.Status
			if d.Status == models.DeploymentFailed {
				result.Summary.Failed++
			}
		}
		result.Contracts = append(result.Contracts, row)
	}
	for _, tag := range m.ClassTags() {
		if !strings.Contains(tag, params.Filter) {
			continue
		}
		class := *m.Classes[tag]
		class.Tag = tag
		result.Classes = append(result.Classes, class)
		if _, ok := m.Declarations[tag]; ok {
			result.Summary.Declared++
		}
	}
	result.Summary.Contracts = len(result.Contracts)
	result.Summary.Classes = len(result.Classes)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: fmt.Sprintf("Found %d contracts and %d classes", result.Summary.Contracts, result.Summary.Classes),
	})
	return result, nil
}
