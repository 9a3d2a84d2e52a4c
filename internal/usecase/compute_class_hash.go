package usecase

import (
	"context"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

// ComputeClassHashParams names the artifacts to hash
type ComputeClassHashParams struct {
	SierraPath string
	CasmPath   string
}

// ComputeClassHashResult contains the hashes
type ComputeClassHashResult struct {
	SierraPath        string
	CasmPath          string
	ClassHash         string
	CompiledClassHash string
}

// ComputeClassHash hashes compiled class files
type ComputeClassHash struct {
	artifacts ArtifactRepository
}

// NewComputeClassHash creates a new ComputeClassHash use case
func NewComputeClassHash(artifacts ArtifactRepository) *ComputeClassHash {
	return &ComputeClassHash{artifacts: artifacts}
}

// Run computes the hashes
func (uc *ComputeClassHash) Run(ctx context.Context, params ComputeClassHashParams) (*ComputeClassHashResult, error) {
	artifact, err := uc.artifacts.LoadFiles(ctx, params.SierraPath, params.CasmPath)
	if err != nil {
		return nil, err
	}
	result := &ComputeClassHashResult{
		SierraPath: artifact.SierraPath,
		CasmPath:   artifact.CasmPath,
		ClassHash:  cairo.Hex(artifact.ClassHash),
	}
	if artifact.CompiledClassHash != nil {
		result.CompiledClassHash = cairo.Hex(artifact.CompiledClassHash)
	}
	return result, nil
}
