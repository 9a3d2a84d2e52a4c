package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/grugslair/blob-arena-contracts/internal/calldata"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// GenerateBindingsParams contains parameters for generating bindings
type GenerateBindingsParams struct {
	Tag string
	// Package defaults to "bindings".
	Package string
	// Output defaults to bindings/<tag>.go under the project root.
	Output string
	Force  bool
}

// GenerateBindingsResult contains the generated file
type GenerateBindingsResult struct {
	Path      string
	Functions int
}

// GenerateBindings renders Go bindings for the class of a manifest contract
type GenerateBindings struct {
	manifests ManifestStore
	resolver  *ContractResolver
	generator BindingGenerator
	files     FileWriter
	config    *config.RuntimeConfig
}

// NewGenerateBindings creates a new GenerateBindings use case
func NewGenerateBindings(
	cfg *config.RuntimeConfig,
	manifests ManifestStore,
	resolver *ContractResolver,
	generator BindingGenerator,
	files FileWriter,
) *GenerateBindings {
	return &GenerateBindings{
		manifests: manifests,
		resolver:  resolver,
		generator: generator,
		files:     files,
		config:    cfg,
	}
}

// Run generates the bindings
func (uc *GenerateBindings) Run(ctx context.Context, params GenerateBindingsParams) (*GenerateBindingsResult, error) {
	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	contract, err := uc.resolver.Contract(ctx, m, params.Tag)
	if err != nil {
		return nil, err
	}
	if err := saveIfChanged(ctx, uc.manifests, m); err != nil {
		return nil, err
	}
	raw, _ := m.ABI(classKey(contract.ClassHash))
	abi, err := starknet.ABIArray(raw)
	if err != nil {
		return nil, fmt.Errorf("abi of %s: %w", params.Tag, err)
	}

	spec := &BindingSpec{
		Package:   params.Package,
		TypeName:  calldata.Pascal(params.Tag),
		Tag:       params.Tag,
		ClassHash: contract.ClassHash,
		ABI:       string(abi),
	}
	if spec.Package == "" {
		spec.Package = "bindings"
	}
	for _, name := range contract.ABI.FunctionNames() {
		spec.Functions = append(spec.Functions, contract.ABI.Functions[name])
	}

	path := params.Output
	if path == "" {
		path = filepath.Join(uc.config.ProjectRoot, "bindings", params.Tag+".go")
	}
	exists, err := uc.files.FileExists(ctx, path)
	if err != nil {
		return nil, err
	}
	if exists && !params.Force {
		return nil, fmt.Errorf("%w: %s (use --force to overwrite)", domain.ErrAlreadyExists, path)
	}

	source, err := uc.generator.GenerateBindings(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bindings: %w", err)
	}
	if err := uc.files.WriteFile(ctx, path, source); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return &GenerateBindingsResult{Path: path, Functions: len(spec.Functions)}, nil
}
