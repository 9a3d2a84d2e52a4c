package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/sourcegraph/conc/iter"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// DeclareClassesParams contains parameters for declaring classes
type DeclareClassesParams struct {
	// Tags restricts the run to these [declare] entries; empty declares all.
	Tags []string
}

// DeclaredClass is the outcome for one class
type DeclaredClass struct {
	Tag               string
	ClassHash         string
	CompiledClassHash string
	TransactionHash   string
	AlreadyDeclared   bool
}

// DeclareClassesResult contains the result of declaring classes
type DeclareClassesResult struct {
	Classes []DeclaredClass
	DryRun  bool
}

// DeclareClasses declares the profile's compiled classes that the chain does
// not know yet and registers every class in the manifest.
type DeclareClasses struct {
	config    *config.RuntimeConfig
	manifests ManifestStore
	artifacts ArtifactRepository
	chain     ChainReader
	accounts  AccountProvider
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeclareClasses creates a new DeclareClasses use case
func NewDeclareClasses(
	cfg *config.RuntimeConfig,
	manifests ManifestStore,
	artifacts ArtifactRepository,
	chain ChainReader,
	accounts AccountProvider,
	progress ProgressSink,
	log *slog.Logger,
) *DeclareClasses {
	return &DeclareClasses{
		config:    cfg,
		manifests: manifests,
		artifacts: artifacts,
		chain:     chain,
		accounts:  accounts,
		progress:  progress,
		log:       log,
	}
}

// Run declares the classes
func (uc *DeclareClasses) Run(ctx context.Context, params DeclareClassesParams) (*DeclareClassesResult, error) {
	tags, err := selectTags(params.Tags, uc.config.ProfileOrder.Declare, "declare entry")
	if err != nil {
		return nil, err
	}
	result := &DeclareClassesResult{DryRun: uc.config.DryRun}
	if len(tags) == 0 {
		return result, nil
	}

	artifacts := make([]*ClassArtifact, 0, len(tags))
	for i, tag := range tags {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "loading",
			Current: i + 1,
			Total:   len(tags),
			Message: fmt.Sprintf("Loading %s", tag),
			Spinner: true,
		})
		artifact, err := uc.artifacts.LoadClass(ctx, tag, uc.config.ProfileConfig.Declare[tag])
		if err != nil {
			return nil, fmt.Errorf("failed to load class %s: %w", tag, err)
		}
		artifacts = append(artifacts, artifact)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "checking",
		Message: "Checking declared classes",
		Spinner: true,
	})
	declared, err := iter.MapErr(artifacts, func(a **ClassArtifact) (bool, error) {
		return uc.chain.IsClassDeclared(ctx, (*a).ClassHash)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check declared classes: %w", err)
	}

	m, err := uc.manifests.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	var account Account
	for i, artifact := range artifacts {
		abi, err := starknet.ABIArray(artifact.Sierra.ABI)
		if err != nil {
			return nil, fmt.Errorf("class %s: invalid abi: %w", artifact.Tag, err)
		}
		entry := DeclaredClass{
			Tag:               artifact.Tag,
			ClassHash:         cairo.Hex(artifact.ClassHash),
			CompiledClassHash: cairo.Hex(artifact.CompiledClassHash),
			AlreadyDeclared:   declared[i],
		}

		switch {
		case declared[i]:
			uc.progress.Info(fmt.Sprintf(" - %s already declared", artifact.Tag))
		case result.DryRun:
			uc.progress.Info(fmt.Sprintf(" - %s would be declared as %s", artifact.Tag, entry.ClassHash))
		default:
			if account == nil {
				if account, err = uc.accounts.Account(ctx, ""); err != nil {
					return nil, err
				}
			}
			hash, err := uc.declare(ctx, account, artifact)
			if err != nil {
				return result, uc.fail(ctx, m, fmt.Errorf("failed to declare %s: %w", artifact.Tag, err))
			}
			entry.TransactionHash = cairo.Hex(hash)
			m.AddDeclaration(artifact.Tag, &models.Declaration{
				ClassHash:         entry.ClassHash,
				CompiledClassHash: entry.CompiledClassHash,
				TransactionHash:   entry.TransactionHash,
			})
			uc.progress.Info(fmt.Sprintf(" - %s declared in %s", artifact.Tag, entry.TransactionHash))
		}

		m.AddClass(artifact.Tag, entry.ClassHash, abi)
		result.Classes = append(result.Classes, entry)
	}

	if result.DryRun {
		return result, nil
	}
	if err := uc.manifests.Save(ctx, m); err != nil {
		return result, fmt.Errorf("failed to save manifest: %w", err)
	}
	return result, nil
}

func (uc *DeclareClasses) declare(ctx context.Context, account Account, artifact *ClassArtifact) (*felt.Felt, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "declaring",
		Message: fmt.Sprintf("Declaring %s", artifact.Tag),
		Spinner: true,
	})
	hash, err := account.Declare(ctx, artifact.Sierra, artifact.ClassHash, artifact.CompiledClassHash)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("declare sent", "tag", artifact.Tag, "hash", cairo.Hex(hash))
	if err := waitFor(ctx, account, hash); err != nil {
		return hash, err
	}
	return hash, nil
}

// fail saves what was declared so far and returns err.
func (uc *DeclareClasses) fail(ctx context.Context, m *models.Manifest, err error) error {
	if saveErr := uc.manifests.Save(ctx, m); saveErr != nil {
		uc.log.Error("failed to save manifest", "error", saveErr)
	}
	return err
}

// selectTags validates requested tags against the profile's ordered tags.
func selectTags(requested, known []string, kind string) ([]string, error) {
	if len(requested) == 0 {
		return known, nil
	}
	for _, tag := range requested {
		if !slices.Contains(known, tag) {
			return nil, domain.NewTagNotFound(kind, tag, known)
		}
	}
	return requested, nil
}
