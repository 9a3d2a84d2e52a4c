package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

const (
	sierraSuffix = ".contract_class.json"
	casmSuffix   = ".compiled_contract_class.json"
)

// Repository reads and hashes the classes scarb writes to target/<profile>
type Repository struct {
	projectRoot string
	targetDir   string
	pkg         string
	log         *slog.Logger
	mu          sync.Mutex
	cache       map[string]*usecase.ClassArtifact // key: sierra path
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		projectRoot: cfg.ProjectRoot,
		targetDir:   cfg.TargetDir(),
		pkg:         cfg.PackageName(),
		log:         log,
		cache:       make(map[string]*usecase.ClassArtifact),
	}
}

// LoadClass resolves the artifact files of a [declare.<tag>] entry. The
// contract name defaults to the tag; explicit paths are project relative.
func (r *Repository) LoadClass(ctx context.Context, tag string, decl config.DeclareConfig) (*usecase.ClassArtifact, error) {
	name := decl.Name
	if name == "" {
		name = tag
	}

	sierraPath := r.abs(decl.ContractPath)
	if sierraPath == "" {
		if r.pkg == "" {
			return nil, fmt.Errorf("%w: no package name in Scarb.toml to locate %s", domain.ErrInvalidConfig, name)
		}
		sierraPath = filepath.Join(r.targetDir, fmt.Sprintf("%s_%s%s", r.pkg, name, sierraSuffix))
	}

	artifact, err := r.LoadFiles(ctx, sierraPath, r.abs(decl.CasmPath))
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", tag, err)
	}
	out := *artifact
	out.Tag = tag
	out.Name = name
	return &out, nil
}

// LoadFiles hashes a sierra file and its casm sibling. When casmPath is
// empty the sibling is derived from the sierra name; a missing derived
// sibling leaves the compiled class hash unset.
func (r *Repository) LoadFiles(ctx context.Context, sierraPath, casmPath string) (*usecase.ClassArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[sierraPath]; ok && (casmPath == "" || cached.CasmPath == casmPath) {
		return cached, nil
	}

	var sierra starknet.SierraClass
	if err := readJSON(sierraPath, &sierra); err != nil {
		return nil, err
	}
	classHash, err := sierra.ClassHash()
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", filepath.Base(sierraPath), err)
	}
	artifact := &usecase.ClassArtifact{
		Name:       strings.TrimSuffix(filepath.Base(sierraPath), sierraSuffix),
		SierraPath: sierraPath,
		Sierra:     &sierra,
		ClassHash:  classHash,
	}

	explicit := casmPath != ""
	if !explicit {
		casmPath = strings.TrimSuffix(sierraPath, sierraSuffix) + casmSuffix
	}
	var casm starknet.CasmClass
	switch err := readJSON(casmPath, &casm); {
	case err == nil:
		if artifact.CompiledClassHash, err = casm.CompiledClassHash(); err != nil {
			return nil, fmt.Errorf("hash %s: %w", filepath.Base(casmPath), err)
		}
		artifact.CasmPath = casmPath
		artifact.Casm = &casm
	case explicit || !errors.Is(err, domain.ErrNotFound):
		return nil, err
	default:
		r.log.Debug("no casm artifact", "path", casmPath)
	}

	r.cache[sierraPath] = artifact
	return artifact, nil
}

func (r *Repository) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.projectRoot, path)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: artifact %s (run scarb build)", domain.ErrNotFound, path)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
