package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/domain/models"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// FileRepository stores the manifest of one profile in a JSON file
type FileRepository struct {
	path    string
	profile *config.ProfileConfig
	mu      sync.RWMutex
}

// NewFileRepository creates a repository for the manifest at path. Classes
// and contracts named in the profile seed every loaded manifest.
func NewFileRepository(path string, profile *config.ProfileConfig) *FileRepository {
	return &FileRepository{path: path, profile: profile}
}

// NewFileRepositoryFromConfig creates the repository of the active profile
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.ManifestPath, cfg.ProfileConfig)
}

// Path returns the manifest file location
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the manifest. A missing file yields the profile seed alone;
// entries read from the file win over the seed.
func (r *FileRepository) Load(ctx context.Context) (*models.Manifest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m := r.seed()
	data, err := os.ReadFile(r.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(r.path), err)
	default:
		var stored models.Manifest
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(r.path), err)
		}
		m.Merge(&stored)
	}
	m.MarkClean()
	return m, nil
}

// Save writes the manifest as indented JSON
func (r *FileRepository) Save(ctx context.Context, m *models.Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	// Write to temp file first
	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	// Atomic rename
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	m.MarkClean()
	return nil
}

func (r *FileRepository) seed() *models.Manifest {
	m := models.NewManifest()
	if r.profile == nil {
		return m
	}
	for tag, c := range r.profile.Classes {
		m.Classes[tag] = &models.Class{Tag: tag, ClassHash: c.ClassHash}
	}
	for tag, c := range r.profile.Contracts {
		m.Contracts[tag] = &models.Contract{
			Tag:             tag,
			ContractAddress: c.ContractAddress,
			ClassHash:       c.ClassHash,
		}
	}
	return m
}

var _ usecase.ManifestStore = (*FileRepository)(nil)
