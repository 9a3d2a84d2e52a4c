package artifacts

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

const sierraJSON = `{
  "sierra_program": ["0x1", "0x2", "0x3"],
  "contract_class_version": "0.1.0",
  "entry_points_by_type": {
    "EXTERNAL": [{"selector": "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e", "function_idx": 0}],
    "L1_HANDLER": [],
    "CONSTRUCTOR": []
  },
  "abi": []
}`

const casmJSON = `{
  "prime": "0x800000000000011000000000000000000000000000000000000000000000001",
  "compiler_version": "2.9.2",
  "bytecode": ["0x1", "0x2", "0x3"],
  "entry_points_by_type": {
    "EXTERNAL": [{"selector": "0x1", "offset": 0, "builtins": ["range_check"]}],
    "L1_HANDLER": [],
    "CONSTRUCTOR": []
  }
}`

func newTestRepository(t *testing.T, pkg string) (*Repository, *config.RuntimeConfig) {
	t.Helper()
	cfg := &config.RuntimeConfig{ProjectRoot: t.TempDir(), Profile: "dev"}
	if pkg != "" {
		cfg.Scarb = &config.ScarbConfig{}
		cfg.Scarb.Package.Name = pkg
	}
	require.NoError(t, os.MkdirAll(cfg.TargetDir(), 0755))
	return NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func expectedClassHash(t *testing.T) string {
	t.Helper()
	var sierra starknet.SierraClass
	require.NoError(t, json.Unmarshal([]byte(sierraJSON), &sierra))
	h, err := sierra.ClassHash()
	require.NoError(t, err)
	return h.String()
}

func TestLoadClass_DefaultPaths(t *testing.T) {
	repo, cfg := newTestRepository(t, "blob_arena")
	sierraPath := filepath.Join(cfg.TargetDir(), "blob_arena_arena_credit.contract_class.json")
	casmPath := filepath.Join(cfg.TargetDir(), "blob_arena_arena_credit.compiled_contract_class.json")
	writeFile(t, sierraPath, sierraJSON)
	writeFile(t, casmPath, casmJSON)

	artifact, err := repo.LoadClass(context.Background(), "credit", config.DeclareConfig{Name: "arena_credit"})
	require.NoError(t, err)

	assert.Equal(t, "credit", artifact.Tag)
	assert.Equal(t, "arena_credit", artifact.Name)
	assert.Equal(t, sierraPath, artifact.SierraPath)
	assert.Equal(t, casmPath, artifact.CasmPath)
	assert.Equal(t, expectedClassHash(t), artifact.ClassHash.String())
	require.NotNil(t, artifact.CompiledClassHash)
	assert.NotNil(t, artifact.Casm)
}

func TestLoadClass_NameDefaultsToTag(t *testing.T) {
	repo, cfg := newTestRepository(t, "blob_arena")
	writeFile(t, filepath.Join(cfg.TargetDir(), "blob_arena_world.contract_class.json"), sierraJSON)

	artifact, err := repo.LoadClass(context.Background(), "world", config.DeclareConfig{})
	require.NoError(t, err)
	assert.Equal(t, "world", artifact.Name)
	// no casm next to the sierra file is fine
	assert.Nil(t, artifact.CompiledClassHash)
	assert.Empty(t, artifact.CasmPath)
}

func TestLoadClass_ExplicitPaths(t *testing.T) {
	repo, cfg := newTestRepository(t, "")
	writeFile(t, filepath.Join(cfg.ProjectRoot, "vendor", "vrf.json"), sierraJSON)

	_, err := repo.LoadClass(context.Background(), "vrf", config.DeclareConfig{
		ContractPath: "vendor/vrf.json",
		CasmPath:     "vendor/vrf.casm.json",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "class vrf")

	writeFile(t, filepath.Join(cfg.ProjectRoot, "vendor", "vrf.casm.json"), casmJSON)
	artifact, err := repo.LoadClass(context.Background(), "vrf", config.DeclareConfig{
		ContractPath: "vendor/vrf.json",
		CasmPath:     "vendor/vrf.casm.json",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "vendor", "vrf.casm.json"), artifact.CasmPath)
}

func TestLoadClass_Errors(t *testing.T) {
	t.Run("no package name", func(t *testing.T) {
		repo, _ := newTestRepository(t, "")
		_, err := repo.LoadClass(context.Background(), "world", config.DeclareConfig{})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("missing sierra", func(t *testing.T) {
		repo, _ := newTestRepository(t, "blob_arena")
		_, err := repo.LoadClass(context.Background(), "world", config.DeclareConfig{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "scarb build")
	})

	t.Run("malformed sierra", func(t *testing.T) {
		repo, cfg := newTestRepository(t, "blob_arena")
		writeFile(t, filepath.Join(cfg.TargetDir(), "blob_arena_world.contract_class.json"), "{")
		_, err := repo.LoadClass(context.Background(), "world", config.DeclareConfig{})
		assert.ErrorContains(t, err, "failed to parse")
	})
}

func TestLoadFiles_Cached(t *testing.T) {
	repo, cfg := newTestRepository(t, "blob_arena")
	sierraPath := filepath.Join(cfg.TargetDir(), "blob_arena_world.contract_class.json")
	writeFile(t, sierraPath, sierraJSON)

	first, err := repo.LoadFiles(context.Background(), sierraPath, "")
	require.NoError(t, err)
	assert.Equal(t, "blob_arena_world", first.Name)

	require.NoError(t, os.Remove(sierraPath))
	second, err := repo.LoadFiles(context.Background(), sierraPath, "")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
