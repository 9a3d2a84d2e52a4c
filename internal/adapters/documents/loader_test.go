package documents

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/internal/calldata"
	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

func newTestLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	cfg := &config.RuntimeConfig{ProjectRoot: t.TempDir()}
	dir := cfg.ConfigDir()
	require.NoError(t, os.MkdirAll(dir, 0755))
	return NewLoader(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadDocument_JSON(t *testing.T) {
	loader, dir := newTestLoader(t)
	write(t, dir, "attacks.json", `{"attacks": [{"id": 340282366920938463463374607431768211456, "name": "Punch"}]}`)

	doc, err := loader.LoadDocument(context.Background(), "attacks")
	require.NoError(t, err)

	attacks := doc["attacks"].([]any)
	require.Len(t, attacks, 1)
	attack := attacks[0].(map[string]any)
	assert.Equal(t, "Punch", attack["name"])
	// big integers stay exact
	assert.Equal(t, json.Number("340282366920938463463374607431768211456"), attack["id"])
}

func TestLoadDocument_YAML(t *testing.T) {
	loader, dir := newTestLoader(t)
	write(t, dir, "loadouts.yaml", "loadouts:\n  - name: Knight\n    attacks: [1, 2]\n")

	doc, err := loader.LoadDocument(context.Background(), "loadouts")
	require.NoError(t, err)
	loadouts := doc["loadouts"].([]any)
	assert.Equal(t, "Knight", loadouts[0].(map[string]any)["name"])
}

func TestLoadDocument_JSONBeforeYAML(t *testing.T) {
	loader, dir := newTestLoader(t)
	write(t, dir, "arcade.json", `{"source": "json"}`)
	write(t, dir, "arcade.yml", "source: yaml\n")

	doc, err := loader.LoadDocument(context.Background(), "arcade")
	require.NoError(t, err)
	assert.Equal(t, "json", doc["source"])
}

func TestLoadDocument_Empty(t *testing.T) {
	loader, dir := newTestLoader(t)
	write(t, dir, "empty.yaml", "")

	doc, err := loader.LoadDocument(context.Background(), "empty")
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, doc)
}

func TestLoadDocument_Missing(t *testing.T) {
	loader, dir := newTestLoader(t)

	_, err := loader.LoadDocument(context.Background(), "attacks")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), dir)
}

func TestLoadDocument_Schema(t *testing.T) {
	loader, dir := newTestLoader(t)
	write(t, dir, "attacks.schema.json", `{
  "type": "object",
  "required": ["attacks"],
  "properties": {"attacks": {"type": "array"}}
}`)

	write(t, dir, "attacks.json", `{"attacks": []}`)
	_, err := loader.LoadDocument(context.Background(), "attacks")
	require.NoError(t, err)

	write(t, dir, "attacks.json", `{"attacks": {}}`)
	_, err = loader.LoadDocument(context.Background(), "attacks")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "attacks")
}

func TestLoadDocument_CustomDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.RuntimeConfig{
		ProjectRoot:   "/elsewhere",
		ProfileConfig: &config.ProfileConfig{Seed: config.SeedConfig{ConfigDir: dir}},
	}
	write(t, dir, "amma.json", `{"fighters": 3}`)

	doc, err := NewLoader(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).LoadDocument(context.Background(), "amma")
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), doc["fighters"])
}

func TestLoadDocument_YAMLNumericKeys(t *testing.T) {
	loader, dir := newTestLoader(t)
	write(t, dir, "loadouts.yaml", `armour:
  1:
    name: Plate
    attributes:
      strength: 2
    attacks:
      - id: 1
  2:
    name: Chain
    attacks:
      - tag: slash
weapon:
  10:
    name: Sword
    attacks: []
`)

	doc, err := loader.LoadDocument(context.Background(), "loadouts")
	require.NoError(t, err)

	armour, ok := doc["armour"].(map[string]any)
	require.True(t, ok, "%T", doc["armour"])
	plate := armour["1"].(map[string]any)
	assert.Equal(t, "Plate", plate["name"])
	assert.IsType(t, map[string]any{}, plate["attributes"])

	loadouts, err := calldata.ClassicLoadouts(doc)
	require.NoError(t, err)
	require.Len(t, loadouts, 3)
	assert.Equal(t, "Plate", loadouts[0]["name"])
	assert.Equal(t, "Chain", loadouts[1]["name"])
	assert.Equal(t, "Sword", loadouts[2]["name"])
	assert.Equal(t, "10", loadouts[2]["index"].(*big.Int).String())

	calls, err := calldata.ClassicLoadoutCalls("arcade_classic", doc)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "set_loadouts", calls[0].Entrypoint)
}

func TestLoadDocument_YAMLTopLevelList(t *testing.T) {
	loader, dir := newTestLoader(t)
	write(t, dir, "attacks.yaml", "- name: Punch\n")

	_, err := loader.LoadDocument(context.Background(), "attacks")
	assert.ErrorContains(t, err, "failed to parse attacks.yaml")
}
