package interactive

import (
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

func TestSelectTag(t *testing.T) {
	ctx := context.Background()

	t.Run("non-interactive", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
		_, err := s.SelectTag(ctx, []string{"a", "b"}, "pick")
		assert.ErrorContains(t, err, "non-interactive")
	})

	t.Run("no tags", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{})
		_, err := s.SelectTag(ctx, nil, "pick")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("single tag", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{})
		tag, err := s.SelectTag(ctx, []string{"arcade_classic"}, "pick")
		require.NoError(t, err)
		assert.Equal(t, "arcade_classic", tag)
	})
}

func TestFormatTagOptions(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	options := formatTagOptions([]string{"blob_arena-Attack", "world"})
	assert.Equal(t, []string{"blob_arena-Attack", "world"}, options)
}

func TestFuzzySearch(t *testing.T) {
	tags := []string{"arcade_classic", "arcade_amma", "arena_credit"}
	search := createFuzzySearchFunc(tags)

	assert.True(t, search("", 0))
	assert.True(t, search("CLASSIC", 0))
	assert.True(t, search("arcls", 0))
	assert.False(t, search("arcls", 1))
	assert.True(t, search("acr", 2))
}

func TestPassword_NonInteractive(t *testing.T) {
	p := NewPasswordPrompter(&config.RuntimeConfig{NonInteractive: true})
	_, err := p.Password("keys/dev.json")
	assert.ErrorContains(t, err, "keys/dev.json needs a password")
}
