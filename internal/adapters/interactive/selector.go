package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectTag selects a manifest tag from a list
func (s *SelectorAdapter) SelectTag(ctx context.Context, tags []string, prompt string) (string, error) {
	if s.config.NonInteractive {
		return "", errors.New("interactive selection not available in non-interactive mode")
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("%w: no tags to select from", domain.ErrNotFound)
	}
	if len(tags) == 1 {
		return tags[0], nil
	}

	options := formatTagOptions(tags)
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(tags),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return tags[index], nil
}

// formatTagOptions renders "<namespace>-<name>" tags with the namespace dimmed
func formatTagOptions(tags []string) []string {
	options := make([]string, len(tags))
	for i, tag := range tags {
		ns, name, ok := strings.Cut(tag, "-")
		if !ok {
			options[i] = color.New(color.FgWhite, color.Bold).Sprint(tag)
			continue
		}
		options[i] = color.New(color.FgBlue).Sprint(ns+"-") + color.New(color.FgWhite, color.Bold).Sprint(name)
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.TagSelector = (*SelectorAdapter)(nil)
