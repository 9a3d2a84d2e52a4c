package domain

import (
	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// Suggest returns up to three candidates that fuzzily match query, best first.
func Suggest(query string, candidates []string) []string {
	matches := fuzzy.Find(query, candidates)
	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].Str)
	}
	return out
}

// NewTagNotFound builds a TagNotFoundError with suggestions from known tags.
func NewTagNotFound(kind, tag string, known []string) *TagNotFoundError {
	return &TagNotFoundError{Kind: kind, Tag: tag, Suggestions: Suggest(tag, known)}
}
