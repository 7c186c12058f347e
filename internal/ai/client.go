// Package ai provides an optional AI-assisted second opinion for candidates
// the local model could not classify confidently. The pipeline works fully
// without it; any failure here leaves the local result standing.
package ai

import (
	"context"

	"github.com/mar-formanite/finwise/internal/models"
)

// Suggestion is a category proposed by an AI backend for one candidate.
type Suggestion struct {
	Category    string
	Explanation string
}

// Client defines the interface for AI-based category suggestion services.
// This abstraction keeps the pipeline testable without external API calls
// and leaves room for providers other than Gemini.
type Client interface {
	// Suggest proposes a category for the candidate, constrained to the
	// given category names.
	Suggest(ctx context.Context, candidate models.Candidate, categories []string) (Suggestion, error)
}
