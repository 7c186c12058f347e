// Package normalizer defines the capability shared by every input channel:
// turning one raw payload into zero or more transaction candidates. Channel
// failures surface as per-item error records inside the result slice, never
// as errors crossing the pipeline boundary.
package normalizer

import (
	"context"

	"github.com/mar-formanite/finwise/internal/models"
)

// Normalizer converts one raw channel payload into candidates. Depending on
// the channel, data is an image path, an annotation document path, free
// text, or a "text|amount" pair.
type Normalizer interface {
	Normalize(ctx context.Context, data string) []models.CandidateResult
}

// Func adapts a plain function to the Normalizer interface.
type Func func(ctx context.Context, data string) []models.CandidateResult

// Normalize calls f.
func (f Func) Normalize(ctx context.Context, data string) []models.CandidateResult {
	return f(ctx, data)
}
