package ai

import (
	"context"

	"github.com/mar-formanite/finwise/internal/models"
)

// MockClient is a canned-response Client for testing.
type MockClient struct {
	Suggestion Suggestion
	Err        error

	// Calls records the candidates passed to Suggest.
	Calls []models.Candidate
}

// Suggest returns the configured suggestion or error.
func (m *MockClient) Suggest(_ context.Context, candidate models.Candidate, _ []string) (Suggestion, error) {
	m.Calls = append(m.Calls, candidate)
	if m.Err != nil {
		return Suggestion{}, m.Err
	}
	return m.Suggestion, nil
}
