package receiptparser

import (
	"context"
	"image"
)

// MockEngine is an Engine stand-in for tests: it records the images it was
// asked to recognize and returns a fixed text or error.
type MockEngine struct {
	Text   string
	Err    error
	Images []image.Image
}

// Recognize returns the configured text or error.
func (m *MockEngine) Recognize(_ context.Context, img image.Image) (string, error) {
	m.Images = append(m.Images, img)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
