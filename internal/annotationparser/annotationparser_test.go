package annotationparser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

func TestNormalizeAnnotationDocument(t *testing.T) {
	p := New(&logging.MockLogger{})

	results := p.Normalize(context.Background(), "testdata/annotations.xml")
	require.Len(t, results, 4)

	expected := []struct {
		text   string
		amount string
		image  string
	}{
		{"Bread", "80", "images/0001.jpg"},
		{"Milk", "1120.50", "images/0001.jpg"},
		{"Total", "1200.50", "images/0001.jpg"},
		{"450.00", "450.00", "images/0002.jpg"},
	}
	for i, want := range expected {
		require.False(t, results[i].IsError(), "result %d", i)
		c := results[i].Candidate
		assert.Equal(t, want.text, c.Text, "result %d", i)
		assert.True(t, decimal.RequireFromString(want.amount).Equal(c.Amount),
			"result %d: got %s", i, c.Amount)
		assert.Equal(t, models.SourceReceiptAnnotation, c.Source)
		assert.Equal(t, want.image, c.Image)
	}
}

func TestNormalizeSkipsNonReceiptLabels(t *testing.T) {
	p := New(&logging.MockLogger{})

	results := p.Normalize(context.Background(), "testdata/annotations.xml")
	for _, res := range results {
		assert.NotContains(t, res.Candidate.Text, "FreshMart")
	}
}

func TestNormalizeMissingFile(t *testing.T) {
	p := New(&logging.MockLogger{})

	results := p.Normalize(context.Background(), filepath.Join(t.TempDir(), "nope.xml"))
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError())
	assert.Contains(t, results[0].Error, "Failed to parse annotations")
}

func TestNormalizeMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<annotations><image"), 0o600))

	p := New(&logging.MockLogger{})
	results := p.Normalize(context.Background(), path)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError())
	assert.Contains(t, results[0].Error, "Failed to parse annotations")
}
