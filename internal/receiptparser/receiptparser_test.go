package receiptparser

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// writeTestImage writes a small two-tone PNG that stands in for a receipt
// photo: dark "print" on a light background.
func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if y >= 4 && y < 6 && x >= 2 && x < 18 {
				img.Set(x, y, color.RGBA{A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 230, G: 230, B: 225, A: 255})
			}
		}
	}

	path := filepath.Join(t.TempDir(), "receipt.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestNormalizeOneCandidatePerLine(t *testing.T) {
	engine := &MockEngine{Text: "Bread Rs.80\n\nMilk 120\nTotal Rs.200\n"}
	p := New(engine, &logging.MockLogger{})

	results := p.Normalize(context.Background(), writeTestImage(t))
	require.Len(t, results, 3)

	expected := []struct {
		text   string
		amount int64
	}{
		{"Bread", 80},
		{"Milk", 120},
		{"Total", 200},
	}
	for i, want := range expected {
		require.False(t, results[i].IsError(), "result %d", i)
		c := results[i].Candidate
		assert.Equal(t, want.text, c.Text)
		assert.True(t, decimal.NewFromInt(want.amount).Equal(c.Amount), "result %d: got %s", i, c.Amount)
		assert.Equal(t, models.SourceReceipt, c.Source)
	}

	// The engine received the preprocessed (binarized) image.
	require.Len(t, engine.Images, 1)
	gray, ok := engine.Images[0].(*image.Gray)
	require.True(t, ok)
	for _, px := range gray.Pix {
		assert.Contains(t, []uint8{0, 255}, px)
	}
}

func TestNormalizeMissingImage(t *testing.T) {
	p := New(&MockEngine{}, &logging.MockLogger{})

	results := p.Normalize(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError())
	assert.Contains(t, results[0].Error, "Failed to load image")
}

func TestNormalizeUndecodableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	p := New(&MockEngine{}, &logging.MockLogger{})
	results := p.Normalize(context.Background(), path)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError())
}

func TestNormalizeOCRFailure(t *testing.T) {
	engine := &MockEngine{Err: errors.New("tesseract exploded")}
	p := New(engine, &logging.MockLogger{})

	results := p.Normalize(context.Background(), writeTestImage(t))
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError())
	assert.Contains(t, results[0].Error, "OCR failed")
	assert.Contains(t, results[0].Error, "tesseract exploded")
}

func TestNormalizeBlankRecognition(t *testing.T) {
	engine := &MockEngine{Text: "\n\n  \n"}
	p := New(engine, &logging.MockLogger{})

	results := p.Normalize(context.Background(), writeTestImage(t))
	assert.Empty(t, results)
}

func TestOtsuSeparatesTwoToneImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range gray.Pix {
		if i%3 == 0 {
			gray.Pix[i] = 30
		} else {
			gray.Pix[i] = 220
		}
	}

	threshold := otsuThreshold(gray)
	assert.GreaterOrEqual(t, threshold, uint8(30))
	assert.Less(t, threshold, uint8(220))

	binary := binarize(gray, threshold)
	assert.Equal(t, uint8(0), binary.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), binary.GrayAt(1, 0).Y)
}
