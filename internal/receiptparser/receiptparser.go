// Package receiptparser normalizes photographed receipts: decode, grayscale,
// binarize, OCR, then one candidate per recognized non-blank line. Decode or
// OCR failure yields a single error record for the whole image - lines are
// never silently dropped.
package receiptparser

import (
	"context"
	"image"
	"os"
	"strings"

	// Receipt photos arrive as JPEG or PNG.
	_ "image/jpeg"
	_ "image/png"

	"github.com/mar-formanite/finwise/internal/extract"
	"github.com/mar-formanite/finwise/internal/ingesterror"
	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// Parser normalizes receipt images through an OCR engine.
type Parser struct {
	engine Engine
	log    logging.Logger
}

// New creates a receipt image parser. A nil engine falls back to the
// tesseract binary on PATH.
func New(engine Engine, logger logging.Logger) *Parser {
	if engine == nil {
		engine = NewTesseractEngine("", "")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{engine: engine, log: logger}
}

// Normalize OCRs the image at the given path and extracts one candidate per
// non-blank line of recognized text.
func (p *Parser) Normalize(ctx context.Context, data string) []models.CandidateResult {
	imagePath := strings.TrimSpace(data)
	log := p.log.WithField(logging.FieldFile, imagePath)

	img, err := decode(imagePath)
	if err != nil {
		log.WithError(err).Warn("Failed to load receipt image")
		return []models.CandidateResult{models.Errf("Failed to load image: %s", imagePath)}
	}

	text, err := p.engine.Recognize(ctx, preprocess(img))
	if err != nil {
		ocrErr := &ingesterror.OCRError{ImagePath: imagePath, Stage: "recognize", Err: err}
		log.WithError(ocrErr).Warn("OCR failed for receipt image")
		return []models.CandidateResult{models.Errf("OCR failed for %s: %v", imagePath, err)}
	}

	results := candidatesFromText(text)
	log.Info("Normalized receipt image",
		logging.Field{Key: logging.FieldCount, Value: len(results)})
	return results
}

func decode(imagePath string) (image.Image, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, &ingesterror.OCRError{ImagePath: imagePath, Stage: "decode", Err: err}
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &ingesterror.OCRError{ImagePath: imagePath, Stage: "decode", Err: err}
	}
	return img, nil
}

// candidatesFromText splits recognized text into lines and runs the
// extractor over every non-blank one.
func candidatesFromText(text string) []models.CandidateResult {
	var results []models.CandidateResult
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		res := extract.Amount(line)
		itemText := res.Description
		if itemText == "" {
			// A line that is only a price keeps its raw text.
			itemText = line
		}
		results = append(results, models.OK(models.Candidate{
			Text:   itemText,
			Amount: res.Amount,
			Source: models.SourceReceipt,
		}))
	}
	return results
}
