// Package voiceparser normalizes a spoken-expense transcript. The transcript
// is treated as a single line: one candidate, or one error record when the
// transcript is empty.
package voiceparser

import (
	"context"
	"strings"

	"github.com/mar-formanite/finwise/internal/extract"
	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// ErrNoVoiceInput is the error record text for an empty transcript.
const ErrNoVoiceInput = "No voice input provided"

// Parser normalizes voice transcripts.
type Parser struct {
	log logging.Logger
}

// New creates a voice transcript parser.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{log: logger}
}

// Normalize produces exactly one result for the transcript.
func (p *Parser) Normalize(_ context.Context, data string) []models.CandidateResult {
	transcript := strings.TrimSpace(data)
	if transcript == "" {
		return []models.CandidateResult{models.Errf(ErrNoVoiceInput)}
	}

	res := extract.Amount(transcript)
	text := res.Description
	if text == "" {
		// A transcript that is nothing but an amount keeps the raw
		// words as its description.
		text = transcript
	}

	p.log.Debug("Normalized voice transcript",
		logging.Field{Key: logging.FieldAmount, Value: res.Amount.String()})

	return []models.CandidateResult{models.OK(models.Candidate{
		Text:   text,
		Amount: res.Amount,
		Source: models.SourceVoice,
	})}
}
