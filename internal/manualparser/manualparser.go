// Package manualparser normalizes free-form manual entry. The payload is a
// "text|amount" pair; text and amount are supplied separately, so a bad
// amount string is a user mistake and becomes an error record rather than a
// silent zero.
package manualparser

import (
	"context"
	"strings"

	"github.com/mar-formanite/finwise/internal/extract"
	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// ErrInvalidAmount is the error record text for an unparsable manual amount.
const ErrInvalidAmount = "Invalid amount for manual input"

// Parser normalizes manual entries.
type Parser struct {
	log logging.Logger
}

// New creates a manual entry parser.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{log: logger}
}

// Normalize splits the "text|amount" payload and produces exactly one
// result. A payload without a pipe is treated as text with a zero amount.
func (p *Parser) Normalize(_ context.Context, data string) []models.CandidateResult {
	text, amountStr := split(data)
	if text == "" {
		return []models.CandidateResult{models.Errf("Empty description for manual input")}
	}

	amount, err := extract.ParseManual(amountStr)
	if err != nil {
		p.log.WithError(err).Warn("Rejecting manual entry")
		return []models.CandidateResult{models.Errf(ErrInvalidAmount)}
	}

	return []models.CandidateResult{models.OK(models.Candidate{
		Text:   text,
		Amount: amount,
		Source: models.SourceManual,
	})}
}

func split(data string) (text, amountStr string) {
	if i := strings.IndexByte(data, '|'); i >= 0 {
		return strings.TrimSpace(data[:i]), strings.TrimSpace(data[i+1:])
	}
	return strings.TrimSpace(data), "0"
}
