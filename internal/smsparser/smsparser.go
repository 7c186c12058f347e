// Package smsparser normalizes bank SMS alerts, e.g.
//
//	A/c XX Debited Rs500.00 on 27-12-25 by UPI Txn ID:XXX Ref Grocery
//	Rs.100 deducted for Transport
//
// The amount comes from the shared extractor; the description prefers the
// text that follows a reference marker over the full message body.
package smsparser

import (
	"context"
	"regexp"
	"strings"

	"github.com/mar-formanite/finwise/internal/extract"
	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// Reference markers in priority order: an explicit "Ref" tag names the payee
// more precisely than the prepositions around it, so it wins even when "by"
// or "for" appears earlier in the message.
var markerRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bRef\b\.?:?\s*(.+)$`),
	regexp.MustCompile(`(?i)\bfor\b\s*(.+)$`),
	regexp.MustCompile(`(?i)\bby\b\s*(.+)$`),
}

// Parser normalizes SMS alert bodies.
type Parser struct {
	log logging.Logger
}

// New creates an SMS alert parser.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{log: logger}
}

// Normalize produces exactly one result for the message body.
func (p *Parser) Normalize(_ context.Context, data string) []models.CandidateResult {
	body := strings.TrimSpace(data)
	if body == "" {
		return []models.CandidateResult{models.Errf("Empty SMS body")}
	}

	res := extract.Amount(body)
	text := description(body)
	if text == "" {
		text = body
	}

	p.log.Debug("Normalized SMS alert",
		logging.Field{Key: logging.FieldAmount, Value: res.Amount.String()})

	return []models.CandidateResult{models.OK(models.Candidate{
		Text:   text,
		Amount: res.Amount,
		Source: models.SourceSMS,
	})}
}

// description returns the text after the highest-priority reference marker,
// or the empty string when no marker is present.
func description(body string) string {
	for _, re := range markerRes {
		if m := re.FindStringSubmatch(body); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
