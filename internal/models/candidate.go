package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Candidate is an unpersisted, classified transaction draft produced by the
// pipeline. Text is never empty for a well-formed candidate; Amount is zero
// when no numeric token was found, which is valid.
type Candidate struct {
	Text        string          `json:"text"`
	Amount      decimal.Decimal `json:"amount"`
	Source      Source          `json:"source"`
	Category    string          `json:"category"`
	Confidence  float64         `json:"confidence"`
	Explanation string          `json:"explanation"`
	Image       string          `json:"image,omitempty"`
}

// CandidateResult is either a well-formed candidate or a terminal error
// record for one item. The two shapes are mutually exclusive; error records
// pass through classification untouched.
type CandidateResult struct {
	Candidate *Candidate
	Error     string
}

// OK wraps a candidate in a successful result.
func OK(c Candidate) CandidateResult {
	return CandidateResult{Candidate: &c}
}

// Errf builds an error record.
func Errf(format string, args ...interface{}) CandidateResult {
	return CandidateResult{Error: fmt.Sprintf(format, args...)}
}

// IsError reports whether this result is a terminal error record.
func (r CandidateResult) IsError() bool {
	return r.Error != ""
}

type errorRecord struct {
	Error string `json:"error"`
}

// MarshalJSON emits the wire shape of the output contract: a flat candidate
// object on success, {"error": "..."} on failure.
func (r CandidateResult) MarshalJSON() ([]byte, error) {
	if r.IsError() {
		return json.Marshal(errorRecord{Error: r.Error})
	}
	return json.Marshal(r.Candidate)
}

// UnmarshalJSON accepts both wire shapes.
func (r *CandidateResult) UnmarshalJSON(data []byte) error {
	var rec errorRecord
	if err := json.Unmarshal(data, &rec); err == nil && rec.Error != "" {
		*r = CandidateResult{Error: rec.Error}
		return nil
	}
	var c Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*r = CandidateResult{Candidate: &c}
	return nil
}
