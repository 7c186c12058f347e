package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a persisted, classified transaction. It is the durable form
// of a Candidate after its category has been resolved against the registry.
type Transaction struct {
	ID          string          `json:"id"`
	Text        string          `json:"text"`
	Amount      decimal.Decimal `json:"amount"`
	Source      Source          `json:"source"`
	Category    string          `json:"category"`
	Confidence  float64         `json:"confidence"`
	Explanation string          `json:"explanation"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
