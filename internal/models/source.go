// Package models provides the data structures shared across the ingestion
// pipeline: candidates, sources, categories and input requests.
package models

import "github.com/mar-formanite/finwise/internal/ingesterror"

// Source tags the provenance of a candidate. It is fixed at creation and
// never mutated afterwards.
type Source string

const (
	SourceReceipt           Source = "receipt"
	SourceReceiptAnnotation Source = "receipt_annotation"
	SourceVoice             Source = "voice"
	SourceManual            Source = "manual"
	SourceSMS               Source = "sms"
)

// InputType selects the normalizer for one ingestion request. It is the
// untrusted half of the request envelope; ParseInputType is the only place
// an unknown value can surface.
type InputType string

const (
	InputReceiptImage      InputType = "receipt_image"
	InputReceiptAnnotation InputType = "receipt_annotation"
	InputVoice             InputType = "voice"
	InputManual            InputType = "manual"
	InputSMS               InputType = "sms"
)

// ParseInputType validates a channel type string at the input boundary.
func ParseInputType(s string) (InputType, error) {
	switch InputType(s) {
	case InputReceiptImage, InputReceiptAnnotation, InputVoice, InputManual, InputSMS:
		return InputType(s), nil
	default:
		return "", &ingesterror.InvalidInputError{Value: s, Msg: "unknown input type"}
	}
}

// Input is one ingestion request: a channel type plus its payload. Depending
// on the type, Data is an image path, an annotation document path, free text,
// or a "text|amount" pair.
type Input struct {
	Type InputType `json:"type"`
	Data string    `json:"data"`
}
