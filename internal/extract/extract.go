// Package extract separates a currency amount from a leftover description in
// one line or phrase of noisy text. It is the shared parsing utility behind
// every source normalizer.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mar-formanite/finwise/internal/ingesterror"
)

// Currency markers recognized next to a numeric token: symbols and the short
// codes that show up in receipts and bank alerts.
const markerPattern = `Rs\.?|PKR|₹|\$`

var (
	// marker immediately before the number, e.g. "Rs.500.00", "$ 5.99"
	markerBeforeRe = regexp.MustCompile(`(?i)(?:` + markerPattern + `)\s*\d[\d,.]*`)
	// marker immediately after the number, e.g. "500 PKR"
	markerAfterRe = regexp.MustCompile(`(?i)\d[\d,.]*\s*(?:` + markerPattern + `)`)
	// bare numeric token with optional thousands separators
	numberRe = regexp.MustCompile(`\d[\d,.]*`)
	// the numeric part inside a marker+number span
	innerNumberRe = regexp.MustCompile(`\d[\d,.]*`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// Result is the outcome of extracting an amount from a text fragment.
type Result struct {
	Amount      decimal.Decimal
	Description string
}

// Amount locates the monetary amount in a text fragment and returns it
// together with the text that remains once the amount and any adjacent
// currency marker are stripped.
//
// Precedence: a numeric token adjacent to a currency marker wins; when no
// token carries a marker, the rightmost numeric token wins (totals and prices
// trail descriptions in receipts and statements). This single rule applies to
// every channel. No numeric token at all yields a zero amount and the
// original trimmed text; a malformed token (multiple decimal points) yields a
// zero amount. Amount never fails.
func Amount(text string) Result {
	span := findAmountSpan(text)
	if span == nil {
		return Result{Amount: decimal.Zero, Description: strings.TrimSpace(text)}
	}

	matched := text[span[0]:span[1]]
	token := innerNumberRe.FindString(matched)
	amount := parseToken(token)

	desc := text[:span[0]] + " " + text[span[1]:]
	desc = strings.TrimSpace(spaceRe.ReplaceAllString(desc, " "))

	return Result{Amount: amount, Description: desc}
}

// ParseManual parses an amount string the user supplied explicitly. Unlike
// Amount, the absence of a parsable numeric token is an error here: it
// distinguishes user mistakes from "no number present" in free text.
func ParseManual(amountStr string) (decimal.Decimal, error) {
	token := numberRe.FindString(amountStr)
	if token == "" {
		return decimal.Zero, &ingesterror.AmountError{Value: amountStr}
	}
	token = trimTrailingPunct(token)
	cleaned := strings.ReplaceAll(token, ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &ingesterror.AmountError{Value: amountStr}
	}
	return amount, nil
}

// findAmountSpan returns the [start, end) span of the winning amount token,
// including its adjacent marker, or nil when the text has no numeric token.
func findAmountSpan(text string) []int {
	if span := lastSpan(text, markerBeforeRe, true, false); span != nil {
		return trimSpan(text, span)
	}
	if span := lastSpan(text, markerAfterRe, false, true); span != nil {
		return trimSpan(text, span)
	}
	if span := lastSpan(text, numberRe, false, false); span != nil {
		return trimSpan(text, span)
	}
	return nil
}

// lastSpan returns the rightmost match that respects word boundaries around
// alphabetic markers, so "Cars 300" is not read as the marker "rs 300".
// Go's regexp has no lookbehind; the boundary check lives here instead.
func lastSpan(text string, re *regexp.Regexp, boundBefore, boundAfter bool) []int {
	spans := re.FindAllStringIndex(text, -1)
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		if boundBefore && startsWithLetter(text[s[0]:s[1]]) && wordRuneBefore(text, s[0]) {
			continue
		}
		if boundAfter && endsWithLetter(text[s[0]:s[1]]) && wordRuneAt(text, s[1]) {
			continue
		}
		return s
	}
	return nil
}

func startsWithLetter(match string) bool {
	r, _ := utf8.DecodeRuneInString(match)
	return unicode.IsLetter(r)
}

func endsWithLetter(match string) bool {
	r, _ := utf8.DecodeLastRuneInString(match)
	return unicode.IsLetter(r)
}

func wordRuneBefore(text string, pos int) bool {
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return isWordRune(r)
}

func wordRuneAt(text string, pos int) bool {
	if pos >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// trimSpan shrinks a span so it does not swallow sentence punctuation that
// trails the numeric token, e.g. "paid 500." keeps the final period out.
func trimSpan(text string, span []int) []int {
	start, end := span[0], span[1]
	for end > start && (text[end-1] == '.' || text[end-1] == ',') {
		end--
	}
	return []int{start, end}
}

func parseToken(token string) decimal.Decimal {
	token = trimTrailingPunct(token)
	cleaned := strings.ReplaceAll(token, ",", "")
	if strings.Count(cleaned, ".") > 1 {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func trimTrailingPunct(token string) string {
	return strings.TrimRight(token, ".,")
}
