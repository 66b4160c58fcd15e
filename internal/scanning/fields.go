package scanning

import (
	"strconv"
	"strings"
	"time"
)

// knownVendor is the only brand the vendor heuristic recognizes. Anything
// else is left blank for the user to fill in on the confirmation form.
const knownVendor = "Amazon"

// FieldGuesses holds best-effort field values derived from OCR text. They
// are pre-fills only; the user confirms or edits every one of them before
// anything is persisted, so a miss is never an error.
type FieldGuesses struct {
	Vendor string
	Date   string
	Amount float64
}

// ParseFields scans OCR text line by line and guesses vendor, date and
// amount. Each heuristic is applied independently; there is no combined
// confidence scoring. now supplies the fallback date.
func ParseFields(text string, now time.Time) FieldGuesses {
	return FieldGuesses{
		Vendor: guessVendor(text),
		Date:   guessDate(text, now),
		Amount: guessAmount(text),
	}
}

// guessVendor matches the known brand name against the lowercased text.
func guessVendor(text string) string {
	if strings.Contains(strings.ToLower(text), strings.ToLower(knownVendor)) {
		return knownVendor
	}
	return ""
}

// guessDate takes the last whitespace-separated token of the first line
// containing "date" or "time". Falls back to today in YYYY-MM-DD form.
func guessDate(text string, now time.Time) string {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "date") && !strings.Contains(lower, "time") {
			continue
		}
		if tokens := strings.Fields(line); len(tokens) > 0 {
			return tokens[len(tokens)-1]
		}
	}
	return now.Format("2006-01-02")
}

// guessAmount scans lines containing "total" or "amount" and takes the
// first token on the first such line that parses as a plain non-negative
// decimal number. Keyword lines without a qualifying token are skipped.
func guessAmount(text string) float64 {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "total") && !strings.Contains(lower, "amount") {
			continue
		}
		for _, token := range strings.Fields(line) {
			if !isPlainNumber(token) {
				continue
			}
			amount, err := strconv.ParseFloat(token, 64)
			if err != nil {
				continue
			}
			return amount
		}
	}
	return 0.0
}

// isPlainNumber reports whether the token is all digits after stripping at
// most one decimal point. Signs, currency symbols and thousands separators
// all disqualify it.
func isPlainNumber(token string) bool {
	stripped := strings.Replace(token, ".", "", 1)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
