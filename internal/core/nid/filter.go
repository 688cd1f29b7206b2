package nid

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	minConfidence = 0.2
	minLatinRatio = 0.7
)

// CleanText collapses whitespace runs into single spaces and trims the ends
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Accept reports whether a raw detection is worth keeping. Both bounds are
// exclusive: a confidence of exactly 0.2 or a Latin share of exactly 70% is
// rejected.
func Accept(text string, confidence float64) bool {
	cleaned := CleanText(text)
	if cleaned == "" {
		return false
	}
	if !(confidence > minConfidence) {
		return false
	}
	return latinRatio(cleaned) > minLatinRatio
}

// latinRatio is the share of runes in the Basic Latin block
func latinRatio(s string) float64 {
	total := utf8.RuneCountInString(s)
	if total == 0 {
		return 0
	}
	latin := 0
	for _, r := range s {
		if r < utf8.RuneSelf {
			latin++
		}
	}
	return float64(latin) / float64(total)
}

// roundTo rounds on the exact decimal value of v, so binary near-ties such
// as 0.2345 (stored as 0.23449999...) round down
func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
