package textutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Clean turns every kind of space (including non-breaking ones) into a plain
// space, removes non-printable characters, trims surrounding whitespace and
// collapses inner runs of whitespace into a single space.
func Clean(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, text)
	text = strings.Trim(text, " ")
	return whitespaceRegex.ReplaceAllString(text, " ")
}

// StripWords removes every occurrence of the given words from text
// and cleans up what is left.
func StripWords(text string, words ...string) string {
	for _, w := range words {
		text = strings.ReplaceAll(text, w, "")
	}
	return Clean(text)
}

// ParseCount converts count text like "1,234" into an integer.
//
// Absent, negative or non-numeric text is reported as 0, which doubles as the
// "unknown" sentinel.
func ParseCount(text string) int {
	text = strings.ReplaceAll(Clean(text), ",", "")
	if text == "" {
		return 0
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseCountPtr is ParseCount for an optional value.
func ParseCountPtr(text *string) int {
	if text == nil {
		return 0
	}
	return ParseCount(*text)
}

var leadingNumberRegex = regexp.MustCompile(`\d[\d,]*`)

// ParseLeadingCount parses the first number found in text, so that labels
// like "12 Shots" or "3 Designers" become 12 and 3.
func ParseLeadingCount(text string) int {
	return ParseCount(leadingNumberRegex.FindString(text))
}

var suffixMultipliers = map[byte]float64{
	'k': 1_000,
	'm': 1_000_000,
}

// ParseAbbreviatedCount converts abbreviated counts like "1.2k" into 1200.
// The suffix is stripped, the rest is parsed as a decimal, scaled and then
// truncated. Unparsable text yields 0.
func ParseAbbreviatedCount(text string) int {
	text = strings.ToLower(strings.ReplaceAll(Clean(text), ",", ""))
	if text == "" {
		return 0
	}

	multiplier := 1.0
	if m, ok := suffixMultipliers[text[len(text)-1]]; ok {
		multiplier = m
		text = strings.TrimSpace(text[:len(text)-1])
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// the epsilon absorbs binary representation error, ex. 0.29 * 1000
	return int(math.Floor(f*multiplier + 1e-6))
}

// ParseCompactCount accepts either plain ("1,234") or abbreviated ("1.2k")
// counts.
func ParseCompactCount(text string) int {
	cleaned := strings.ToLower(Clean(text))
	if cleaned == "" {
		return 0
	}
	if _, ok := suffixMultipliers[cleaned[len(cleaned)-1]]; ok {
		return ParseAbbreviatedCount(cleaned)
	}
	return ParseCount(cleaned)
}
