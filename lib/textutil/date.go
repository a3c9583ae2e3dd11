package textutil

import (
	"errors"
	"fmt"
	"time"
)

// CanonicalDateLayout is the single format every date field is rendered in.
const CanonicalDateLayout = "2006-01-02"

var ErrUnknownDateFormat = errors.New("unknown date format")

// sourceDateLayouts are the formats dates show up in across the profile pages,
// ex. "Jan 2020" (join date), "March 5, 2021" (project dates) and
// "Jan 5, 2020" (shot payloads).
var sourceDateLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	CanonicalDateLayout,
}

// ParseDate parses text in any of the known source formats and renders it in
// the canonical YYYY-MM-DD form. Month-only dates resolve to the first of the
// month.
func ParseDate(text string) (string, error) {
	cleaned := Clean(text)
	for _, layout := range sourceDateLayouts {
		t, err := time.Parse(layout, cleaned)
		if err == nil {
			return t.Format(CanonicalDateLayout), nil
		}
	}
	return "", fmt.Errorf("parse date '%s': %w", text, ErrUnknownDateFormat)
}
