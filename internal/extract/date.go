// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "time"

// dateLayouts are tried in order; the first successful parse wins.
// Survey dates usually look like "February 01, 2026" or "Feb 1, 2026".
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"01/02/2006",
}

// ParseDate parses a posted-date string into a calendar date. Returns nil
// when the input is empty or matches none of the known layouts; malformed
// input is never an error.
func ParseDate(raw string) *time.Time {
	s := Clean(raw)
	if s == nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseDateISO is ParseDate rendered as an ISO YYYY-MM-DD string, the
// form carried in the cleaned payload.
func ParseDateISO(raw string) *string {
	t := ParseDate(raw)
	if t == nil {
		return nil
	}
	v := t.Format("2006-01-02")
	return &v
}
