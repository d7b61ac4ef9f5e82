// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract converts noisy survey free text into normalized
// applicant fields. Every extractor is a pure text -> optional-value
// function; callers concatenate whatever raw text sources they have and
// run all extractors over the same blob. The same implementations back
// both the cleaning stage and the loader, so derived fields never drift
// between pipeline passes.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	termFullRE  = regexp.MustCompile(`(?i)\b(Fall|Spring|Summer|Winter|Autumn)\s*['’]?\s*(20\d{2}|\d{2})\b`)
	termShortRE = regexp.MustCompile(`(?i)\b(F|S|SU|W)\s*['’]?\s*(\d{2})\b`)

	decisionRE  = regexp.MustCompile(`(?i)\b(Accepted|Rejected|Wait listed|Waitlisted|Interview)\b`)
	eventDateRE = regexp.MustCompile(`(?i)\b(Accepted|Rejected|Waitlisted|Interview)\s+on\s+([0-3]?\d)\s+([A-Za-z]{3,9})\b`)

	americanRE = regexp.MustCompile(`(?i)\bAmerican\b`)
	intlRE     = regexp.MustCompile(`(?i)\bInternational\b`)
	otherRE    = regexp.MustCompile(`(?i)\bOther\b`)

	phdRE      = regexp.MustCompile(`(?i)\b(PhD|Ph\.D\.?|Doctorate)\b`)
	mastersRE  = regexp.MustCompile(`(?i)\b(Masters|Master's|MS|M\.S\.|MSc|MEng|M\.Eng\.?)\b`)
	bachelorRE = regexp.MustCompile(`(?i)\b(Bachelors|Bachelor's|BS|B\.S\.?)\b`)

	// The GPA pattern is range-bounded by construction: only 0.x-4.x
	// decimals match, so stray numbers elsewhere in the text are ignored.
	gpaRE = regexp.MustCompile(`(?i)\b(?:GPA\s*[:=]?\s*)?([0-4]\.\d{1,2})\s*(?:master'?s\s*)?(?:GPA)?\b`)

	greQuantRE = regexp.MustCompile(`(?i)\b(?:GRE\s*)?(?:Q(?:uant)?|Quantitative)\s*[:=]?\s*(\d{3})\b|\b(\d{3})\s*Q\b`)
	// A bare "GRE 320" may be a legacy total or a quant score; the two are
	// not distinguished and land in the same field.
	greBareRE = regexp.MustCompile(`(?i)\bGRE\s*[:=]?\s*(\d{3})\b`)
	greVerbRE = regexp.MustCompile(`(?i)\b(?:GRE\s*)?(?:V(?:erb)?|Verbal)\s*[:=]?\s*(\d{3})\b|\b(\d{3})\s*V\b`)
	greAWRE   = regexp.MustCompile(`(?i)\b(?:AWA|AW|Analytical Writing)\s*[:=]?\s*([0-6]\.\d)\b`)
)

var termSeasons = map[string]string{
	"F": "Fall", "S": "Spring", "SU": "Summer", "W": "Winter",
}

// Clean trims whitespace, strips embedded NUL bytes (they corrupt
// database writes downstream), and collapses empty strings to nil.
func Clean(s string) *string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CleanPtr applies Clean to an optional value.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return Clean(*s)
}

// Term extracts a "{Season} {4-digit year}" string, e.g. "Fall 2026".
// Full-form season words are tried first (Autumn normalizes to Fall,
// 2-digit years expand to 20YY); failing that, shorthand codes like
// "F26" are mapped. First match in scan order wins.
func Term(text string) *string {
	if m := termFullRE.FindStringSubmatch(text); m != nil {
		season := titleWord(m[1])
		year := m[2]
		if len(year) == 2 {
			year = "20" + year
		}
		if season == "Autumn" {
			season = "Fall"
		}
		v := season + " " + year
		return &v
	}
	if m := termShortRE.FindStringSubmatch(text); m != nil {
		season, ok := termSeasons[strings.ToUpper(m[1])]
		if !ok {
			return nil
		}
		v := season + " 20" + m[2]
		return &v
	}
	return nil
}

// Status extracts the first decision keyword as Accepted, Rejected,
// Waitlisted, or Interview. The two-word "Wait listed" variant is
// normalized to "Waitlisted".
func Status(text string) *string {
	m := decisionRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	collapsed := strings.ReplaceAll(strings.ToLower(m[1]), " ", "")
	if collapsed == "waitlisted" {
		v := "Waitlisted"
		return &v
	}
	v := titleWord(m[1])
	return &v
}

// EventDateText captures snippets like "Accepted on 29 Jan" verbatim for
// traceability. The year is never present in this form, so the snippet
// is kept as a raw string rather than parsed into a date.
func EventDateText(text string) *string {
	m := eventDateRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := titleWord(m[1]) + " on " + m[2] + " " + titleWord(m[3])
	return &v
}

// Nationality returns International, American, or Other. International is
// checked before American on purpose: when both words appear loosely in
// the text, the narrower label wins. This is a heuristic carried from the
// dataset, not a guaranteed classification.
func Nationality(text string) *string {
	switch {
	case intlRE.MatchString(text):
		v := "International"
		return &v
	case americanRE.MatchString(text):
		v := "American"
		return &v
	case otherRE.MatchString(text):
		v := "Other"
		return &v
	}
	return nil
}

// Degree extracts a canonical degree label from free text: PhD-family
// terms first, then Masters, then Bachelors.
func Degree(text string) *string {
	switch {
	case phdRE.MatchString(text):
		v := "PhD"
		return &v
	case mastersRE.MatchString(text):
		v := "Masters"
		return &v
	case bachelorRE.MatchString(text):
		v := "Bachelors"
		return &v
	}
	return nil
}

// NormalizeDegree maps an already-supplied degree value to its canonical
// label, falling back to the cleaned raw string when unrecognized. Used
// by the loader when the secondary source carries its own degree column.
func NormalizeDegree(raw string) *string {
	s := Clean(raw)
	if s == nil {
		return nil
	}
	lo := strings.ToLower(*s)
	switch {
	case strings.Contains(lo, "phd"), strings.Contains(lo, "ph.d"), strings.Contains(lo, "doctor"):
		v := "PhD"
		return &v
	case strings.Contains(lo, "master"),
		lo == "ms", lo == "m.s.", lo == "msc", lo == "mcs", lo == "meng":
		v := "Masters"
		return &v
	case strings.Contains(lo, "bachelor"), lo == "bs", lo == "b.s.":
		v := "Bachelors"
		return &v
	}
	return s
}

// ScoreSet holds the numeric metrics extracted from one text blob.
type ScoreSet struct {
	GPA   *float64
	GRE   *float64
	GREV  *float64
	GREAW *float64
}

// Metrics extracts GPA and GRE sub-scores from free text. Each
// sub-extractor is independent; a missing score never blocks the others,
// and numbers that fail to parse become nil rather than errors.
func Metrics(text string) ScoreSet {
	var s ScoreSet

	if m := gpaRE.FindStringSubmatch(text); m != nil {
		s.GPA = toFloat(m[1])
	}

	if m := greQuantRE.FindStringSubmatch(text); m != nil {
		s.GRE = toFloat(firstGroup(m[1], m[2]))
	} else if m := greBareRE.FindStringSubmatch(text); m != nil {
		s.GRE = toFloat(m[1])
	}

	if m := greVerbRE.FindStringSubmatch(text); m != nil {
		s.GREV = toFloat(firstGroup(m[1], m[2]))
	}

	if m := greAWRE.FindStringSubmatch(text); m != nil {
		s.GREAW = toFloat(m[1])
	}

	return s
}

func firstGroup(groups ...string) string {
	for _, g := range groups {
		if g != "" {
			return g
		}
	}
	return ""
}

func toFloat(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// titleWord uppercases the first letter of each space-separated word and
// lowercases the rest, matching the casing the extractors normalize to.
func titleWord(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
