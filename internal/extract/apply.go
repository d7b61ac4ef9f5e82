// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/gradstats/pkg/types"
)

// CombinedText concatenates the non-empty text sources for a record into
// the single blob the extractors scan.
func CombinedText(parts ...*string) string {
	var kept []string
	for _, p := range parts {
		if p != nil && *p != "" {
			kept = append(kept, *p)
		}
	}
	return strings.Join(kept, " ")
}

// Apply derives a NormalizedRecord from a RawRecord. It is pure and
// deterministic: running it twice on the same input yields identical
// output, which is what makes re-extraction on every load pass safe.
func Apply(raw types.RawRecord) types.NormalizedRecord {
	program := CleanPtr(raw.ProgramUniversityRaw)
	status := CleanPtr(raw.StatusRaw)
	comments := CleanPtr(raw.CommentsRaw)
	url := Clean(raw.SourceURL)

	combined := CombinedText(program, status, comments)

	rec := types.NormalizedRecord{
		Program:           program,
		Comments:          comments,
		URL:               url,
		Status:            Status(combined),
		Term:              Term(combined),
		UsOrInternational: Nationality(combined),
		Degree:            Degree(combined),
		DecisionDateText:  EventDateText(combined),
	}

	// A decision cell with no recognized keyword still carries signal;
	// keep the raw text rather than dropping it.
	if rec.Status == nil {
		rec.Status = status
	}

	scores := Metrics(combined)
	rec.GPA = scores.GPA
	rec.GRE = scores.GRE
	rec.GREV = scores.GREV
	rec.GREAW = scores.GREAW

	if raw.DateAddedRaw != nil {
		rec.DateAdded = ParseDateISO(*raw.DateAddedRaw)
	}

	return rec
}
