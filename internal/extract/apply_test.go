// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"reflect"
	"testing"

	"github.com/pdiddy/gradstats/pkg/types"
)

func TestApplyEndToEnd(t *testing.T) {
	raw := types.RawRecord{
		SourceURL:            "https://x/1",
		ProgramUniversityRaw: strPtr("MIT - PhD Computer Science"),
		StatusRaw:            strPtr("Accepted"),
		DateAddedRaw:         strPtr("January 15, 2026"),
		CommentsRaw:          strPtr("GPA 3.95 GRE Quant 170 International Fall 2026"),
	}

	got := Apply(raw)

	wantStr := map[string]struct {
		got  *string
		want string
	}{
		"program":             {got.Program, "MIT - PhD Computer Science"},
		"url":                 {got.URL, "https://x/1"},
		"status":              {got.Status, "Accepted"},
		"term":                {got.Term, "Fall 2026"},
		"us_or_international": {got.UsOrInternational, "International"},
		"degree":              {got.Degree, "PhD"},
		"date_added":          {got.DateAdded, "2026-01-15"},
	}
	for field, c := range wantStr {
		if c.got == nil || *c.got != c.want {
			t.Errorf("%s = %v, want %q", field, deref(c.got), c.want)
		}
	}

	assertFloat(t, "gpa", got.GPA, 3.95)
	assertFloat(t, "gre", got.GRE, 170.0)
}

func TestApplyIsPure(t *testing.T) {
	raw := types.RawRecord{
		SourceURL:            "https://x/2",
		ProgramUniversityRaw: strPtr("Stanford - MS Statistics"),
		StatusRaw:            strPtr("Wait listed"),
		CommentsRaw:          strPtr("American, GPA 3.6, Fall '26"),
	}

	first := Apply(raw)
	second := Apply(raw)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Apply is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first.Status == nil || *first.Status != "Waitlisted" {
		t.Errorf("status = %v, want Waitlisted", deref(first.Status))
	}
	if first.Term == nil || *first.Term != "Fall 2026" {
		t.Errorf("term = %v, want Fall 2026", deref(first.Term))
	}
}

func TestApplyAbsentFields(t *testing.T) {
	raw := types.RawRecord{SourceURL: "https://x/3"}

	got := Apply(raw)

	if got.Program != nil || got.Comments != nil || got.Status != nil ||
		got.Term != nil || got.Degree != nil || got.DateAdded != nil ||
		got.GPA != nil || got.GRE != nil {
		t.Errorf("expected absent fields for empty raw record, got %+v", got)
	}
	if got.URL == nil || *got.URL != "https://x/3" {
		t.Errorf("url = %v, want https://x/3", deref(got.URL))
	}
}

func TestApplyKeepsUnmatchedStatusText(t *testing.T) {
	raw := types.RawRecord{
		SourceURL: "https://x/4",
		StatusRaw: strPtr("Decision pending"),
	}

	got := Apply(raw)
	if got.Status == nil || *got.Status != "Decision pending" {
		t.Errorf("status = %v, want raw text fallback", deref(got.Status))
	}
}
