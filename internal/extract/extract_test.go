// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "testing"

func strPtr(s string) *string { return &s }

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"plain", "MIT", strPtr("MIT")},
		{"surrounding whitespace", "  MIT  ", strPtr("MIT")},
		{"embedded NUL", "M\x00IT", strPtr("MIT")},
		{"only whitespace", "   ", nil},
		{"empty", "", nil},
		{"NULs only", "\x00\x00", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if !eqPtr(got, tt.want) {
				t.Errorf("Clean(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestTerm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"full form", "Fall 2026", strPtr("Fall 2026")},
		{"apostrophe short year", "Fall '26", strPtr("Fall 2026")},
		{"autumn normalized", "Autumn 2026", strPtr("Fall 2026")},
		{"two digit year", "spring 26", strPtr("Spring 2026")},
		{"shorthand fall", "F26", strPtr("Fall 2026")},
		{"shorthand summer", "SU25", strPtr("Summer 2025")},
		{"shorthand with apostrophe", "W'27", strPtr("Winter 2027")},
		{"first match wins", "Fall 2025 or Spring 2026", strPtr("Fall 2025")},
		{"embedded in sentence", "applying for Fall 2026 cycle", strPtr("Fall 2026")},
		{"no term", "no term here", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Term(tt.input)
			if !eqPtr(got, tt.want) {
				t.Errorf("Term(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"accepted", "Accepted via email", strPtr("Accepted")},
		{"uppercase with date", "ACCEPTED on 3 Jan", strPtr("Accepted")},
		{"rejected lowercase", "rejected today", strPtr("Rejected")},
		{"waitlisted one word", "Waitlisted", strPtr("Waitlisted")},
		{"wait listed two words", "Wait listed", strPtr("Waitlisted")},
		{"interview", "Interview invite!", strPtr("Interview")},
		{"no decision", "no decision", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Status(tt.input)
			if !eqPtr(got, tt.want) {
				t.Errorf("Status(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestEventDateText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"accepted snippet", "Accepted on 29 Jan", strPtr("Accepted on 29 Jan")},
		{"rejected snippet", "got Rejected on 1 Feb sadly", strPtr("Rejected on 1 Feb")},
		{"case normalized", "ACCEPTED on 29 jan", strPtr("Accepted on 29 Jan")},
		{"no snippet", "Accepted last week", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EventDateText(tt.input)
			if !eqPtr(got, tt.want) {
				t.Errorf("EventDateText(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestNationality(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"international", "International student", strPtr("International")},
		{"american", "American applicant", strPtr("American")},
		{"other", "Other", strPtr("Other")},
		// Documented tie-break: International outranks American when both
		// words appear in the same text.
		{"both words", "American and International", strPtr("International")},
		{"none", "from abroad", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Nationality(tt.input)
			if !eqPtr(got, tt.want) {
				t.Errorf("Nationality(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestDegree(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"phd", "PhD Computer Science", strPtr("PhD")},
		{"dotted phd", "Ph.D. in History", strPtr("PhD")},
		{"doctorate", "Doctorate program", strPtr("PhD")},
		{"masters", "Masters in CS", strPtr("Masters")},
		{"ms", "MS Statistics", strPtr("Masters")},
		{"meng", "MEng, Electrical", strPtr("Masters")},
		{"phd beats masters", "Masters then PhD", strPtr("PhD")},
		{"bachelors", "Bachelors degree", strPtr("Bachelors")},
		{"none", "undeclared", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Degree(tt.input)
			if !eqPtr(got, tt.want) {
				t.Errorf("Degree(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestNormalizeDegree(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"phd substring", "PhD (Economics)", strPtr("PhD")},
		{"masters word", "Master of Science", strPtr("Masters")},
		{"ms exact", "ms", strPtr("Masters")},
		{"mcs exact", "MCS", strPtr("Masters")},
		{"bachelor", "Bachelor's", strPtr("Bachelors")},
		{"unrecognized falls through", "JD", strPtr("JD")},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDegree(tt.input)
			if !eqPtr(got, tt.want) {
				t.Errorf("NormalizeDegree(%q) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	s := Metrics("GPA 3.80 GRE Quant 165 Verbal 158 AWA 4.5")

	assertFloat(t, "gpa", s.GPA, 3.80)
	assertFloat(t, "gre", s.GRE, 165.0)
	assertFloat(t, "gre_v", s.GREV, 158.0)
	assertFloat(t, "gre_aw", s.GREAW, 4.5)
}

func TestMetricsPartial(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s ScoreSet)
	}{
		{"gpa only", "GPA: 3.5", func(t *testing.T, s ScoreSet) {
			assertFloat(t, "gpa", s.GPA, 3.5)
			if s.GRE != nil || s.GREV != nil || s.GREAW != nil {
				t.Errorf("unexpected GRE scores: %+v", s)
			}
		}},
		{"bare gre falls back to legacy total", "GRE 320", func(t *testing.T, s ScoreSet) {
			assertFloat(t, "gre", s.GRE, 320.0)
		}},
		{"labeled quant preferred over bare", "GRE 320 GRE Q 165", func(t *testing.T, s ScoreSet) {
			assertFloat(t, "gre", s.GRE, 165.0)
		}},
		{"trailing verbal form", "scored 158 V overall", func(t *testing.T, s ScoreSet) {
			assertFloat(t, "gre_v", s.GREV, 158.0)
		}},
		{"out of range gpa ignored", "scored 5.9 on something", func(t *testing.T, s ScoreSet) {
			if s.GPA != nil {
				t.Errorf("GPA = %v, want nil", *s.GPA)
			}
		}},
		{"nothing", "no numbers of note", func(t *testing.T, s ScoreSet) {
			if s.GPA != nil || s.GRE != nil || s.GREV != nil || s.GREAW != nil {
				t.Errorf("expected empty ScoreSet, got %+v", s)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Metrics(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // ISO or "" for nil
	}{
		{"long month", "January 31, 2026", "2026-01-31"},
		{"abbreviated month", "Feb 1, 2026", "2026-02-01"},
		{"iso", "2026-02-01", "2026-02-01"},
		{"us slash", "02/01/2026", "2026-02-01"},
		{"garbage", "not a date", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateISO(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDateISO(%q) = %q, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("ParseDateISO(%q) = %v, want %q", tt.input, deref(got), tt.want)
			}
		})
	}
}

// --- helpers ---

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func assertFloat(t *testing.T, field string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", field, want)
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
