// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the record shapes passed between pipeline stages
// and the configuration structs for each stage.
package types

// RawRecord is one scraped survey row before any field extraction.
// SourceURL is always set; every other field may be nil (never "").
type RawRecord struct {
	// SourceURL identifies the row. When the survey table carries no
	// per-row link, the scraper synthesizes "{page_url}#row-{page}-{index}".
	SourceURL string `json:"source_url" yaml:"source_url"`

	// ProgramUniversityRaw is the combined program + institution cell text.
	ProgramUniversityRaw *string `json:"program_university_raw" yaml:"program_university_raw"`

	// StatusRaw is the raw decision cell text.
	StatusRaw *string `json:"status_raw" yaml:"status_raw"`

	// DateAddedRaw is the raw "date posted" cell text.
	DateAddedRaw *string `json:"date_added_raw" yaml:"date_added_raw"`

	// CommentsRaw is free-text applicant comments, frequently carrying
	// embedded metrics (GPA, GRE scores, nationality, term).
	CommentsRaw *string `json:"comments_raw" yaml:"comments_raw"`
}

// NormalizedRecord holds the structured fields derived from a RawRecord
// by the shared extractors. Absent fields stay nil.
type NormalizedRecord struct {
	// Program is kept identical to the raw combined string; semantic
	// cleanup belongs to the external LLM normalization stage.
	Program  *string `json:"program" yaml:"program"`
	Comments *string `json:"comments" yaml:"comments"`
	URL      *string `json:"url" yaml:"url"`

	// DateAdded is an ISO YYYY-MM-DD string when the posted date parsed.
	DateAdded *string `json:"date_added" yaml:"date_added"`

	// Status is one of Accepted, Rejected, Waitlisted, Interview.
	Status *string `json:"status" yaml:"status"`

	// Term is "{Season} {4-digit year}", e.g. "Fall 2026".
	Term *string `json:"term" yaml:"term"`

	// UsOrInternational is American, International, or Other.
	UsOrInternational *string `json:"us_or_international" yaml:"us_or_international"`

	GPA   *float64 `json:"gpa" yaml:"gpa"`
	GRE   *float64 `json:"gre" yaml:"gre"`
	GREV  *float64 `json:"gre_v" yaml:"gre_v"`
	GREAW *float64 `json:"gre_aw" yaml:"gre_aw"`

	// Degree is PhD, Masters, Bachelors, or the raw string when
	// unrecognized.
	Degree *string `json:"degree" yaml:"degree"`

	// DecisionDateText is the raw matched snippet like "Accepted on 29 Jan",
	// kept for traceability only. The year is never present, so it is not
	// parsed into a calendar date.
	DecisionDateText *string `json:"decision_date_text,omitempty" yaml:"decision_date_text,omitempty"`
}

// LLMRecord is one line of the secondary LLM-normalized JSONL source.
// The producing stage has emitted both hyphenated and underscored key
// spellings over time; both are accepted.
type LLMRecord struct {
	Program      *string `json:"program"`
	Comments     *string `json:"comments"`
	URL          *string `json:"url"`
	Status       *string `json:"status"`
	DateAdded    *string `json:"date_added"`
	DateAddedRaw *string `json:"date_added_raw"`

	MastersOrPhD *string `json:"masters_or_phd"`
	Degree       *string `json:"degree"`

	LLMProgram       *string `json:"llm-generated-program"`
	LLMProgramAlt    *string `json:"llm_generated_program"`
	LLMUniversity    *string `json:"llm-generated-university"`
	LLMUniversityAlt *string `json:"llm_generated_university"`
}

// GeneratedProgram returns the LLM-normalized program under either key
// spelling, or nil.
func (r *LLMRecord) GeneratedProgram() *string {
	if r.LLMProgram != nil {
		return r.LLMProgram
	}
	return r.LLMProgramAlt
}

// GeneratedUniversity returns the LLM-normalized university under either
// key spelling, or nil.
func (r *LLMRecord) GeneratedUniversity() *string {
	if r.LLMUniversity != nil {
		return r.LLMUniversity
	}
	return r.LLMUniversityAlt
}

// RawPayload is the scraper output file: scrape metadata plus raw records.
type RawPayload struct {
	Source       string      `json:"source" yaml:"source"`
	BaseURL      string      `json:"base_url" yaml:"base_url"`
	SurveyURL    string      `json:"survey_url" yaml:"survey_url"`
	ScrapedAtUTC string      `json:"scraped_at_utc" yaml:"scraped_at_utc"`
	RecordCount  int         `json:"record_count" yaml:"record_count"`
	Records      []RawRecord `json:"records" yaml:"records"`
}

// CleanPayload is the cleaning stage output: the scrape metadata carried
// through with records replaced by their normalized form.
type CleanPayload struct {
	Source       string             `json:"source" yaml:"source"`
	BaseURL      string             `json:"base_url" yaml:"base_url"`
	SurveyURL    string             `json:"survey_url" yaml:"survey_url"`
	ScrapedAtUTC string             `json:"scraped_at_utc" yaml:"scraped_at_utc"`
	RecordCount  int                `json:"record_count" yaml:"record_count"`
	Records      []NormalizedRecord `json:"records" yaml:"records"`
}
