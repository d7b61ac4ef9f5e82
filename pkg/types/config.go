// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gradstats/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the survey scraping stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the survey site root (default "https://www.thegradcafe.com").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// SurveyPath is the results listing path under BaseURL (default "/survey/").
	SurveyPath string `json:"survey_path" yaml:"survey_path"`

	// PerPage is the requested rows-per-page value (default 100). The site
	// may ignore it; whatever the page returns is parsed.
	PerPage int `json:"per_page" yaml:"per_page"`

	// MaxRecords caps the total rows collected across pages (default 30000).
	MaxRecords int `json:"max_records" yaml:"max_records"`

	// PageDelay is the pause between consecutive page fetches (default 1.5s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// DataDir is where the raw payload file is written (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// CleanConfig holds settings for the structural cleaning stage.
type CleanConfig struct {
	// DataDir holds the raw payload input and cleaned/LLM-input outputs.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// LoadConfig holds settings for the load/merge stage.
type LoadConfig struct {
	// DatabasePath is the SQLite file backing the applicants table.
	DatabasePath string `json:"database_path" yaml:"database_path"`

	// DataDir holds the LLM-extended JSONL input (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// CycleYear is the admissions cycle used for the term fallback: a
	// record with no extracted term but a date_added in this year is
	// assigned "Fall {CycleYear}" (default 2026).
	CycleYear int `json:"cycle_year" yaml:"cycle_year"`
}

// AnalysisConfig holds settings for the aggregate metrics stage.
type AnalysisConfig struct {
	// DatabasePath is the SQLite file backing the applicants table.
	DatabasePath string `json:"database_path" yaml:"database_path"`

	// CycleYear selects the term the headline metrics focus on
	// ("Fall {CycleYear}").
	CycleYear int `json:"cycle_year" yaml:"cycle_year"`

	// SnapshotPath is where the YAML analysis snapshot is written after
	// each refresh (default "data/analysis.yaml").
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`
}

// WebConfig holds settings for the dashboard server.
type WebConfig struct {
	// Addr is the listen address (default "127.0.0.1:8000").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scrape   ScrapeConfig   `json:"scrape" yaml:"scrape"`
	Clean    CleanConfig    `json:"clean" yaml:"clean"`
	Load     LoadConfig     `json:"load" yaml:"load"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Web      WebConfig      `json:"web" yaml:"web"`
}
