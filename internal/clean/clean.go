// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean implements the structural cleaning stage: it applies the
// shared field extractors to every scraped record and writes both the
// normalized payload and the line-delimited input file consumed by the
// external LLM normalization stage.
package clean

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/gradstats/internal/extract"
	"github.com/pdiddy/gradstats/internal/scrape"
	"github.com/pdiddy/gradstats/pkg/types"
)

const (
	// CleanPayloadFile is the normalized payload filename under the data
	// directory.
	CleanPayloadFile = "applicant_data_clean.json"

	// LLMInputFile is the line-delimited file handed to the external LLM
	// normalization stage, one JSON object per record.
	LLMInputFile = "llm_input.jsonl"
)

// Summary holds counts from one cleaning run.
type Summary struct {
	Records    int
	WithStatus int
	WithTerm   int
	WithGPA    int
}

// llmInputLine is one line of the LLM-stage input: only the fields the
// normalization prompt needs.
type llmInputLine struct {
	Program   *string `json:"program"`
	Comments  *string `json:"comments"`
	URL       *string `json:"url"`
	Status    *string `json:"status"`
	DateAdded *string `json:"date_added"`
}

// Run reads the raw payload from cfg.DataDir, normalizes every record and
// writes the cleaned payload plus the LLM-input JSONL back into cfg.DataDir.
func Run(cfg types.CleanConfig, w io.Writer) (Summary, error) {
	rawPath := filepath.Join(cfg.DataDir, scrape.RawPayloadFile)
	payload, err := scrape.LoadPayload(rawPath)
	if err != nil {
		return Summary{}, fmt.Errorf("loading raw payload: %w", err)
	}

	var summary Summary
	records := make([]types.NormalizedRecord, 0, len(payload.Records))
	for _, raw := range payload.Records {
		rec := extract.Apply(raw)
		records = append(records, rec)

		summary.Records++
		if rec.Status != nil {
			summary.WithStatus++
		}
		if rec.Term != nil {
			summary.WithTerm++
		}
		if rec.GPA != nil {
			summary.WithGPA++
		}
	}

	clean := types.CleanPayload{
		Source:       payload.Source,
		BaseURL:      payload.BaseURL,
		SurveyURL:    payload.SurveyURL,
		ScrapedAtUTC: payload.ScrapedAtUTC,
		RecordCount:  len(records),
		Records:      records,
	}

	if err := writeCleanPayload(filepath.Join(cfg.DataDir, CleanPayloadFile), clean); err != nil {
		return summary, err
	}
	if err := writeLLMInput(filepath.Join(cfg.DataDir, LLMInputFile), records); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "cleaned: %d records (%d with status, %d with term, %d with gpa)\n",
		summary.Records, summary.WithStatus, summary.WithTerm, summary.WithGPA)
	return summary, nil
}

func writeCleanPayload(path string, payload types.CleanPayload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling clean payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeLLMInput(path string, records []types.NormalizedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		line := llmInputLine{
			Program:   rec.Program,
			Comments:  rec.Comments,
			URL:       rec.URL,
			Status:    rec.Status,
			DateAdded: rec.DateAdded,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// LoadCleanPayload reads a previously written clean payload back from disk.
func LoadCleanPayload(path string) (*types.CleanPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var payload types.CleanPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &payload, nil
}
