// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/gradstats/pkg/types"
)

// RawPayloadFile is the scraper output filename under the data directory.
const RawPayloadFile = "applicant_data.json"

// SavePayload writes scraped records plus scrape metadata to
// dataDir/applicant_data.json.
func SavePayload(dataDir string, cfg types.ScrapeConfig, records []types.RawRecord) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	payload := types.RawPayload{
		Source:       "thegradcafe_survey",
		BaseURL:      cfg.BaseURL,
		SurveyURL:    cfg.BaseURL + cfg.SurveyPath,
		ScrapedAtUTC: time.Now().UTC().Format(time.RFC3339),
		RecordCount:  len(records),
		Records:      records,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	path := filepath.Join(dataDir, RawPayloadFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadPayload reads a previously saved raw payload back from disk.
func LoadPayload(path string) (*types.RawPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var payload types.RawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &payload, nil
}
