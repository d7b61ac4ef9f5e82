// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gradstats/internal/scrape"
	"github.com/pdiddy/gradstats/pkg/types"
)

func strPtr(s string) *string { return &s }

func writeRawPayload(t *testing.T, dir string, records []types.RawRecord) {
	t.Helper()
	payload := types.RawPayload{
		Source:      "thegradcafe_survey",
		BaseURL:     "https://example.org",
		SurveyURL:   "https://example.org/survey/",
		RecordCount: len(records),
		Records:     records,
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, scrape.RawPayloadFile), data, 0o644))
}

func TestRunNormalizesRecords(t *testing.T) {
	dir := t.TempDir()
	writeRawPayload(t, dir, []types.RawRecord{
		{
			SourceURL:            "https://example.org/result/1",
			ProgramUniversityRaw: strPtr("Computer Science PhD, MIT"),
			StatusRaw:            strPtr("Accepted"),
			DateAddedRaw:         strPtr("January 15, 2026"),
			CommentsRaw:          strPtr("GPA 3.95 International Fall 2026"),
		},
		{
			SourceURL:            "https://example.org/result/2",
			ProgramUniversityRaw: strPtr("Statistics MS, Stanford"),
			StatusRaw:            strPtr("Rejected"),
		},
	})

	summary, err := Run(types.CleanConfig{DataDir: dir}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 2, summary.WithStatus)
	assert.Equal(t, 1, summary.WithTerm)
	assert.Equal(t, 1, summary.WithGPA)

	payload, err := LoadCleanPayload(filepath.Join(dir, CleanPayloadFile))
	require.NoError(t, err)
	assert.Equal(t, "thegradcafe_survey", payload.Source)
	require.Len(t, payload.Records, 2)

	first := payload.Records[0]
	require.NotNil(t, first.Status)
	assert.Equal(t, "Accepted", *first.Status)
	require.NotNil(t, first.Term)
	assert.Equal(t, "Fall 2026", *first.Term)
	require.NotNil(t, first.UsOrInternational)
	assert.Equal(t, "International", *first.UsOrInternational)
	require.NotNil(t, first.GPA)
	assert.Equal(t, 3.95, *first.GPA)
	require.NotNil(t, first.DateAdded)
	assert.Equal(t, "2026-01-15", *first.DateAdded)
	require.NotNil(t, first.Degree)
	assert.Equal(t, "PhD", *first.Degree)

	second := payload.Records[1]
	require.NotNil(t, second.Status)
	assert.Equal(t, "Rejected", *second.Status)
	assert.Nil(t, second.Term)
	assert.Nil(t, second.GPA)
}

func TestRunWritesLLMInput(t *testing.T) {
	dir := t.TempDir()
	writeRawPayload(t, dir, []types.RawRecord{
		{
			SourceURL:            "https://example.org/result/1",
			ProgramUniversityRaw: strPtr("Computer Science PhD, MIT"),
			StatusRaw:            strPtr("Accepted"),
			CommentsRaw:          strPtr("excited to start"),
		},
	})

	_, err := Run(types.CleanConfig{DataDir: dir}, io.Discard)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, LLMInputFile))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan(), "expected one JSONL line")

	var line map[string]any
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
	assert.Equal(t, "Computer Science PhD, MIT", line["program"])
	assert.Equal(t, "Accepted", line["status"])
	assert.Equal(t, "excited to start", line["comments"])
	assert.Equal(t, "https://example.org/result/1", line["url"])

	assert.False(t, scanner.Scan(), "expected exactly one line")
}

func TestRunMissingRawPayload(t *testing.T) {
	_, err := Run(types.CleanConfig{DataDir: t.TempDir()}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading raw payload")
}
