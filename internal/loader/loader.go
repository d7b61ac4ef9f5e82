// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdiddy/gradstats/internal/extract"
	"github.com/pdiddy/gradstats/pkg/types"
)

// LLMPayloadFile is the expected secondary-source filename under the
// data directory: one JSON object per line, produced by the external LLM
// normalization stage.
const LLMPayloadFile = "llm_extend_applicant_data.json"

// maxLineBytes bounds a single JSONL line; comment fields can be long.
const maxLineBytes = 1 << 20

// LoadSummary holds counts from one load run.
type LoadSummary struct {
	Read      int
	Inserted  int
	Merged    int
	Malformed int
}

// Load streams the LLM-extended JSONL file into the applicants table.
//
// A missing file is fatal and aborts the load. Malformed lines are
// skipped individually. For every well-formed record the extracted
// fields are recomputed fresh from the combined text (extraction is
// deterministic, so repeated loads of identical input derive identical
// fields), the row is inserted with skip-on-conflict semantics, and the
// LLM-normalized program/university are merged onto the stored row.
func (s *Store) Load(ctx context.Context, w io.Writer, path string) (LoadSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("missing LLM-extended JSONL at %s: %w", path, err)
	}
	defer f.Close()

	if err := s.EnsureIndex(ctx); err != nil {
		return LoadSummary{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary LoadSummary

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		var rec types.LLMRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			summary.Malformed++
			continue
		}
		summary.Read++

		row := s.mergeRecord(&rec)

		res, err := stmt.ExecContext(ctx,
			row.Program, row.Comments, row.DateAdded, row.URL,
			row.Status, row.Term, row.UsOrInternational,
			row.GPA, row.GRE, row.GREV, row.GREAW,
			row.Degree, row.LLMProgram, row.LLMUniversity,
		)
		if err != nil {
			return summary, fmt.Errorf("inserting record %s: %w", deref(row.URL), err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			summary.Inserted += int(n)
			continue
		}

		// Row already stored: refresh only the LLM-supplied fields.
		key := keyOf(row.URL, row.Program, row.Comments)
		if err := upsertLLMFields(ctx, tx, key, row.LLMProgram, row.LLMUniversity); err != nil {
			return summary, err
		}
		summary.Merged++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing load: %w", err)
	}

	fmt.Fprintf(w, "read: %d, inserted: %d, merged: %d, malformed skipped: %d\n",
		summary.Read, summary.Inserted, summary.Merged, summary.Malformed)
	return summary, nil
}

// mergedRow is one applicants row ready for insert.
type mergedRow struct {
	Program, Comments, DateAdded, URL *string
	Status, Term, UsOrInternational   *string
	Degree, LLMProgram, LLMUniversity *string
	GPA, GRE, GREV, GREAW             *float64
}

// mergeRecord reconciles one secondary-source record into a full row:
// structural fields are cleaned, the degree is normalized from whichever
// degree-ish column the source carried, and term/status/nationality/
// scores are re-extracted from the combined text blob.
func (s *Store) mergeRecord(rec *types.LLMRecord) mergedRow {
	row := mergedRow{
		Program:       extract.CleanPtr(rec.Program),
		Comments:      extract.CleanPtr(rec.Comments),
		URL:           extract.CleanPtr(rec.URL),
		LLMProgram:    extract.CleanPtr(rec.GeneratedProgram()),
		LLMUniversity: extract.CleanPtr(rec.GeneratedUniversity()),
	}

	if raw := firstNonNil(rec.DateAdded, rec.DateAddedRaw); raw != nil {
		row.DateAdded = extract.ParseDateISO(*raw)
	}
	if raw := firstNonNil(rec.MastersOrPhD, rec.Degree); raw != nil {
		row.Degree = extract.NormalizeDegree(*raw)
	}

	row.Status = extract.CleanPtr(rec.Status)

	combined := extract.CombinedText(row.Program, row.Comments, row.Status,
		row.LLMProgram, row.LLMUniversity)

	row.Term = extract.Term(combined)
	if row.Term == nil && row.DateAdded != nil && dateYear(*row.DateAdded) == s.cycleYear {
		term := "Fall " + strconv.Itoa(s.cycleYear)
		row.Term = &term
	}

	if row.Status == nil {
		row.Status = extract.Status(combined)
	}
	row.UsOrInternational = extract.Nationality(combined)

	scores := extract.Metrics(combined)
	row.GPA = scores.GPA
	row.GRE = scores.GRE
	row.GREV = scores.GREV
	row.GREAW = scores.GREAW

	return row
}

func dateYear(iso string) int {
	if len(iso) < 4 {
		return 0
	}
	y, err := strconv.Atoi(iso[:4])
	if err != nil {
		return 0
	}
	return y
}

func firstNonNil(ptrs ...*string) *string {
	for _, p := range ptrs {
		if p != nil && *p != "" {
			return p
		}
	}
	return nil
}
