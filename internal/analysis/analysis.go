// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis computes aggregate admissions metrics over the
// applicants table. All queries are read-only; the loader owns writes.
package analysis

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
)

// CountRow is one labeled bucket of a distribution query.
type CountRow struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Metrics holds the dashboard's aggregate numbers. Pointer fields are nil
// when the underlying aggregate has no qualifying rows.
type Metrics struct {
	Total          int    `json:"total" yaml:"total"`
	CycleTerm      string `json:"cycle_term" yaml:"cycle_term"`
	CycleTermCount int    `json:"cycle_term_count" yaml:"cycle_term_count"`

	PctInternational *float64 `json:"pct_international" yaml:"pct_international"`

	AvgGPA   *float64 `json:"avg_gpa" yaml:"avg_gpa"`
	AvgGRE   *float64 `json:"avg_gre" yaml:"avg_gre"`
	AvgGREV  *float64 `json:"avg_gre_v" yaml:"avg_gre_v"`
	AvgGREAW *float64 `json:"avg_gre_aw" yaml:"avg_gre_aw"`

	AvgGPAAmericanCycle *float64 `json:"avg_gpa_american_cycle" yaml:"avg_gpa_american_cycle"`
	AcceptancePct       *float64 `json:"acceptance_pct" yaml:"acceptance_pct"`
	AvgGPAAccepted      *float64 `json:"avg_gpa_accepted" yaml:"avg_gpa_accepted"`

	JHUMastersCS   int `json:"jhu_masters_cs" yaml:"jhu_masters_cs"`
	PhDCSAcceptRaw int `json:"phd_cs_accept_raw" yaml:"phd_cs_accept_raw"`
	PhDCSAcceptLLM int `json:"phd_cs_accept_llm" yaml:"phd_cs_accept_llm"`

	TermDist        []CountRow `json:"term_dist" yaml:"term_dist"`
	DecisionDist    []CountRow `json:"decision_dist" yaml:"decision_dist"`
	TopUniversities []CountRow `json:"top_universities" yaml:"top_universities"`
}

// Compute runs every metrics query against db. cycleYear selects the term
// the headline numbers focus on ("Fall {cycleYear}").
const defaultCycleYear = 2026

func Compute(ctx context.Context, db *sql.DB, cycleYear int) (*Metrics, error) {
	if cycleYear <= 0 {
		cycleYear = defaultCycleYear
	}
	term := "Fall " + strconv.Itoa(cycleYear)
	yearStart := strconv.Itoa(cycleYear) + "-01-01"
	yearEnd := strconv.Itoa(cycleYear+1) + "-01-01"
	yearLike := "%" + strconv.Itoa(cycleYear) + "%"

	m := &Metrics{CycleTerm: term}

	var err error
	if m.Total, err = oneInt(ctx, db, `SELECT COUNT(*) FROM applicants`); err != nil {
		return nil, err
	}
	if m.CycleTermCount, err = oneInt(ctx, db,
		`SELECT COUNT(*) FROM applicants WHERE term = ?`, term); err != nil {
		return nil, err
	}

	if m.PctInternational, err = oneFloat(ctx, db, `
		SELECT ROUND(
			100.0 * SUM(CASE WHEN us_or_international LIKE 'International%' THEN 1 ELSE 0 END)
			/ NULLIF(SUM(CASE WHEN us_or_international IS NOT NULL
			                  AND us_or_international <> '' THEN 1 ELSE 0 END), 0), 2)
		FROM applicants`); err != nil {
		return nil, err
	}

	for _, avg := range []struct {
		col  string
		dest **float64
	}{
		{"gpa", &m.AvgGPA},
		{"gre", &m.AvgGRE},
		{"gre_v", &m.AvgGREV},
		{"gre_aw", &m.AvgGREAW},
	} {
		q := fmt.Sprintf(
			`SELECT ROUND(AVG(%s), 3) FROM applicants WHERE %s IS NOT NULL`,
			avg.col, avg.col)
		if *avg.dest, err = oneFloat(ctx, db, q); err != nil {
			return nil, err
		}
	}

	if m.AvgGPAAmericanCycle, err = oneFloat(ctx, db, `
		SELECT ROUND(AVG(gpa), 3) FROM applicants
		WHERE term = ? AND us_or_international LIKE 'American%' AND gpa IS NOT NULL`,
		term); err != nil {
		return nil, err
	}

	if m.AcceptancePct, err = oneFloat(ctx, db, `
		SELECT ROUND(
			100.0 * SUM(CASE WHEN status LIKE 'Accepted%' THEN 1 ELSE 0 END)
			/ NULLIF(SUM(CASE WHEN status LIKE 'Accepted%' OR status LIKE 'Rejected%'
				OR status LIKE 'Waitlisted%' OR status LIKE 'Interview%'
				THEN 1 ELSE 0 END), 0), 2)
		FROM applicants WHERE term = ?`, term); err != nil {
		return nil, err
	}

	if m.AvgGPAAccepted, err = oneFloat(ctx, db, `
		SELECT ROUND(AVG(gpa), 3) FROM applicants
		WHERE term = ? AND status LIKE 'Accepted%' AND gpa IS NOT NULL`,
		term); err != nil {
		return nil, err
	}

	if m.JHUMastersCS, err = oneInt(ctx, db, `
		SELECT COUNT(*) FROM applicants
		WHERE (program LIKE '%johns hopkins%' OR program LIKE '%jhu%'
			OR llm_generated_university LIKE '%johns hopkins%'
			OR llm_generated_university LIKE '%jhu%')
		AND (program LIKE '%computer science%' OR comments LIKE '%computer science%'
			OR llm_generated_program LIKE '%computer science%')
		AND (degree LIKE 'Master%' OR program LIKE '%master%' OR comments LIKE '%master%')`); err != nil {
		return nil, err
	}

	if m.PhDCSAcceptRaw, err = oneInt(ctx, db, `
		SELECT COUNT(*) FROM applicants
		WHERE status LIKE 'Accepted%'
		AND ((date_added >= ? AND date_added < ?) OR term LIKE ?)
		AND (program LIKE '%computer science%' OR comments LIKE '%computer science%')
		AND (degree = 'PhD' OR program LIKE '%phd%' OR comments LIKE '%phd%')
		AND (program LIKE '%georgetown%' OR program LIKE '%mit%'
			OR program LIKE '%stanford%' OR program LIKE '%carnegie mellon%'
			OR program LIKE '%cmu%')`,
		yearStart, yearEnd, yearLike); err != nil {
		return nil, err
	}

	if m.PhDCSAcceptLLM, err = oneInt(ctx, db, `
		SELECT COUNT(*) FROM applicants
		WHERE status LIKE 'Accepted%'
		AND ((date_added >= ? AND date_added < ?) OR term LIKE ?)
		AND (llm_generated_program LIKE '%computer science%' OR program LIKE '%computer science%')
		AND (degree = 'PhD' OR program LIKE '%phd%' OR comments LIKE '%phd%')
		AND (llm_generated_university LIKE '%georgetown%' OR llm_generated_university LIKE '%mit%'
			OR llm_generated_university LIKE '%stanford%'
			OR llm_generated_university LIKE '%carnegie mellon%'
			OR program LIKE '%georgetown%' OR program LIKE '%mit%'
			OR program LIKE '%stanford%' OR program LIKE '%carnegie mellon%')`,
		yearStart, yearEnd, yearLike); err != nil {
		return nil, err
	}

	if m.TermDist, err = countRows(ctx, db, `
		SELECT COALESCE(NULLIF(term, ''), 'No term detected'), COUNT(*)
		FROM applicants GROUP BY 1 ORDER BY COUNT(*) DESC LIMIT 10`); err != nil {
		return nil, err
	}
	if m.DecisionDist, err = countRows(ctx, db, `
		SELECT COALESCE(NULLIF(status, ''), 'No decision detected'), COUNT(*)
		FROM applicants GROUP BY 1 ORDER BY COUNT(*) DESC LIMIT 10`); err != nil {
		return nil, err
	}
	if m.TopUniversities, err = countRows(ctx, db, `
		SELECT COALESCE(NULLIF(llm_generated_university, ''), 'Unknown'), COUNT(*)
		FROM applicants WHERE term = ? GROUP BY 1 ORDER BY COUNT(*) DESC LIMIT 5`,
		term); err != nil {
		return nil, err
	}

	return m, nil
}

func oneInt(ctx context.Context, db *sql.DB, query string, args ...any) (int, error) {
	var n sql.NullInt64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("querying metrics: %w", err)
	}
	return int(n.Int64), nil
}

func oneFloat(ctx context.Context, db *sql.DB, query string, args ...any) (*float64, error) {
	var f sql.NullFloat64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&f); err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}
	if !f.Valid {
		return nil, nil
	}
	v := f.Float64
	return &v, nil
}

func countRows(ctx context.Context, db *sql.DB, query string, args ...any) ([]CountRow, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying distribution: %w", err)
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var r CountRow
		if err := rows.Scan(&r.Label, &r.Count); err != nil {
			return nil, fmt.Errorf("scanning distribution row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WriteReport prints the metrics as a plain-text report.
func (m *Metrics) WriteReport(w io.Writer) {
	fmt.Fprintf(w, "Applicants: %d total, %d in %s\n", m.Total, m.CycleTermCount, m.CycleTerm)
	fmt.Fprintf(w, "International: %s%%\n", fmtFloat(m.PctInternational))
	fmt.Fprintf(w, "Averages: GPA %s, GRE %s, GRE V %s, GRE AW %s\n",
		fmtFloat(m.AvgGPA), fmtFloat(m.AvgGRE), fmtFloat(m.AvgGREV), fmtFloat(m.AvgGREAW))
	fmt.Fprintf(w, "%s American avg GPA: %s\n", m.CycleTerm, fmtFloat(m.AvgGPAAmericanCycle))
	fmt.Fprintf(w, "%s acceptance: %s%% (accepted avg GPA %s)\n",
		m.CycleTerm, fmtFloat(m.AcceptancePct), fmtFloat(m.AvgGPAAccepted))
	fmt.Fprintf(w, "JHU masters CS entries: %d\n", m.JHUMastersCS)
	fmt.Fprintf(w, "PhD CS acceptances: %d raw, %d with LLM fields\n",
		m.PhDCSAcceptRaw, m.PhDCSAcceptLLM)

	fmt.Fprintln(w, "\nTerms:")
	for _, r := range m.TermDist {
		fmt.Fprintf(w, "  %-24s %d\n", r.Label, r.Count)
	}
	fmt.Fprintln(w, "Decisions:")
	for _, r := range m.DecisionDist {
		fmt.Fprintf(w, "  %-24s %d\n", r.Label, r.Count)
	}
	fmt.Fprintf(w, "Top universities (%s):\n", m.CycleTerm)
	for _, r := range m.TopUniversities {
		fmt.Fprintf(w, "  %-24s %d\n", r.Label, r.Count)
	}
}

func fmtFloat(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
