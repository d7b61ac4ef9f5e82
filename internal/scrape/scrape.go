// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape pulls admissions survey rows from the public results
// site. It checks robots.txt before fetching, walks the paginated survey
// table, and parses each row into a RawRecord for the cleaning stage.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/gradstats/pkg/types"
)

const (
	defaultPerPage    = 100
	defaultMaxRecords = 30000
	defaultPageDelay  = 1500 * time.Millisecond
)

// Scraper fetches and parses survey result pages.
type Scraper struct {
	client *http.Client
	cfg    types.ScrapeConfig
}

// New builds a Scraper from config, filling in defaults for unset values.
func New(client *http.Client, cfg types.ScrapeConfig) *Scraper {
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = defaultMaxRecords
	}
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = defaultPageDelay
	}
	return &Scraper{client: client, cfg: cfg}
}

// Run scrapes survey pages until MaxRecords rows are collected or a page
// comes back empty (end of data, or the site layout changed). Progress is
// reported to w, one line per page.
func (s *Scraper) Run(ctx context.Context, w io.Writer) ([]types.RawRecord, error) {
	allowed, err := s.RobotsAllowed(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking robots.txt: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt does not permit scraping %s", s.cfg.SurveyPath)
	}

	var records []types.RawRecord
	for page := 1; len(records) < s.cfg.MaxRecords; page++ {
		pageURL := s.surveyURL(page)

		html, err := s.fetchHTML(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		pageRecords, err := parseRows(html, s.cfg.BaseURL, pageURL, page)
		if err != nil {
			return nil, fmt.Errorf("parsing page %d: %w", page, err)
		}
		if len(pageRecords) == 0 {
			fmt.Fprintf(w, "no rows found on page %d, stopping\n", page)
			break
		}

		records = append(records, pageRecords...)
		fmt.Fprintf(w, "page %d: +%d records, total %d\n", page, len(pageRecords), len(records))

		if len(records) >= s.cfg.MaxRecords {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.cfg.PageDelay):
		}
	}

	if len(records) > s.cfg.MaxRecords {
		records = records[:s.cfg.MaxRecords]
	}
	return records, nil
}

// ParseSample fetches the first survey page only and returns up to limit
// rows. Useful for verifying parsing before a full run.
func (s *Scraper) ParseSample(ctx context.Context, limit int) ([]types.RawRecord, error) {
	allowed, err := s.RobotsAllowed(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking robots.txt: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt does not permit scraping %s", s.cfg.SurveyPath)
	}

	pageURL := s.surveyURL(1)
	html, err := s.fetchHTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	records, err := parseRows(html, s.cfg.BaseURL, pageURL, 1)
	if err != nil {
		return nil, err
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Scraper) surveyURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pp", strconv.Itoa(s.cfg.PerPage))
	q.Set("sort", "newest")
	return s.cfg.BaseURL + s.cfg.SurveyPath + "?" + q.Encode()
}

// parseRows converts the first table on the page into RawRecords. Columns
// are located by header keywords rather than fixed indices; the site has
// relabeled columns over time.
func parseRows(html, baseURL, pageURL string, page int) ([]types.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil, nil
	}

	var headers []string
	rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, normalizeHeader(cell.Text()))
	})

	findCol := func(keywords ...string) int {
		for i, h := range headers {
			for _, kw := range keywords {
				if strings.Contains(h, kw) {
					return i
				}
			}
		}
		return -1
	}

	colUni := findCol("institution", "school", "university")
	colProg := findCol("program", "department", "subject")
	colDecision := findCol("decision", "result", "status")
	colDate := findCol("date added", "added", "date")
	colNotes := findCol("notes", "comment")

	var records []types.RawRecord
	rows.Slice(1, rows.Length()).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		cellText := func(idx int) *string {
			if idx < 0 || idx >= cells.Length() {
				return nil
			}
			txt := strings.TrimSpace(collapseSpace(cells.Eq(idx).Text()))
			if txt == "" {
				return nil
			}
			return &txt
		}

		uni := cellText(colUni)
		prog := cellText(colProg)
		combined := combineProgramUniversity(prog, uni, cells)

		rec := types.RawRecord{
			SourceURL:            rowLink(row, baseURL, pageURL, page, i+1),
			ProgramUniversityRaw: combined,
			StatusRaw:            cellText(colDecision),
			DateAddedRaw:         cellText(colDate),
			CommentsRaw:          cellText(colNotes),
		}
		records = append(records, rec)
	})

	return records, nil
}

// combineProgramUniversity merges separate program and university cells
// into the combined raw field downstream stages expect. When neither
// column was identified, the first cell's text is the last resort.
func combineProgramUniversity(prog, uni *string, cells *goquery.Selection) *string {
	switch {
	case prog != nil && uni != nil:
		v := *prog + ", " + *uni
		return &v
	case prog != nil:
		return prog
	case uni != nil:
		return uni
	}
	txt := strings.TrimSpace(collapseSpace(cells.Eq(0).Text()))
	if txt == "" {
		return nil
	}
	return &txt
}

// rowLink finds a row-specific link when the table carries one, otherwise
// synthesizes "{page_url}#row-{page}-{index}" so every record still has a
// unique source URL.
func rowLink(row *goquery.Selection, baseURL, pageURL string, page, index int) string {
	href, ok := row.Find("a[href]").First().Attr("href")
	if ok && strings.TrimSpace(href) != "" {
		if base, err := url.Parse(baseURL); err == nil {
			if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
				return base.ResolveReference(ref).String()
			}
		}
	}
	return fmt.Sprintf("%s#row-%d-%d", pageURL, page, index)
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
