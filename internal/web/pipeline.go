// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/gradstats/internal/analysis"
	"github.com/pdiddy/gradstats/internal/clean"
	"github.com/pdiddy/gradstats/internal/loader"
	"github.com/pdiddy/gradstats/internal/scrape"
	"github.com/pdiddy/gradstats/pkg/types"
)

// DataPipeline runs the scrape, clean and load stages in-process for the
// dashboard pull job.
type DataPipeline struct {
	cfg   types.PipelineConfig
	store *loader.Store

	// progress receives per-stage output; defaults to io.Discard.
	progress io.Writer
}

// NewDataPipeline wires the pull and refresh jobs onto an open store.
func NewDataPipeline(cfg types.PipelineConfig, store *loader.Store) *DataPipeline {
	return &DataPipeline{cfg: cfg, store: store, progress: io.Discard}
}

// SetProgress redirects stage output, e.g. to the server log.
func (p *DataPipeline) SetProgress(w io.Writer) {
	p.progress = w
}

// Pull scrapes the survey, cleans the records, inserts them and merges
// the LLM-extended file when present. The returned message summarizes
// what happened for display on the dashboard.
func (p *DataPipeline) Pull(ctx context.Context) (string, error) {
	client := &http.Client{Timeout: p.cfg.Scrape.Timeout}
	scraper := scrape.New(client, p.cfg.Scrape)

	records, err := scraper.Run(ctx, p.progress)
	if err != nil {
		return "", fmt.Errorf("scraping survey: %w", err)
	}
	if err := scrape.SavePayload(p.cfg.Scrape.DataDir, p.cfg.Scrape, records); err != nil {
		return "", fmt.Errorf("saving raw payload: %w", err)
	}

	if _, err := clean.Run(p.cfg.Clean, p.progress); err != nil {
		return "", fmt.Errorf("cleaning records: %w", err)
	}
	payload, err := clean.LoadCleanPayload(filepath.Join(p.cfg.Clean.DataDir, clean.CleanPayloadFile))
	if err != nil {
		return "", fmt.Errorf("reading clean payload: %w", err)
	}

	if err := p.store.EnsureIndex(ctx); err != nil {
		return "", fmt.Errorf("preparing storage: %w", err)
	}
	inserted, err := p.store.InsertNormalized(ctx, payload.Records)
	if err != nil {
		return "", fmt.Errorf("loading records: %w", err)
	}

	msg := fmt.Sprintf("pulled %d records, %d new", len(records), inserted)

	// The LLM-extended file is produced out of band; merge it when it
	// exists, otherwise the pull is complete without it.
	llmPath := filepath.Join(p.cfg.Load.DataDir, loader.LLMPayloadFile)
	if _, err := os.Stat(llmPath); err == nil {
		summary, err := p.store.Load(ctx, p.progress, llmPath)
		if err != nil {
			return "", fmt.Errorf("merging LLM-extended records: %w", err)
		}
		msg = fmt.Sprintf("%s, %d LLM-merged", msg, summary.Merged)
	}

	return msg, nil
}

// Refresh recomputes the metrics and writes the YAML snapshot.
func (p *DataPipeline) Refresh(ctx context.Context) (*analysis.Metrics, error) {
	m, err := analysis.Compute(ctx, p.store.DB(), p.cfg.Analysis.CycleYear)
	if err != nil {
		return nil, fmt.Errorf("computing metrics: %w", err)
	}
	if path := p.cfg.Analysis.SnapshotPath; path != "" {
		if err := analysis.WriteSnapshot(path, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}
