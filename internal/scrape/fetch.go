// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/gradstats/internal/httputil"
)

const maxFetchRetries = 4

// fetchHTML GETs a survey page and returns its body as a string. HTTP 429
// is retried with exponential backoff; any other non-200 status is an
// error.
func (s *Scraper) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.client, req, maxFetchRetries)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}
	if readErr != nil {
		return "", fmt.Errorf("reading response body: %w", readErr)
	}
	return string(body), nil
}
