// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"net/http"

	"github.com/temoto/robotstxt"
)

// RobotsAllowed fetches BaseURL/robots.txt and reports whether the
// configured user agent may fetch the survey path. A missing or
// unreachable robots.txt file allows fetching per the robotstxt
// library's status-code handling (404 means allow all, 5xx means
// disallow all).
func (s *Scraper) RobotsAllowed(ctx context.Context) (bool, error) {
	robotsURL := s.cfg.BaseURL + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating robots request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetching %s: %w", robotsURL, err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return false, fmt.Errorf("parsing robots.txt: %w", err)
	}

	return data.FindGroup(s.cfg.UserAgent).Test(s.cfg.SurveyPath), nil
}
