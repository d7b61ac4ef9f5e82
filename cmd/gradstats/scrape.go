package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gradstats/internal/scrape"
	"github.com/pdiddy/gradstats/pkg/types"
)

const defaultScrapeTimeout = 30 * time.Second

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch survey pages and save the raw records",
	Long: `Scrape pages through the survey listing, parsing each results table row
into a raw record, and saves the payload to the data directory. The site's
robots.txt is checked first; a disallow aborts the run.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("base-url", "", "survey site root (default "+defaultBaseURL+")")
	scrapeCmd.Flags().Int("per-page", 0, "rows per page to request (default 100)")
	scrapeCmd.Flags().Int("max-records", 0, "cap on total rows collected (default 30000)")
	scrapeCmd.Flags().Duration("page-delay", 0, "pause between page fetches (default 1.5s)")
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	scrapeCmd.Flags().String("data-dir", "", "output directory (default data)")

	rootCmd.AddCommand(scrapeCmd)
}

func scrapeConfig(cmd *cobra.Command) types.ScrapeConfig {
	baseURL, _ := cmd.Flags().GetString("base-url")
	perPage, _ := cmd.Flags().GetInt("per-page")
	maxRecords, _ := cmd.Flags().GetInt("max-records")
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	if pageDelay == 0 {
		pageDelay = viper.GetDuration("scrape.page_delay")
	}
	if timeout == 0 {
		timeout = viper.GetDuration("scrape.timeout")
	}
	if timeout == 0 {
		timeout = defaultScrapeTimeout
	}

	return types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: stringSetting("", "scrape.user_agent", defaultUserAgent),
		},
		BaseURL:    stringSetting(baseURL, "scrape.base_url", defaultBaseURL),
		SurveyPath: stringSetting("", "scrape.survey_path", defaultSurveyPath),
		PerPage:    intSetting(perPage, "scrape.per_page", 0),
		MaxRecords: intSetting(maxRecords, "scrape.max_records", 0),
		PageDelay:  pageDelay,
		DataDir:    stringSetting(dataDir, "scrape.data_dir", defaultDataDir),
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := scrapeConfig(cmd)

	client := &http.Client{Timeout: cfg.Timeout}
	scraper := scrape.New(client, cfg)

	records, err := scraper.Run(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}

	if err := scrape.SavePayload(cfg.DataDir, cfg, records); err != nil {
		return err
	}
	fmt.Printf("saved %d records to %s/%s\n", len(records), cfg.DataDir, scrape.RawPayloadFile)
	return nil
}
