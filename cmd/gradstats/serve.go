package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gradstats/internal/analysis"
	"github.com/pdiddy/gradstats/internal/loader"
	"github.com/pdiddy/gradstats/internal/web"
	"github.com/pdiddy/gradstats/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admissions dashboard",
	Long: `Serve runs the web dashboard. The page shows the aggregate metrics and
offers two background jobs: pulling fresh survey data through the full
pipeline and refreshing the analysis. At most one job runs at a time;
triggers received while a job is running are rejected with 409.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default "+defaultAddr+")")
	serveCmd.Flags().String("db", "", "SQLite database path (default "+defaultDBPath+")")
	serveCmd.Flags().String("data-dir", "", "data directory (default data)")
	serveCmd.Flags().Int("cycle-year", 0, "admissions cycle year (default 2026)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	db, _ := cmd.Flags().GetString("db")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	cycleYear, _ := cmd.Flags().GetInt("cycle-year")

	addr = stringSetting(addr, "web.addr", defaultAddr)
	dbPath := stringSetting(db, "load.database_path", defaultDBPath)
	dir := stringSetting(dataDir, "scrape.data_dir", defaultDataDir)
	year := intSetting(cycleYear, "load.cycle_year", defaultCycleYear)

	timeout := viper.GetDuration("scrape.timeout")
	if timeout == 0 {
		timeout = defaultScrapeTimeout
	}

	cfg := types.PipelineConfig{
		Scrape: types.ScrapeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: stringSetting("", "scrape.user_agent", defaultUserAgent),
			},
			BaseURL:    stringSetting("", "scrape.base_url", defaultBaseURL),
			SurveyPath: stringSetting("", "scrape.survey_path", defaultSurveyPath),
			PerPage:    viper.GetInt("scrape.per_page"),
			MaxRecords: viper.GetInt("scrape.max_records"),
			PageDelay:  viper.GetDuration("scrape.page_delay"),
			DataDir:    dir,
		},
		Clean: types.CleanConfig{DataDir: dir},
		Load: types.LoadConfig{
			DatabasePath: dbPath,
			DataDir:      dir,
			CycleYear:    year,
		},
		Analysis: types.AnalysisConfig{
			DatabasePath: dbPath,
			CycleYear:    year,
			SnapshotPath: stringSetting("", "analysis.snapshot_path", dir+"/analysis.yaml"),
		},
		Web: types.WebConfig{Addr: addr},
	}

	store, err := loader.Open(cfg.Load)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline := web.NewDataPipeline(cfg, store)
	pipeline.SetProgress(os.Stderr)

	// Best effort: render whatever is already in the database.
	initial, err := analysis.Compute(cmd.Context(), store.DB(), cfg.Analysis.CycleYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initial analysis unavailable: %v\n", err)
		initial = nil
	}

	server := web.NewServer(pipeline, initial)
	fmt.Printf("dashboard listening on %s\n", cfg.Web.Addr)
	return server.Run(cfg.Web.Addr)
}
