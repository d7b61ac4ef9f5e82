package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gradstats/internal/analysis"
	"github.com/pdiddy/gradstats/internal/loader"
	"github.com/pdiddy/gradstats/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the aggregate admissions metrics",
	Long: `Query computes the aggregate metrics over the applicants database and
prints a plain-text report. With --snapshot the metrics are also written
as a YAML snapshot for the dashboard.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("db", "", "SQLite database path (default "+defaultDBPath+")")
	queryCmd.Flags().Int("cycle-year", 0, "admissions cycle year (default 2026)")
	queryCmd.Flags().String("snapshot", "", "also write a YAML snapshot to this path")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	db, _ := cmd.Flags().GetString("db")
	cycleYear, _ := cmd.Flags().GetInt("cycle-year")
	snapshot, _ := cmd.Flags().GetString("snapshot")

	cfg := types.AnalysisConfig{
		DatabasePath: stringSetting(db, "analysis.database_path", defaultDBPath),
		CycleYear:    intSetting(cycleYear, "analysis.cycle_year", defaultCycleYear),
		SnapshotPath: stringSetting(snapshot, "analysis.snapshot_path", ""),
	}

	store, err := loader.Open(types.LoadConfig{DatabasePath: cfg.DatabasePath})
	if err != nil {
		return err
	}
	defer store.Close()

	m, err := analysis.Compute(cmd.Context(), store.DB(), cfg.CycleYear)
	if err != nil {
		return err
	}
	m.WriteReport(os.Stdout)

	if snapshot != "" {
		if err := analysis.WriteSnapshot(snapshot, m); err != nil {
			return err
		}
		fmt.Printf("snapshot written to %s\n", snapshot)
	}
	return nil
}
