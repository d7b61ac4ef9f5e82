package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gradstats/internal/loader"
	"github.com/pdiddy/gradstats/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load [jsonl-file]",
	Short: "Merge the LLM-extended records into the applicants database",
	Long: `Load streams the LLM-extended JSONL file into the applicants table.
Records are deduplicated on (url, program, comments); rows already stored
get only their LLM-normalized fields refreshed. The file defaults to
llm_extend_applicant_data.json under the data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("db", "", "SQLite database path (default "+defaultDBPath+")")
	loadCmd.Flags().String("data-dir", "", "data directory (default data)")
	loadCmd.Flags().Int("cycle-year", 0, "admissions cycle year for the term fallback (default 2026)")

	rootCmd.AddCommand(loadCmd)
}

func loadConfig(cmd *cobra.Command) types.LoadConfig {
	db, _ := cmd.Flags().GetString("db")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	cycleYear, _ := cmd.Flags().GetInt("cycle-year")

	return types.LoadConfig{
		DatabasePath: stringSetting(db, "load.database_path", defaultDBPath),
		DataDir:      stringSetting(dataDir, "load.data_dir", defaultDataDir),
		CycleYear:    intSetting(cycleYear, "load.cycle_year", defaultCycleYear),
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	path := filepath.Join(cfg.DataDir, loader.LLMPayloadFile)
	if len(args) == 1 {
		path = args[0]
	}

	store, err := loader.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Load(cmd.Context(), os.Stdout, path)
	return err
}
