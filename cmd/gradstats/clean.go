package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gradstats/internal/clean"
	"github.com/pdiddy/gradstats/pkg/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize raw records and emit the LLM-stage input",
	Long: `Clean applies the field extractors to every scraped record, writing the
normalized payload and the line-delimited input file for the external LLM
normalization stage back into the data directory.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().String("data-dir", "", "data directory (default data)")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	cfg := types.CleanConfig{
		DataDir: stringSetting(dataDir, "clean.data_dir", defaultDataDir),
	}

	_, err := clean.Run(cfg, os.Stdout)
	return err
}
