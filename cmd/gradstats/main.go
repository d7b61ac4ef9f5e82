// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gradstats CLI. Each pipeline
// stage is a subcommand: scrape, clean, load, query, and serve.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultBaseURL    = "https://www.thegradcafe.com"
	defaultSurveyPath = "/survey/"
	defaultUserAgent  = "gradstats/0.1"
	defaultDataDir    = "data"
	defaultDBPath     = "data/gradstats.db"
	defaultCycleYear  = 2026
	defaultAddr       = "127.0.0.1:8000"
)

// rootCmd is the base command for the gradstats CLI.
var rootCmd = &cobra.Command{
	Use:   "gradstats",
	Short: "Graduate admissions survey pipeline",
	Long: `gradstats collects self-reported graduate admissions results from the
GradCafe survey, extracts structured fields from the free-form text, merges
the LLM-normalized secondary source, and serves an aggregate dashboard.

Each pipeline stage is a subcommand: scrape fetches survey pages, clean
normalizes records, load merges them into the applicants database, query
prints the aggregate metrics, and serve runs the web dashboard.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gradstats.yaml or ~/.config/gradstats/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gradstats")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gradstats"))
		}
	}

	viper.SetEnvPrefix("GRADSTATS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string value: explicit flag, then config file,
// then the built-in default.
func stringSetting(flag, key, fallback string) string {
	if flag != "" {
		return flag
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

// intSetting resolves an integer value the same way.
func intSetting(flag int, key string, fallback int) int {
	if flag != 0 {
		return flag
	}
	if v := viper.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
