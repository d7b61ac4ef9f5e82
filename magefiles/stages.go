//go:build mage

package main

import (
	"os"
	"os/exec"
)

// runStage executes a gradstats subcommand through go run.
func runStage(args ...string) error {
	cmd := exec.Command("go", append([]string{"run", cmdPkg}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Scrape fetches survey pages and saves the raw records.
func Scrape() error {
	return runStage("scrape")
}

// Clean normalizes raw records and emits the LLM-stage input.
func Clean() error {
	return runStage("clean")
}

// Load merges the LLM-extended records into the applicants database.
func Load() error {
	return runStage("load")
}

// Query prints the aggregate admissions metrics.
func Query() error {
	return runStage("query")
}

// Serve runs the admissions dashboard.
func Serve() error {
	return runStage("serve")
}