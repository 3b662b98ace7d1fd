// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Flags for process command
	inputFile       string
	outputFile      string
	paramFile       string
	mzTolerancePPM  float64
	rtTolerance     float64
	topN            int
	rtColumn        string
	mzColumn        string
	intensityColumn string
)

var rootCmd = &cobra.Command{
	Use:   "peakdedup",
	Short: "peakdedup - Peak list deduplication tool",
	Long: `peakdedup removes near-duplicate signals from tabular mass-spectrometry
peak lists (CSV/TSV) and emits an intensity-ranked, optionally truncated
result set.

Two signals are considered duplicates of the same physical peak when their
m/z values agree within a ppm tolerance and their retention times agree
within an absolute tolerance. The higher-intensity signal of each duplicate
neighborhood is kept. All columns beyond RT, m/z and intensity are carried
through unchanged.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)

	// Process command flags
	processCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input peak list (.csv, .tsv, .txt) (required)")
	processCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (.csv, .tsv, .txt, .db, .sqlite); default: <input>_processed<ext>")
	processCmd.Flags().StringVar(&paramFile, "params", "", "YAML parameter file (flags override file values)")
	processCmd.Flags().Float64Var(&mzTolerancePPM, "mz-tol", 20, "m/z tolerance in ppm")
	processCmd.Flags().Float64Var(&rtTolerance, "rt-tol", 1, "Retention time tolerance (same units as the RT column)")
	processCmd.Flags().IntVar(&topN, "top-n", 0, "Keep only the N most intense signals (0 = no limit)")
	processCmd.Flags().StringVar(&rtColumn, "rt-column", "", "Exact RT column name (default: keyword detection)")
	processCmd.Flags().StringVar(&mzColumn, "mz-column", "", "Exact m/z column name (default: keyword detection)")
	processCmd.Flags().StringVar(&intensityColumn, "intensity-column", "", "Exact intensity column name (default: keyword detection)")

	processCmd.MarkFlagRequired("in")

	// validate and summarize reuse the column override flags
	for _, c := range []*cobra.Command{validateCmd, summarizeCmd} {
		c.Flags().StringVar(&rtColumn, "rt-column", "", "Exact RT column name (default: keyword detection)")
		c.Flags().StringVar(&mzColumn, "mz-column", "", "Exact m/z column name (default: keyword detection)")
		c.Flags().StringVar(&intensityColumn, "intensity-column", "", "Exact intensity column name (default: keyword detection)")
	}
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Deduplicate and rank a peak list",
	Long: `Read a peak list, suppress duplicate signals within the configured
tolerances, and write the survivors ranked by descending intensity.

Examples:
  # Deduplicate with default tolerances (20 ppm, 1 RT unit)
  peakdedup process --in peaks.csv

  # Keep the 10 most intense unique signals, write TSV
  peakdedup process --in peaks.csv --out top10.tsv --top-n 10

  # Tolerances from a parameter file, results into SQLite
  peakdedup process --in peaks.csv --out peaks.db --params params.yaml`,
	RunE: runProcess,
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a peak list file",
	Long:  `Check that a peak list parses, that the RT, m/z and intensity columns can be identified, and report how many rows would be rejected.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize peak list contents",
	Long:  `Print summary statistics about a peak list: row count, RT, m/z and intensity ranges, and the passthrough columns.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

// delimiterForPath maps a file extension to its field delimiter.
func delimiterForPath(path string) (rune, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ',', nil
	case ".tsv", ".txt":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported format '%s', supported: .csv, .tsv, .txt", filepath.Ext(path))
	}
}

// defaultOutputPath places the result next to the input with a _processed
// suffix, keeping the same format.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	return stem + "_processed" + ext
}
