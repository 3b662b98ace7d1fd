package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mzkit/peakdedup/pkg/config"
	"github.com/mzkit/peakdedup/pkg/core"
	"github.com/mzkit/peakdedup/pkg/dedup"
	"github.com/mzkit/peakdedup/pkg/reader/delim"
	delimwriter "github.com/mzkit/peakdedup/pkg/writer/delim"
	"github.com/mzkit/peakdedup/pkg/writer/sqlite"
)

func runProcess(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	params, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	if outputFile == "" {
		outputFile = defaultOutputPath(inputFile)
	}

	inDelim, err := delimiterForPath(inputFile)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	fmt.Printf("Processing %s...\n", inputFile)
	fmt.Printf("m/z tolerance: %g ppm\n", params.MZTolerancePPM)
	fmt.Printf("RT tolerance: %g\n", params.RTTolerance)
	if params.TopN > 0 {
		fmt.Printf("Top N: %d\n", params.TopN)
	}

	res, err := readPeakList(inputFile, inDelim, params)
	if err != nil {
		return err
	}

	fmt.Printf("Identified columns:\n")
	fmt.Printf("  RT: %s\n", res.Schema.RTColumn)
	fmt.Printf("  m/z: %s\n", res.Schema.MZColumn)
	fmt.Printf("  Intensity: %s\n", res.Schema.IntensityColumn)
	fmt.Printf("Passthrough columns: %d\n", len(res.Schema.ExtraColumns()))
	if res.Skipped > 0 {
		fmt.Printf("Skipped rows: %d (missing or non-positive values)\n", res.Skipped)
	}

	if res.Table.Len() == 0 {
		return fmt.Errorf("%s: %w", inputFile, dedup.ErrEmptyInput)
	}

	out, stats, err := dedup.Run(res.Table, dedup.Config{
		MZTolerancePPM: params.MZTolerancePPM,
		RTTolerance:    params.RTTolerance,
		TopN:           params.TopN,
	})
	if err != nil {
		return err
	}

	if err := writeResults(out, res, params, stats); err != nil {
		return err
	}

	fmt.Printf("\nProcessing complete!\n")
	fmt.Printf("Input signals: %d\n", stats.Input)
	fmt.Printf("Unique signals: %d\n", stats.Survivors)
	fmt.Printf("Output signals: %d\n", stats.Output)
	fmt.Printf("Output: %s\n", outputFile)

	return nil
}

// resolveParams merges defaults, the optional parameter file, and explicit
// flags, in that order of precedence.
func resolveParams(cmd *cobra.Command) (config.Params, error) {
	params := config.Defaults()

	if paramFile != "" {
		loaded, err := config.Load(paramFile)
		if err != nil {
			return config.Params{}, err
		}
		params = loaded
	}

	if cmd.Flags().Changed("mz-tol") {
		params.MZTolerancePPM = mzTolerancePPM
	}
	if cmd.Flags().Changed("rt-tol") {
		params.RTTolerance = rtTolerance
	}
	if cmd.Flags().Changed("top-n") {
		params.TopN = topN
	}
	if rtColumn != "" {
		params.RTColumn = rtColumn
	}
	if mzColumn != "" {
		params.MZColumn = mzColumn
	}
	if intensityColumn != "" {
		params.IntensityColumn = intensityColumn
	}

	if err := params.Validate(); err != nil {
		return config.Params{}, err
	}
	return params, nil
}

func readPeakList(path string, comma rune, params config.Params) (*delim.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	res, err := delim.Read(f, delim.Options{
		Comma:           comma,
		RTColumn:        params.RTColumn,
		MZColumn:        params.MZColumn,
		IntensityColumn: params.IntensityColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func writeResults(out *core.SignalTable, res *delim.Result, params config.Params, stats dedup.Stats) error {
	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".db", ".sqlite", ".sqlite3":
		w, err := sqlite.NewWriter(outputFile, out.Columns())
		if err != nil {
			return err
		}
		if err := w.WriteTable(out); err != nil {
			w.Close()
			return err
		}
		return w.Finalize(sqlite.RunInfo{
			SourceFile:     inputFile,
			MZTolerancePPM: params.MZTolerancePPM,
			RTTolerance:    params.RTTolerance,
			TopN:           params.TopN,
			InputCount:     stats.Input,
			SurvivorCount:  stats.Survivors,
		})
	default:
		outDelim, err := delimiterForPath(outputFile)
		if err != nil {
			return fmt.Errorf("output: unsupported format '%s', supported: .csv, .tsv, .txt, .db, .sqlite", filepath.Ext(outputFile))
		}
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		return delimwriter.Write(f, out, res.Schema, delimwriter.Options{Comma: outDelim})
	}
}
