package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mzkit/peakdedup/pkg/config"
)

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	comma, err := delimiterForPath(path)
	if err != nil {
		return err
	}

	params := config.Defaults()
	params.RTColumn = rtColumn
	params.MZColumn = mzColumn
	params.IntensityColumn = intensityColumn

	res, err := readPeakList(path, comma, params)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Identified columns:\n")
	fmt.Printf("  RT: %s\n", res.Schema.RTColumn)
	fmt.Printf("  m/z: %s\n", res.Schema.MZColumn)
	fmt.Printf("  Intensity: %s\n", res.Schema.IntensityColumn)
	fmt.Printf("Valid rows: %d\n", res.Table.Len())
	fmt.Printf("Rejected rows: %d\n", res.Skipped)

	if res.Table.Len() == 0 {
		return fmt.Errorf("no valid rows in %s", path)
	}
	return nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path := args[0]

	comma, err := delimiterForPath(path)
	if err != nil {
		return err
	}

	params := config.Defaults()
	params.RTColumn = rtColumn
	params.MZColumn = mzColumn
	params.IntensityColumn = intensityColumn

	res, err := readPeakList(path, comma, params)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Signals: %d (plus %d rejected rows)\n", res.Table.Len(), res.Skipped)

	if res.Table.Len() > 0 {
		first := res.Table.Row(0)
		minRT, maxRT := first.RT, first.RT
		minMZ, maxMZ := first.MZ, first.MZ
		minInt, maxInt := first.Intensity, first.Intensity
		for i := 1; i < res.Table.Len(); i++ {
			sig := res.Table.Row(i)
			minRT = min(minRT, sig.RT)
			maxRT = max(maxRT, sig.RT)
			minMZ = min(minMZ, sig.MZ)
			maxMZ = max(maxMZ, sig.MZ)
			minInt = min(minInt, sig.Intensity)
			maxInt = max(maxInt, sig.Intensity)
		}
		fmt.Printf("RT range: %g - %g\n", minRT, maxRT)
		fmt.Printf("m/z range: %g - %g\n", minMZ, maxMZ)
		fmt.Printf("Intensity range: %g - %g\n", minInt, maxInt)
	}

	extras := res.Schema.ExtraColumns()
	fmt.Printf("Passthrough columns: %d\n", len(extras))
	for _, col := range extras {
		fmt.Printf("  %s\n", col)
	}

	return nil
}
