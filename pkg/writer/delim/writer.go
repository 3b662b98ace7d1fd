// Package delim writes signal tables back to delimited files, restoring the
// source file's column order and carrying passthrough values verbatim.
package delim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mzkit/peakdedup/pkg/core"
	"github.com/mzkit/peakdedup/pkg/reader/delim"
)

// Options controls serialization.
type Options struct {
	Comma rune // Field delimiter; ',' for CSV, '\t' for TSV
}

// Write serializes a table using the schema captured at read time. Rows are
// written in table order; RT, m/z and intensity are formatted with the
// shortest representation that round-trips.
func Write(w io.Writer, table *core.SignalTable, schema *delim.Schema, opts Options) error {
	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}

	if err := cw.Write(schema.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Per-column source: -1/-2/-3 for the typed fields, otherwise the
	// position within the row's extras.
	const (
		srcRT        = -1
		srcMZ        = -2
		srcIntensity = -3
	)
	sources := make([]int, len(schema.Columns))
	extraPos := 0
	for i, col := range schema.Columns {
		switch col {
		case schema.RTColumn:
			sources[i] = srcRT
		case schema.MZColumn:
			sources[i] = srcMZ
		case schema.IntensityColumn:
			sources[i] = srcIntensity
		default:
			sources[i] = extraPos
			extraPos++
		}
	}
	if extraPos != len(table.Columns()) {
		return fmt.Errorf("schema has %d extra columns, table has %d", extraPos, len(table.Columns()))
	}

	record := make([]string, len(schema.Columns))
	for i := 0; i < table.Len(); i++ {
		sig := table.Row(i)
		for j, src := range sources {
			switch src {
			case srcRT:
				record[j] = formatFloat(sig.RT)
			case srcMZ:
				record[j] = formatFloat(sig.MZ)
			case srcIntensity:
				record[j] = formatFloat(sig.Intensity)
			default:
				record[j] = sig.Extras[src]
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
