// Package delim reads peak lists from delimited files (CSV, TSV) into
// signal tables. It locates the retention time, m/z and intensity columns
// by header keywords, coerces their cells to float64, and carries every
// other column through untouched.
package delim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mzkit/peakdedup/pkg/core"
)

// Header keywords recognized for each required column, matched as lowercase
// substrings of the trimmed header cell.
var (
	rtKeywords = []string{
		"rt", "retention time", "retention_time", "retentiontime",
		"rt (min)", "rt(min)", "retention time (min)",
	}
	mzKeywords = []string{
		"m/z", "mz", "m_z", "mass",
		"precursor ion m/z", "precursor m/z", "precursormz",
	}
	intensityKeywords = []string{
		"intensity", "int", "abundance", "height",
		"precursor ion intensity", "precursor intensity", "precursorintensity",
	}
)

// Schema describes how a parsed table maps back onto its source file.
type Schema struct {
	Columns         []string // Full header, in file order
	RTColumn        string
	MZColumn        string
	IntensityColumn string
}

// ExtraColumns returns the passthrough columns in file order.
func (s *Schema) ExtraColumns() []string {
	var extras []string
	for _, col := range s.Columns {
		if col == s.RTColumn || col == s.MZColumn || col == s.IntensityColumn {
			continue
		}
		extras = append(extras, col)
	}
	return extras
}

// Options controls parsing.
type Options struct {
	Comma rune // Field delimiter; ',' for CSV, '\t' for TSV

	// Explicit column names, overriding keyword detection when set.
	RTColumn        string
	MZColumn        string
	IntensityColumn string
}

// Result holds a parsed table together with its source schema and the
// number of rows dropped during coercion.
type Result struct {
	Table   *core.SignalTable
	Schema  *Schema
	Skipped int // Rows with unparsable or non-positive m/z or intensity
}

// Read parses an entire delimited peak list. Rows whose m/z or intensity
// cells are missing, unparsable, or not positive, or whose RT cell is
// missing or unparsable, are dropped and counted rather than failing the
// whole file.
func Read(r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	schema, err := detectSchema(header, opts)
	if err != nil {
		return nil, err
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[col] = i
	}
	rtIdx := colIndex[schema.RTColumn]
	mzIdx := colIndex[schema.MZColumn]
	intIdx := colIndex[schema.IntensityColumn]

	var extraIdx []int
	for i, col := range header {
		if col == schema.RTColumn || col == schema.MZColumn || col == schema.IntensityColumn {
			continue
		}
		extraIdx = append(extraIdx, i)
	}

	res := &Result{
		Table:  core.NewSignalTable(schema.ExtraColumns()),
		Schema: schema,
	}

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		rt, ok1 := parseCell(record, rtIdx)
		mz, ok2 := parseCell(record, mzIdx)
		intensity, ok3 := parseCell(record, intIdx)
		if !ok1 || !ok2 || !ok3 || mz <= 0 || intensity <= 0 {
			res.Skipped++
			continue
		}

		extras := make([]string, 0, len(extraIdx))
		for _, i := range extraIdx {
			if i < len(record) {
				extras = append(extras, record[i])
			} else {
				extras = append(extras, "")
			}
		}

		if err := res.Table.Append(rt, mz, intensity, extras); err != nil {
			// Non-finite values that slipped past ParseFloat (e.g. "NaN").
			res.Skipped++
		}
	}

	return res, nil
}

// parseCell extracts and parses one float cell, reporting failure for
// missing or empty fields.
func parseCell(record []string, idx int) (float64, bool) {
	if idx >= len(record) {
		return 0, false
	}
	cell := strings.TrimSpace(record[idx])
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// detectSchema resolves the three required columns, preferring explicit
// names over keyword matching.
func detectSchema(header []string, opts Options) (*Schema, error) {
	schema := &Schema{Columns: header}

	var missing []string

	resolve := func(explicit, label string, keywords []string) string {
		if explicit != "" {
			for _, col := range header {
				if col == explicit {
					return col
				}
			}
			missing = append(missing, fmt.Sprintf("%s (no column named %q)", label, explicit))
			return ""
		}
		if col := findColumn(header, keywords); col != "" {
			return col
		}
		missing = append(missing, label)
		return ""
	}

	schema.RTColumn = resolve(opts.RTColumn, "RT", rtKeywords)
	schema.MZColumn = resolve(opts.MZColumn, "m/z", mzKeywords)
	schema.IntensityColumn = resolve(opts.IntensityColumn, "intensity", intensityKeywords)

	if len(missing) > 0 {
		return nil, fmt.Errorf("cannot identify columns: %s (available: %s)",
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}
	if schema.RTColumn == schema.MZColumn || schema.RTColumn == schema.IntensityColumn ||
		schema.MZColumn == schema.IntensityColumn {
		return nil, fmt.Errorf("columns must be distinct: rt=%q mz=%q intensity=%q",
			schema.RTColumn, schema.MZColumn, schema.IntensityColumn)
	}

	return schema, nil
}

// findColumn returns the first header cell containing any of the keywords,
// case-insensitively.
func findColumn(header []string, keywords []string) string {
	for _, col := range header {
		lower := strings.ToLower(strings.TrimSpace(col))
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return col
			}
		}
	}
	return ""
}
