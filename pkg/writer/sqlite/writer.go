// Package sqlite writes deduplicated peak lists to SQLite database files.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mzkit/peakdedup/pkg/core"
)

// Date format for the RunTable (ISO 8601)
const runDateFormat = "2006-01-02"

// RunInfo describes the parameters and counts of one deduplication run,
// stored alongside the results.
type RunInfo struct {
	SourceFile     string
	MZTolerancePPM float64
	RTTolerance    float64
	TopN           int
	InputCount     int
	SurvivorCount  int
}

// Writer handles writing signal tables to SQLite database files. The
// SignalTable schema is built dynamically: one TEXT column per passthrough
// column, after the typed rt/mz/intensity columns.
type Writer struct {
	db         *sql.DB
	outputPath string
	signalStmt *sql.Stmt
	signalID   int
}

// NewWriter creates a new SQLite writer for a table with the given
// passthrough columns.
func NewWriter(outputPath string, extraColumns []string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		signalID:   1,
	}

	if err := w.createTables(extraColumns); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(extraColumns); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables(extraColumns []string) error {
	cols := []string{
		"SignalId INTEGER PRIMARY KEY",
		"OriginalIndex INTEGER",
		"RetentionTime DOUBLE",
		"MZ DOUBLE",
		"Intensity DOUBLE",
	}
	for _, col := range extraColumns {
		cols = append(cols, fmt.Sprintf("%s TEXT", quoteIdent(col)))
	}

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS SignalTable (
		%s
	);

	CREATE TABLE IF NOT EXISTS RunTable (
		SourceFile TEXT,
		MZTolerancePPM DOUBLE,
		RTTolerance DOUBLE,
		TopN INTEGER,
		InputCount INTEGER,
		SurvivorCount INTEGER,
		OutputCount INTEGER,
		CreationDate TEXT
	);
	`, strings.Join(cols, ",\n\t\t"))

	if _, err := w.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares the SQL statement for batch insertion
func (w *Writer) prepareStatements(extraColumns []string) error {
	names := []string{"SignalId", "OriginalIndex", "RetentionTime", "MZ", "Intensity"}
	for _, col := range extraColumns {
		names = append(names, quoteIdent(col))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")

	var err error
	w.signalStmt, err = w.db.Prepare(fmt.Sprintf(
		"INSERT INTO SignalTable (%s) VALUES (%s)",
		strings.Join(names, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("failed to prepare signal statement: %w", err)
	}

	return nil
}

// WriteSignal writes a single signal to the database
func (w *Writer) WriteSignal(sig core.Signal) error {
	args := make([]interface{}, 0, 5+len(sig.Extras))
	args = append(args, w.signalID, sig.OriginalIndex, sig.RT, sig.MZ, sig.Intensity)
	for _, v := range sig.Extras {
		args = append(args, v)
	}

	if _, err := w.signalStmt.Exec(args...); err != nil {
		return fmt.Errorf("failed to insert signal: %w", err)
	}

	w.signalID++
	return nil
}

// WriteTable writes every row of a table in order.
func (w *Writer) WriteTable(table *core.SignalTable) error {
	for i := 0; i < table.Len(); i++ {
		if err := w.WriteSignal(table.Row(i)); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Finalize writes the run metadata and closes the database
func (w *Writer) Finalize(info RunInfo) error {
	_, err := w.db.Exec(`
		INSERT INTO RunTable (SourceFile, MZTolerancePPM, RTTolerance, TopN, InputCount, SurvivorCount, OutputCount, CreationDate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, info.SourceFile, info.MZTolerancePPM, info.RTTolerance, info.TopN,
		info.InputCount, info.SurvivorCount, w.signalID-1, time.Now().Format(runDateFormat))
	if err != nil {
		return fmt.Errorf("failed to insert run info: %w", err)
	}

	return w.Close()
}

// Close closes the prepared statement and the database connection.
func (w *Writer) Close() error {
	if w.signalStmt != nil {
		w.signalStmt.Close()
		w.signalStmt = nil
	}
	if w.db == nil {
		return nil
	}
	db := w.db
	w.db = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// quoteIdent quotes an arbitrary column name for use in DDL and DML.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
