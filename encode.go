package breakeven

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// This file contains code to persist reports as CSV files.
//
// Filenames embed the generation timestamp so successive runs never overwrite
// each other, and writes go through a temporary file renamed into place so a
// reader never observes a half-written report.

// timestampFormat is sortable: later runs sort after earlier ones.
const timestampFormat = "20060102_150405"

// ReportFilename returns "<prefix>_<timestamp>.csv" for the given time.
func ReportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format(timestampFormat))
}

// WriteCSV writes the header and rows to filename, atomically from the
// caller's perspective: either the full file appears, or an error is returned
// and no partial file is left behind.
//
// An empty row set is valid and produces a header-only file.
func WriteCSV(filename string, header []string, rows [][]string) (err error) {
	dir := filepath.Dir(filename)
	f, err := os.CreateTemp(dir, ".report-*.csv")
	if err != nil {
		return fmt.Errorf("cannot create report file in %q: %w", dir, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("cannot write report %q: %w", filename, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("cannot write report %q: %w", filename, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("cannot write report %q: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write report %q: %w", filename, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("cannot finalize report %q: %w", filename, err)
	}
	return nil
}
