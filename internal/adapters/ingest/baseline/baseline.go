// Package baseline reads the prior depot assignment CSV.
// Rows are (key, depot_label) where key may be any normalizable identifier
// form; values pass through raw for the matcher to interpret
package baseline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"depotmap/internal/platform/logger"
)

// Record is one baseline row, untouched
type Record struct {
	// Key is the raw area code or name
	Key string
	// DepotLabel is the raw depot text
	DepotLabel string
	// Line is the 1-based CSV line for warning refs
	Line int
}

// Read loads every baseline row from path.
// The baseline is a required input, any read failure is fatal with the path
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("baseline: open %s: %w", path, err)
	}
	defer f.Close()

	recs, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("baseline: parse %s: %w", path, err)
	}

	logger.Named("baseline").Debug().
		Str("path", path).
		Int("rows", len(recs)).
		Msg("baseline loaded")

	return recs, nil
}

func parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width checked below so the line number lands in the error
	cr.TrimLeadingSpace = true

	var out []Record
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: want 2 columns (key, depot_label), got %d", line, len(row))
		}

		key := strings.TrimSpace(row[0])
		label := strings.TrimSpace(row[1])

		// tolerate an optional header row
		if line == 1 && strings.EqualFold(key, "key") && strings.EqualFold(label, "depot_label") {
			continue
		}
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", line)
		}

		out = append(out, Record{Key: key, DepotLabel: label, Line: line})
	}
	return out, nil
}
