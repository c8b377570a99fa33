// Package dataset loads delimited student data files into loosely-typed
// records the analysis pipeline can consume.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edurisk/student-dss/internal/domain"
)

// Loader reads student datasets from CSV files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new dataset loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "dataset").Logger(),
	}
}

// Load reads a CSV file into records. Semicolon-delimited files are
// tried first (common in European datasets), then comma-delimited.
func (l *Loader) Load(path string) ([]domain.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	for _, sep := range []rune{';', ','} {
		records, err := parse(raw, sep)
		if err != nil {
			l.log.Debug().Err(err).Str("sep", string(sep)).Msg("Parse attempt failed")
			continue
		}
		l.log.Info().
			Int("records", len(records)).
			Str("sep", string(sep)).
			Str("path", path).
			Msg("Dataset loaded")
		return records, nil
	}

	return nil, fmt.Errorf("failed to parse dataset %s with any supported delimiter", path)
}

// parse decodes the raw bytes with the given delimiter. A header that
// collapses to a single column means the delimiter was wrong.
func parse(raw []byte, sep rune) ([]domain.Record, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = sep
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset has no data rows")
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("delimiter %q yields a single column", sep)
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			rec[strings.TrimSpace(name)] = coerce(row[i])
		}
		records = append(records, rec)
	}

	return records, nil
}

// coerce converts a CSV cell to a float64 when it is numeric, otherwise
// keeps it as a trimmed, unquoted string.
func coerce(cell string) any {
	v := strings.Trim(strings.TrimSpace(cell), `"`)
	if v == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
