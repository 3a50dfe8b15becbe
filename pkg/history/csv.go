package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/doodlesbykumbi/footprint/pkg/emissions"
	"github.com/doodlesbykumbi/footprint/pkg/model"
)

// ExportFileName is the suggested name for downloaded history.
const ExportFileName = "co2_history.csv"

// RequiredColumns must be present in an imported CSV header.
var RequiredColumns = []string{"date", "distance", "transport_mode", "electricity", "lpg"}

// ExportColumns is the header written by WriteCSV.
var ExportColumns = []string{
	"id", "user_id", "alias", "date", "transport_mode", "distance", "electricity", "lpg",
	"transport_emission", "electricity_emission", "lpg_emission", "total_emission", "notes",
}

var dateLayouts = []string{
	model.DateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// MissingColumnsError rejects a CSV whose header lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// RowError describes a CSV row that could not be imported. Line is the
// 1-based line number in the file, the header being line 1.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult holds the parsed entries and the rows that were skipped.
// Warnings lists imported rows whose transport mode was not recognized;
// they are stored as emissions.ModeOther with no transport emission.
type ImportResult struct {
	Entries  []model.Entry
	Errors   []RowError
	Warnings []RowError
}

// ImportOptions controls how rows become entries.
type ImportOptions struct {
	UserID string
	// Alias is used for rows without an alias column value.
	Alias   string
	Factors emissions.Factors
}

// ParseDate accepts the supported date layouts and returns the day in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ReadCSV parses an activity CSV. A header without the required columns
// fails the whole import; individual bad rows are reported and skipped.
func ReadCSV(r io.Reader, opts ImportOptions) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MissingColumnsError{Columns: RequiredColumns}
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	result := &ImportResult{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("failed to read CSV: %w", err)
			}
			result.Errors = append(result.Errors, RowError{Line: perr.StartLine, Reason: perr.Err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)

		entry, warning, err := parseRow(record, index, opts)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, RowError{Line: line, Reason: warning})
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseQuantity(record []string, index map[string]int, name string) (float64, error) {
	raw := field(record, index, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func parseRow(record []string, index map[string]int, opts ImportOptions) (model.Entry, string, error) {
	date, err := ParseDate(field(record, index, "date"))
	if err != nil {
		return model.Entry{}, "", err
	}

	var warning string
	mode, err := emissions.ParseTransportMode(field(record, index, "transport_mode"))
	if err != nil {
		mode = emissions.ModeOther
		warning = err.Error() + ", counted as 0 kg CO2/km"
	}

	activity := emissions.Activity{Mode: mode}
	if activity.DistanceKm, err = parseQuantity(record, index, "distance"); err != nil {
		return model.Entry{}, "", err
	}
	if activity.ElectricityKWh, err = parseQuantity(record, index, "electricity"); err != nil {
		return model.Entry{}, "", err
	}
	if activity.LPGKg, err = parseQuantity(record, index, "lpg"); err != nil {
		return model.Entry{}, "", err
	}
	if err := activity.Validate(); err != nil {
		return model.Entry{}, "", err
	}

	alias := field(record, index, "alias")
	if alias == "" {
		alias = opts.Alias
	}

	return model.NewEntry(opts.UserID, alias, date, activity, opts.Factors, field(record, index, "notes")), warning, nil
}

// WriteCSV writes entries with the ExportColumns header.
func WriteCSV(w io.Writer, entries []model.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportColumns); err != nil {
		return err
	}

	for _, e := range entries {
		record := []string{
			e.ID,
			e.UserID,
			e.Alias,
			e.Date,
			e.TransportMode.String(),
			formatFloat(e.Distance),
			formatFloat(e.Electricity),
			formatFloat(e.LPG),
			formatFloat(e.TransportEmission),
			formatFloat(e.ElectricityEmission),
			formatFloat(e.LPGEmission),
			formatFloat(e.TotalEmission),
			e.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
