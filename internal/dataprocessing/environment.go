package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"growlab/internal/files"
	"growlab/pkg/contracts/domain"
)

// Accepted timestamp layouts for the environment time column, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// environmentKeywordSuffix joins the school name in the environment data
// filenames, e.g. "송도고_환경데이터.csv".
const environmentKeywordSuffix = "_환경데이터"

// EnvironmentLoader reads each school's environment CSV into tagged record
// sequences.
type EnvironmentLoader struct {
	locator *files.Locator
	logger  *slog.Logger
}

// NewEnvironmentLoader creates an environment loader over the given locator.
func NewEnvironmentLoader(locator *files.Locator, logger *slog.Logger) *EnvironmentLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnvironmentLoader{
		locator: locator,
		logger:  logger.With(slog.String("component", "environment_loader")),
	}
}

// Load locates and parses the environment file of every school in the fixed
// set. A school whose file cannot be located is absent from the returned map
// (partial results are fine; that school drops out of comparisons). A file
// that is located but malformed aborts the whole load: swallowing it would
// silently corrupt downstream averages.
func (l *EnvironmentLoader) Load() (map[domain.School][]domain.EnvironmentRecord, error) {
	result := make(map[domain.School][]domain.EnvironmentRecord)

	for _, school := range domain.SchoolNames() {
		keyword := string(school) + environmentKeywordSuffix

		path, found, err := l.locator.FindByKeyword(keyword)
		if err != nil {
			return nil, fmt.Errorf("locate environment data for %s: %w", school, err)
		}
		if !found {
			l.logger.Warn("environment file not found, school excluded from comparisons",
				slog.String("school", string(school)),
				slog.String("keyword", keyword))
			continue
		}

		records, err := parseEnvironmentCSV(path, school)
		if err != nil {
			return nil, fmt.Errorf("parse environment data for %s: %w", school, err)
		}

		l.logger.Info("environment data loaded",
			slog.String("school", string(school)),
			slog.String("path", path),
			slog.Int("readings", len(records)))

		result[school] = records
	}

	return result, nil
}

// parseEnvironmentCSV reads one school's CSV and stamps every row with the
// school tag. The header must contain the required columns; extra columns are
// ignored.
func parseEnvironmentCSV(path string, school domain.School) ([]domain.EnvironmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{File: path, Missing: domain.EnvironmentColumns}
	}

	columns, err := mapEnvironmentColumns(path, rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.EnvironmentRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		if isBlankRow(row) {
			continue
		}

		rec := domain.EnvironmentRecord{School: school}

		rec.Time, err = parseTimeCell(cellAt(row, columns["time"]))
		if err != nil {
			return nil, &ParseError{File: path, Row: rowNum, Column: "time", Err: err}
		}
		rec.Temperature, err = parseFloatCell(cellAt(row, columns["temperature"]))
		if err != nil {
			return nil, &ParseError{File: path, Row: rowNum, Column: "temperature", Err: err}
		}
		rec.Humidity, err = parseFloatCell(cellAt(row, columns["humidity"]))
		if err != nil {
			return nil, &ParseError{File: path, Row: rowNum, Column: "humidity", Err: err}
		}
		rec.PH, err = parseFloatCell(cellAt(row, columns["ph"]))
		if err != nil {
			return nil, &ParseError{File: path, Row: rowNum, Column: "ph", Err: err}
		}
		rec.EC, err = parseFloatCell(cellAt(row, columns["ec"]))
		if err != nil {
			return nil, &ParseError{File: path, Row: rowNum, Column: "ec", Err: err}
		}

		records = append(records, rec)
	}

	return records, nil
}

// mapEnvironmentColumns maps required column names to their header positions.
// Matching is case-insensitive after trimming; the first cell may carry a
// UTF-8 BOM when the file came out of Excel.
func mapEnvironmentColumns(path string, header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		if _, exists := positions[name]; !exists {
			positions[name] = i
		}
	}

	columns := make(map[string]int, len(domain.EnvironmentColumns))
	var missing []string
	for _, required := range domain.EnvironmentColumns {
		idx, ok := positions[required]
		if !ok {
			missing = append(missing, required)
			continue
		}
		columns[required] = idx
	}
	if len(missing) > 0 {
		return nil, &SchemaError{File: path, Missing: missing}
	}

	return columns, nil
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseTimeCell(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", value)
}

func parseFloatCell(value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q", value)
	}
	return v, nil
}
