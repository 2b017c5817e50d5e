package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"growlab/pkg/contracts/domain"
)

// CSVWriter exports the same unified tables as CSV. Files start with a UTF-8
// BOM so Excel opens the Korean headers correctly.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV export writer.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteEnvironment writes the unified environment table as CSV.
func (w *CSVWriter) WriteEnvironment(out io.Writer, env map[domain.School][]domain.EnvironmentRecord) error {
	records := domain.ConcatEnvironment(env)

	header := append(append([]string{}, domain.EnvironmentColumns...), "school")
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Time.Format(exportTimeLayout),
			formatFloat(rec.Temperature),
			formatFloat(rec.Humidity),
			formatFloat(rec.PH),
			formatFloat(rec.EC),
			string(rec.School),
		})
	}

	return w.write(out, header, rows)
}

// WriteGrowth writes the unified growth table as CSV.
func (w *CSVWriter) WriteGrowth(out io.Writer, growth map[domain.School][]domain.GrowthRecord) error {
	records := domain.ConcatGrowth(growth)
	extraColumns := collectExtraColumns(records)

	header := []string{
		domain.GrowthColFreshWeight,
		domain.GrowthColLeafCount,
		domain.GrowthColShootLength,
		"school",
		"target_ec",
	}
	header = append(header, extraColumns...)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{
			formatFloat(rec.FreshWeight),
			formatFloat(rec.LeafCount),
			formatFloat(rec.ShootLength),
			string(rec.School),
		}
		if rec.TargetEC != nil {
			row = append(row, formatFloat(*rec.TargetEC))
		} else {
			row = append(row, "")
		}
		for _, name := range extraColumns {
			row = append(row, rec.Extra[name])
		}
		rows = append(rows, row)
	}

	return w.write(out, header, rows)
}

func (w *CSVWriter) write(out io.Writer, header []string, rows [][]string) error {
	// UTF-8 BOM for Excel compatibility.
	if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()

	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
