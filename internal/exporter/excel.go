package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"growlab/pkg/contracts/domain"
)

// Export sheet names and the timestamp layout written into the environment
// export. The layout is one the environment loader accepts, so an exported
// table can be fed back through the pipeline unchanged.
const (
	EnvironmentSheet = "환경데이터"
	GrowthSheet      = "생육결과"
	exportTimeLayout = "2006-01-02 15:04:05"
)

// ExcelWriter builds the unified export workbooks. Streams are built fully in
// memory: the tables are session-sized, not unbounded.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates an Excel export writer.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "excel_writer"))}
}

// WriteEnvironment writes the unified environment table as an XLSX stream.
func (w *ExcelWriter) WriteEnvironment(out io.Writer, env map[domain.School][]domain.EnvironmentRecord) error {
	f, err := w.buildEnvironmentWorkbook(env)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write environment workbook: %w", err)
	}
	return nil
}

// WriteGrowth writes the unified growth table as an XLSX stream.
func (w *ExcelWriter) WriteGrowth(out io.Writer, growth map[domain.School][]domain.GrowthRecord) error {
	f, err := w.buildGrowthWorkbook(growth)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write growth workbook: %w", err)
	}
	return nil
}

// SaveEnvironment writes the unified environment table to a file on disk.
func (w *ExcelWriter) SaveEnvironment(path string, env map[domain.School][]domain.EnvironmentRecord) error {
	return w.save(path, func(out io.Writer) error { return w.WriteEnvironment(out, env) })
}

// SaveGrowth writes the unified growth table to a file on disk.
func (w *ExcelWriter) SaveGrowth(path string, growth map[domain.School][]domain.GrowthRecord) error {
	return w.save(path, func(out io.Writer) error { return w.WriteGrowth(out, growth) })
}

func (w *ExcelWriter) save(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return err
	}

	w.logger.Info("export written", slog.String("path", path))
	return nil
}

func (w *ExcelWriter) buildEnvironmentWorkbook(env map[domain.School][]domain.EnvironmentRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), EnvironmentSheet)

	header := append(append([]interface{}{}, toAny(domain.EnvironmentColumns)...), "school")
	if err := f.SetSheetRow(EnvironmentSheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	rowNum := 2
	for _, rec := range domain.ConcatEnvironment(env) {
		row := []interface{}{
			rec.Time.Format(exportTimeLayout),
			rec.Temperature,
			rec.Humidity,
			rec.PH,
			rec.EC,
			string(rec.School),
		}
		if err := setRow(f, EnvironmentSheet, rowNum, row); err != nil {
			f.Close()
			return nil, err
		}
		rowNum++
	}

	return f, nil
}

func (w *ExcelWriter) buildGrowthWorkbook(growth map[domain.School][]domain.GrowthRecord) (*excelize.File, error) {
	records := domain.ConcatGrowth(growth)
	extraColumns := collectExtraColumns(records)

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), GrowthSheet)

	header := []interface{}{
		domain.GrowthColFreshWeight,
		domain.GrowthColLeafCount,
		domain.GrowthColShootLength,
		"school",
		"target_ec",
	}
	for _, name := range extraColumns {
		header = append(header, name)
	}
	if err := f.SetSheetRow(GrowthSheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	rowNum := 2
	for _, rec := range records {
		row := []interface{}{
			rec.FreshWeight,
			rec.LeafCount,
			rec.ShootLength,
			string(rec.School),
		}
		// Unmapped sheets carry no target EC; the cell stays empty rather
		// than faking a zero level.
		if rec.TargetEC != nil {
			row = append(row, *rec.TargetEC)
		} else {
			row = append(row, "")
		}
		for _, name := range extraColumns {
			row = append(row, rec.Extra[name])
		}
		if err := setRow(f, GrowthSheet, rowNum, row); err != nil {
			f.Close()
			return nil, err
		}
		rowNum++
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

// collectExtraColumns returns the sorted union of every record's extra column
// names, so heterogeneous sheets export into one consistent header.
func collectExtraColumns(records []domain.GrowthRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Extra {
			seen[name] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ExportFilename builds a timestamped export file name, e.g.
// "환경데이터_20240301T090000.xlsx".
func ExportFilename(base string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", base, at.Format("20060102T150405"), ext)
}
