package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"growlab/internal/files"
	"growlab/pkg/contracts/domain"
)

// growthKeyword identifies the single growth workbook in the data directory.
const growthKeyword = "생육결과데이터"

// GrowthLoader reads the growth workbook into per-school record sequences.
// Each sheet holds one school's harvest measurements; the sheet name is the
// school tag.
type GrowthLoader struct {
	locator *files.Locator
	logger  *slog.Logger
}

// NewGrowthLoader creates a growth loader over the given locator.
func NewGrowthLoader(locator *files.Locator, logger *slog.Logger) *GrowthLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrowthLoader{
		locator: locator,
		logger:  logger.With(slog.String("component", "growth_loader")),
	}
}

// Load locates and parses the growth workbook. A missing workbook returns
// ErrGrowthWorkbookMissing: there is no dashboard without growth data. A sheet
// named outside the fixed school set is accepted; its records simply carry no
// target EC and drop out of EC-grouped aggregates while staying visible in raw
// exports.
func (l *GrowthLoader) Load() (map[domain.School][]domain.GrowthRecord, error) {
	path, found, err := l.locator.FindByKeyword(growthKeyword)
	if err != nil {
		return nil, fmt.Errorf("locate growth workbook: %w", err)
	}
	if !found {
		return nil, ErrGrowthWorkbookMissing
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	result := make(map[domain.School][]domain.GrowthRecord)

	for _, sheet := range f.GetSheetList() {
		school := domain.School(strings.TrimSpace(sheet))
		targetEC, known := domain.TargetEC(school)
		if !known {
			l.logger.Warn("workbook sheet is not a known school, records will carry no target EC",
				slog.String("sheet", sheet))
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		records, err := parseGrowthSheet(path, sheet, rows, school, targetEC, known)
		if err != nil {
			return nil, err
		}

		l.logger.Info("growth sheet loaded",
			slog.String("sheet", sheet),
			slog.Bool("known_school", known),
			slog.Int("specimens", len(records)))

		result[school] = records
	}

	return result, nil
}

// parseGrowthSheet converts one sheet's rows into tagged growth records. The
// first row is the header; required columns must be present, any further
// columns are preserved verbatim in Extra.
func parseGrowthSheet(path, sheet string, rows [][]string, school domain.School, targetEC float64, known bool) ([]domain.GrowthRecord, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{File: path + "#" + sheet, Missing: domain.GrowthColumns}
	}

	header := rows[0]
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}

	var missing []string
	for _, required := range domain.GrowthColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{File: path + "#" + sheet, Missing: missing}
	}

	extraColumns := make([]string, 0, len(columns))
	for name := range columns {
		if name != domain.GrowthColFreshWeight && name != domain.GrowthColLeafCount && name != domain.GrowthColShootLength {
			extraColumns = append(extraColumns, name)
		}
	}
	sort.Strings(extraColumns)

	records := make([]domain.GrowthRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2

		if isBlankRow(row) {
			continue
		}

		rec := domain.GrowthRecord{School: school}
		if known {
			ec := targetEC
			rec.TargetEC = &ec
		}

		var err error
		rec.FreshWeight, err = parseFloatCell(cellAt(row, columns[domain.GrowthColFreshWeight]))
		if err != nil {
			return nil, &ParseError{File: path + "#" + sheet, Row: rowNum, Column: domain.GrowthColFreshWeight, Err: err}
		}
		rec.LeafCount, err = parseFloatCell(cellAt(row, columns[domain.GrowthColLeafCount]))
		if err != nil {
			return nil, &ParseError{File: path + "#" + sheet, Row: rowNum, Column: domain.GrowthColLeafCount, Err: err}
		}
		rec.ShootLength, err = parseFloatCell(cellAt(row, columns[domain.GrowthColShootLength]))
		if err != nil {
			return nil, &ParseError{File: path + "#" + sheet, Row: rowNum, Column: domain.GrowthColShootLength, Err: err}
		}

		for _, name := range extraColumns {
			if value := cellAt(row, columns[name]); value != "" {
				if rec.Extra == nil {
					rec.Extra = make(map[string]string, len(extraColumns))
				}
				rec.Extra[name] = value
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
