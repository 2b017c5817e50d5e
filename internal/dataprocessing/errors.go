package dataprocessing

import (
	"errors"
	"fmt"
	"strings"

	"growlab/pkg/contracts/domain"
)

// ErrGrowthWorkbookMissing signals that no growth workbook could be located.
// The dashboard has nothing to show without growth data, so callers treat
// this as fatal for the whole pipeline.
var ErrGrowthWorkbookMissing = errors.New("growth workbook not found in data directory")

// SchemaError reports a located file whose header is missing required
// columns. Surfaced at load time so a renamed column fails fast instead of
// corrupting downstream means.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("file %s is missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

// ParseError reports a located file with an unparseable cell. Row numbers are
// 1-based as a spreadsheet user would count them.
type ParseError struct {
	File   string
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("file %s row %d column %q: %v", e.File, e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingSchoolError reports a view filter naming a school whose environment
// data was never loaded. Computing over a phantom empty series would silently
// skew comparisons, so the condition is surfaced instead.
type MissingSchoolError struct {
	School domain.School
}

func (e *MissingSchoolError) Error() string {
	return fmt.Sprintf("missing environment data for school %s", e.School)
}
