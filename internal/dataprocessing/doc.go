// Package dataprocessing loads the experiment's raw tables and derives the
// grouped aggregates every view consumes.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. EnvironmentLoader: Reads each school's environment CSV into tagged records
// 2. GrowthLoader: Reads the growth workbook, one sheet per school
// 3. Summarizer: Computes per-school, global, and per-EC aggregates
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Data directory → Locator → Loaders → tagged records → Summarizer → summaries
//
// # Error Handling
//
// Locating failures and parsing failures are kept distinct. A school whose
// environment file is absent is simply excluded; a file that parses wrong is
// fatal (SchemaError / ParseError, with the offending file, row, and column).
// A missing growth workbook is ErrGrowthWorkbookMissing and halts the whole
// pipeline. Workbook sheets named outside the fixed school set load fine but
// carry no target EC.
package dataprocessing
