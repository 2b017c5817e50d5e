// Package exporter serializes the unified environment and growth tables for
// download.
//
// Two formats are produced from the same tables: XLSX (excelize, built in
// memory and streamed) and CSV (with a UTF-8 BOM so Excel decodes the Korean
// headers). The environment export uses a timestamp layout the environment
// loader itself accepts, so an exported table round-trips through the
// pipeline with identical values.
package exporter
