// Command summarize runs the full pipeline once from the command line: locate
// the data files, load them, print the aggregate tables and write the export
// workbooks. Useful for checking a data drop without starting the server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"growlab/internal/config"
	"growlab/internal/dataprocessing"
	"growlab/internal/exporter"
	"growlab/internal/files"
	"growlab/internal/infrastructure"
	"growlab/pkg/contracts/domain"
)

func main() {
	dataDir := flag.String("data", "", "data directory (defaults to the configured paths.data_dir)")
	outDir := flag.String("out", "", "export directory (defaults to the configured paths.exports_dir)")
	noExport := flag.Bool("no-export", false, "print the summary only, skip writing export workbooks")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *dataDir == "" {
		*dataDir = cfg.DataDir()
	}
	if *outDir == "" {
		*outDir = cfg.ExportsDir()
	}

	if err := run(*dataDir, *outDir, !*noExport, logger); err != nil {
		logger.Error("summarize failed", "error", err)
		os.Exit(1)
	}
}

func run(dataDir, outDir string, export bool, logger *slog.Logger) error {
	locator := files.NewLocator(dataDir)

	env, err := dataprocessing.NewEnvironmentLoader(locator, logger).Load()
	if err != nil {
		return err
	}

	growth, err := dataprocessing.NewGrowthLoader(locator, logger).Load()
	if err != nil {
		if errors.Is(err, dataprocessing.ErrGrowthWorkbookMissing) {
			return fmt.Errorf("no growth workbook in %s: %w", dataDir, err)
		}
		return err
	}

	summarizer := dataprocessing.NewSummarizer()
	printSummary(os.Stdout, summarizer, env, growth)

	if !export {
		return nil
	}

	writer := exporter.NewExcelWriter(logger)
	now := time.Now()

	envPath := filepath.Join(outDir, exporter.ExportFilename("환경데이터", now, "xlsx"))
	if err := writer.SaveEnvironment(envPath, env); err != nil {
		return err
	}

	growthPath := filepath.Join(outDir, exporter.ExportFilename("생육결과데이터", now, "xlsx"))
	if err := writer.SaveGrowth(growthPath, growth); err != nil {
		return err
	}

	fmt.Printf("\nexports written:\n  %s\n  %s\n", envPath, growthPath)
	return nil
}

func printSummary(out *os.File, s *dataprocessing.Summarizer, env map[domain.School][]domain.EnvironmentRecord, growth map[domain.School][]domain.GrowthRecord) {
	overview := s.Overview(env, growth)

	fmt.Fprintln(out, "experiment overview")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "school\ttarget EC\tspecimens")
	for _, row := range overview.Rows {
		fmt.Fprintf(w, "%s\t%.1f\t%d\n", row.School, row.TargetEC, row.Specimens)
	}
	w.Flush()
	fmt.Fprintf(out, "total specimens: %d\n", overview.TotalSpecimens)
	fmt.Fprintf(out, "global environment: %.2f C, %.2f %%RH over %d readings\n\n",
		overview.Environment.Temperature, overview.Environment.Humidity, overview.Environment.Readings)

	if averages, err := s.SchoolAverages(env, nil); err == nil && len(averages) > 0 {
		fmt.Fprintln(out, "environment means per school")
		w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "school\ttemp\thumidity\tpH\tEC\treadings")
		for _, avg := range averages {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
				avg.School, avg.Temperature, avg.Humidity, avg.PH, avg.EC, avg.Readings)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	groups := s.GroupByEC(growth)
	fmt.Fprintln(out, "growth by target EC")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "target EC\tfresh weight\tleaf count\tshoot length\tspecimens")
	for _, g := range groups {
		fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\t%.2f\t%d\n",
			g.TargetEC, g.FreshWeight, g.LeafCount, g.ShootLength, g.Specimens)
	}
	w.Flush()

	if optimal, ok := s.OptimalEC(groups); ok {
		fmt.Fprintf(out, "optimal EC: %.1f\n", optimal)
	}
}
