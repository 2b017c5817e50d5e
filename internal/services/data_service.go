package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"growlab/internal/dataprocessing"
	"growlab/internal/dataset"
	"growlab/internal/exporter"
	"growlab/pkg/contracts/domain"

	apierrors "growlab/internal/errors"
)

// OverviewResponse is the front-page payload: the experiment table plus a
// notice about fixed-set schools that contributed no environment data.
type OverviewResponse struct {
	Overview       domain.Overview `json:"overview"`
	SkippedSchools []domain.School `json:"skipped_schools,omitempty"`
	LoadedAt       time.Time       `json:"loaded_at"`
}

// AveragesResponse carries per-school environment means.
type AveragesResponse struct {
	Averages       []domain.EnvironmentAverages `json:"averages"`
	SkippedSchools []domain.School              `json:"skipped_schools,omitempty"`
}

// SeriesResponse carries one school's full environment time series.
type SeriesResponse struct {
	School  domain.School              `json:"school"`
	Records []domain.EnvironmentRecord `json:"records"`
}

// GrowthByECResponse carries the EC-grouped growth aggregates.
type GrowthByECResponse struct {
	Groups    []domain.ECGroupSummary `json:"groups"`
	OptimalEC float64                 `json:"optimal_ec"`
}

// GrowthRecordsResponse carries the unified raw growth table.
type GrowthRecordsResponse struct {
	Records []domain.GrowthRecord `json:"records"`
	Total   int                   `json:"total"`
}

// RefreshResponse reports the state after an explicit cache refresh.
type RefreshResponse struct {
	LoadedAt       time.Time       `json:"loaded_at"`
	SkippedSchools []domain.School `json:"skipped_schools,omitempty"`
}

// DataService orchestrates the dataset cache, the summarizer and the export
// writers behind the HTTP handlers. It owns no state of its own beyond its
// collaborators.
type DataService struct {
	store      *dataset.Store
	summarizer *dataprocessing.Summarizer
	excel      *exporter.ExcelWriter
	csv        *exporter.CSVWriter
	logger     *slog.Logger
}

// NewDataService creates the data service over a dataset store.
func NewDataService(store *dataset.Store, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "data"))
	return &DataService{
		store:      store,
		summarizer: dataprocessing.NewSummarizer(),
		excel:      exporter.NewExcelWriter(logger),
		csv:        exporter.NewCSVWriter(logger),
		logger:     logger,
	}
}

// Overview builds the experiment overview from the cached tables.
func (s *DataService) Overview(ctx context.Context) (*OverviewResponse, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		Overview:       s.summarizer.Overview(snap.Environment, snap.Growth),
		SkippedSchools: snap.SkippedSchools(),
		LoadedAt:       snap.LoadedAt,
	}, nil
}

// EnvironmentAverages computes per-school environment means. An empty filter
// means every loaded school; a filter naming an unloaded school is an error.
func (s *DataService) EnvironmentAverages(ctx context.Context, schools []domain.School) (*AveragesResponse, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	averages, err := s.summarizer.SchoolAverages(snap.Environment, schools)
	if err != nil {
		return nil, err
	}

	resp := &AveragesResponse{Averages: averages}
	if len(schools) == 0 {
		resp.SkippedSchools = snap.SkippedSchools()
	}
	return resp, nil
}

// EnvironmentSeries returns the full time series for one school.
func (s *DataService) EnvironmentSeries(ctx context.Context, school domain.School) (*SeriesResponse, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	records, ok := snap.Environment[school]
	if !ok {
		return nil, &dataprocessing.MissingSchoolError{School: school}
	}

	return &SeriesResponse{School: school, Records: records}, nil
}

// GrowthByEC returns the growth aggregates grouped by target EC level.
func (s *DataService) GrowthByEC(ctx context.Context) (*GrowthByECResponse, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	groups := s.summarizer.GroupByEC(snap.Growth)
	optimal, _ := s.summarizer.OptimalEC(groups)

	return &GrowthByECResponse{Groups: groups, OptimalEC: optimal}, nil
}

// GrowthRecords returns the unified raw growth table, unmapped sheets
// included.
func (s *DataService) GrowthRecords(ctx context.Context) (*GrowthRecordsResponse, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	records := domain.ConcatGrowth(snap.Growth)
	return &GrowthRecordsResponse{Records: records, Total: len(records)}, nil
}

// ExportEnvironment streams the unified environment table in the given format.
func (s *DataService) ExportEnvironment(ctx context.Context, format string, out io.Writer) error {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "xlsx":
		err = s.excel.WriteEnvironment(out, snap.Environment)
	case "csv":
		err = s.csv.WriteEnvironment(out, snap.Environment)
	default:
		return apierrors.ErrValidation("format", fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return apierrors.ExportError(format, err)
	}
	return nil
}

// ExportGrowth streams the unified growth table in the given format.
func (s *DataService) ExportGrowth(ctx context.Context, format string, out io.Writer) error {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "xlsx":
		err = s.excel.WriteGrowth(out, snap.Growth)
	case "csv":
		err = s.csv.WriteGrowth(out, snap.Growth)
	default:
		return apierrors.ErrValidation("format", fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return apierrors.ExportError(format, err)
	}
	return nil
}

// Refresh invalidates the cache and reloads immediately, so the caller learns
// about load failures now rather than on the next view.
func (s *DataService) Refresh(ctx context.Context) (*RefreshResponse, error) {
	s.store.Invalidate()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dataset refreshed",
		slog.Time("loaded_at", snap.LoadedAt),
		slog.Int("environment_schools", len(snap.Environment)),
		slog.Int("growth_sheets", len(snap.Growth)),
	)

	return &RefreshResponse{
		LoadedAt:       snap.LoadedAt,
		SkippedSchools: snap.SkippedSchools(),
	}, nil
}
