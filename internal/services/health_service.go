package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"growlab/internal/dataset"
	"growlab/internal/files"
)

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Dataset   dataset.Stats          `json:"dataset"`
	DataDir   DataDirStatus          `json:"data_dir"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
}

// DataDirStatus describes the data directory the locator scans.
type DataDirStatus struct {
	Path      string `json:"path"`
	Reachable bool   `json:"reachable"`
	FileCount int    `json:"file_count"`
	Message   string `json:"message,omitempty"`
}

// HealthService reports process liveness plus the state of the dataset cache
// and the data directory behind it.
type HealthService struct {
	version   string
	store     *dataset.Store
	locator   *files.Locator
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service over the dataset store and the
// file locator.
func NewHealthService(version string, store *dataset.Store, locator *files.Locator, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		store:     store,
		locator:   locator,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check reports the current health. A missing data directory degrades the
// status without failing the endpoint: the process itself is still alive.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Dataset:   s.store.Stats(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		},
	}

	status.DataDir = s.dataDirStatus(ctx)
	if !status.DataDir.Reachable {
		status.Status = "degraded"
	}

	return status
}

func (s *HealthService) dataDirStatus(ctx context.Context) DataDirStatus {
	dir := DataDirStatus{Path: s.locator.Dir()}

	entries, err := s.locator.ListDataFiles()
	if err != nil {
		s.logger.WarnContext(ctx, "data directory not reachable",
			slog.String("path", dir.Path),
			slog.String("error", err.Error()),
		)
		dir.Message = err.Error()
		return dir
	}

	dir.Reachable = true
	dir.FileCount = len(entries)
	return dir
}
