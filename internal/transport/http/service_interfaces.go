package http

import (
	"context"
	"io"

	"growlab/internal/services"
	"growlab/pkg/contracts/domain"
)

// DataServiceInterface defines the data operations the handlers depend on
type DataServiceInterface interface {
	Overview(ctx context.Context) (*services.OverviewResponse, error)
	EnvironmentAverages(ctx context.Context, schools []domain.School) (*services.AveragesResponse, error)
	EnvironmentSeries(ctx context.Context, school domain.School) (*services.SeriesResponse, error)
	GrowthByEC(ctx context.Context) (*services.GrowthByECResponse, error)
	GrowthRecords(ctx context.Context) (*services.GrowthRecordsResponse, error)
	ExportEnvironment(ctx context.Context, format string, out io.Writer) error
	ExportGrowth(ctx context.Context, format string, out io.Writer) error
	Refresh(ctx context.Context) (*services.RefreshResponse, error)
}

// HealthServiceInterface defines the health check operation
type HealthServiceInterface interface {
	Check(ctx context.Context) *services.HealthStatus
}
