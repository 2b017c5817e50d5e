package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/text/unicode/norm"

	apierrors "growlab/internal/errors"
	"growlab/internal/exporter"
	"growlab/pkg/contracts/domain"
)

// DataHandler handles the dashboard's data endpoints with RFC 7807 errors
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/overview", h.GetOverview)

	r.Route("/environment", func(r chi.Router) {
		r.Get("/averages", h.GetEnvironmentAverages)
		r.Get("/series/{school}", h.GetEnvironmentSeries)
	})

	r.Route("/growth", func(r chi.Router) {
		r.Get("/by-ec", h.GetGrowthByEC)
		r.Get("/records", h.GetGrowthRecords)
	})

	r.Route("/exports", func(r chi.Router) {
		r.Get("/environment.{format}", h.ExportEnvironment)
		r.Get("/growth.{format}", h.ExportGrowth)
	})

	r.Post("/dataset/refresh", h.RefreshDataset)

	return r
}

// GetOverview handles GET /api/overview
func (h *DataHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Overview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetEnvironmentAverages handles GET /api/environment/averages?schools=a,b
func (h *DataHandler) GetEnvironmentAverages(w http.ResponseWriter, r *http.Request) {
	schools := parseSchoolsParam(r.URL.Query().Get("schools"))

	resp, err := h.service.EnvironmentAverages(r.Context(), schools)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetEnvironmentSeries handles GET /api/environment/series/{school}
func (h *DataHandler) GetEnvironmentSeries(w http.ResponseWriter, r *http.Request) {
	school := normalizeSchool(chi.URLParam(r, "school"))
	if school == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("school", "School name is required"))
		return
	}

	resp, err := h.service.EnvironmentSeries(r.Context(), school)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetGrowthByEC handles GET /api/growth/by-ec
func (h *DataHandler) GetGrowthByEC(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GrowthByEC(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetGrowthRecords handles GET /api/growth/records
func (h *DataHandler) GetGrowthRecords(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GrowthRecords(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// ExportEnvironment handles GET /api/exports/environment.{format}
func (h *DataHandler) ExportEnvironment(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "환경데이터", h.service.ExportEnvironment)
}

// ExportGrowth handles GET /api/exports/growth.{format}
func (h *DataHandler) ExportGrowth(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "생육결과데이터", h.service.ExportGrowth)
}

// RefreshDataset handles POST /api/dataset/refresh
func (h *DataHandler) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "dataset refresh requested",
		slog.String("request_id", reqID),
		slog.String("remote_addr", r.RemoteAddr),
	)

	resp, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// export generates the stream into a buffer first, so a failed export still
// returns a problem-details body instead of a truncated download.
func (h *DataHandler) export(w http.ResponseWriter, r *http.Request, base string, write func(ctx context.Context, format string, out io.Writer) error) {
	format := strings.ToLower(chi.URLParam(r, "format"))

	var buf bytes.Buffer
	if err := write(r.Context(), format, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := exporter.ExportFilename(base, time.Now(), format)
	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	// RFC 5987 encoding keeps the Korean filename intact for browsers that
	// understand filename*, with a plain ASCII fallback.
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="export.%s"; filename*=UTF-8''%s`, format, url.PathEscape(filename)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "export stream aborted",
			slog.String("error", err.Error()),
			slog.String("filename", filename),
		)
	}
}

// parseSchoolsParam splits a comma-separated school filter and normalizes
// each name to NFC, since macOS clients may send decomposed Hangul.
func parseSchoolsParam(raw string) []domain.School {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var schools []domain.School
	for _, part := range strings.Split(raw, ",") {
		if name := normalizeSchool(part); name != "" {
			schools = append(schools, name)
		}
	}
	return schools
}

func normalizeSchool(raw string) domain.School {
	return domain.School(norm.NFC.String(strings.TrimSpace(raw)))
}
