package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growlab/internal/services"
)

type stubHealthService struct {
	status *services.HealthStatus
}

func (s *stubHealthService) Check(ctx context.Context) *services.HealthStatus {
	return s.status
}

func TestGetHealth(t *testing.T) {
	svc := &stubHealthService{status: &services.HealthStatus{
		Status:  "healthy",
		Version: "1.0.0",
		DataDir: services.DataDirStatus{Path: "/data", Reachable: true, FileCount: 5},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHealthHandler(svc, logger)

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0.0", body["version"])
}
