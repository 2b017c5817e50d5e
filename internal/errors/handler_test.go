package errors

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

	"growlab/internal/dataprocessing"
	"growlab/pkg/contracts/domain"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorToProblem_DomainErrors(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/overview", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "missing growth workbook",
			err:        dataprocessing.ErrGrowthWorkbookMissing,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDatasetMissing,
		},
		{
			name:       "schema mismatch",
			err:        &dataprocessing.SchemaError{File: "a.csv", Missing: []string{"ec"}},
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "parse failure",
			err:        &dataprocessing.ParseError{File: "a.csv", Row: 7, Column: "ph", Err: io.EOF},
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDataCorrupted,
		},
		{
			name:       "school not loaded",
			err:        &dataprocessing.MissingSchoolError{School: domain.SchoolAra},
			wantStatus: http.StatusNotFound,
			wantType:   TypeSchoolNotLoaded,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
		},
		{
			name:       "unknown error",
			err:        io.ErrUnexpectedEOF,
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/overview", problem.Instance)
		})
	}
}

func TestHandleError_RendersProblemJSON(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/growth/by-ec", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, dataprocessing.ErrGrowthWorkbookMissing)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeDatasetMissing, body["type"])
	assert.Contains(t, body, "trace_id")
}

func TestProblemDetails_MarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeSchoolNotLoaded, "School Not Loaded", "no data", "/api/x").
		WithExtension("school", "아라고")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "아라고", body["school"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestNotFoundHandler(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeNotFound)
}
