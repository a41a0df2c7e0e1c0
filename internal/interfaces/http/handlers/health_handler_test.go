package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
)

func TestLiveness(t *testing.T) {
	h := NewHealthHandler(logging.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHealthHandler(logging.NewNopLogger())
	h.Register("database", PingerFunc(func(context.Context) error { return nil }))
	h.Register("cache", PingerFunc(func(context.Context) error { return nil }))

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestReadinessDependencyDown(t *testing.T) {
	h := NewHealthHandler(logging.NewNopLogger())
	h.Register("database", PingerFunc(func(context.Context) error { return nil }))
	h.Register("cache", PingerFunc(func(context.Context) error { return assert.AnError }))

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
	assert.NotEqual(t, "ok", resp.Checks["cache"])
}
