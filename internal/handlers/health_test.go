package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Health(t *testing.T) {
	handler := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestHealthHandler_Ready(t *testing.T) {
	handler := NewHealthHandler()
	handler.AddCheck("database", func() bool { return true })
	handler.AddCheck("redis", func() bool { return true })

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.Ready(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHealthHandler_Ready_FailingCheck(t *testing.T) {
	handler := NewHealthHandler()
	handler.AddCheck("database", func() bool { return false })

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.Ready(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "not ready", resp.Status)
	assert.Equal(t, "fail", resp.Checks["database"])
}

func TestHealthHandler_Ready_Draining(t *testing.T) {
	handler := NewHealthHandler()
	handler.SetReady(false)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.Ready(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
