package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

func serve(t *testing.T, h *HealthHandler, path string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]string
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("credit_applications_submitted_total 1\n"))
	})

	t.Run("liveness", func(t *testing.T) {
		rec, body := serve(t, NewHealthHandler("credit-service", mockPinger{}, nil, logger), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "credit-service", body["service"])
	})

	t.Run("ready", func(t *testing.T) {
		rec, body := serve(t, NewHealthHandler("credit-service", mockPinger{}, nil, logger), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHealthHandler("credit-service", mockPinger{err: errors.New("connection refused")}, nil, logger)
		rec, body := serve(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unreachable", body["database"])
	})

	t.Run("metrics", func(t *testing.T) {
		rec, _ := serve(t, NewHealthHandler("credit-service", mockPinger{}, metrics, logger), "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "credit_applications_submitted_total")
	})

	t.Run("metrics not configured", func(t *testing.T) {
		rec, _ := serve(t, NewHealthHandler("credit-service", mockPinger{}, nil, logger), "/metrics")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
