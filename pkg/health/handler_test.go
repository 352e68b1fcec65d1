package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certsend/certsend/pkg/health"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	t.Parallel()

	checks := health.Checks{
		"queue": func(ctx context.Context) error { return nil },
	}

	rec := httptest.NewRecorder()
	health.ReadinessHandler(checks)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReadinessHandler_FailingCheckReportsJSON(t *testing.T) {
	t.Parallel()

	checks := health.Checks{
		"queue": func(ctx context.Context) error { return errors.New("worker not running") },
		"smtp":  func(ctx context.Context) error { return nil },
	}

	req := httptest.NewRequest(http.MethodGet, "/readyz?format=json", nil)
	rec := httptest.NewRecorder()
	health.ReadinessHandler(checks)(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp health.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, health.StatusUnhealthy, resp.Status)
	assert.Equal(t, health.StatusUnhealthy, resp.Checks["queue"].Status)
	assert.Contains(t, resp.Checks["queue"].Error, "worker not running")
	assert.Equal(t, health.StatusHealthy, resp.Checks["smtp"].Status)
}
