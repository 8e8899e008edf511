package monitor

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noon-labs/namecycler/common"
)

func TestMetricsAttemptFinished(t *testing.T) {
	m := NewMetrics()

	m.AttemptFinished(attemptWith(
		common.Failure(common.PathPrimary, common.CauseRateLimited, "flood"),
		outcomePtr(common.Success(common.PathSecondary)),
	))
	m.AttemptFinished(attemptWith(
		common.Failure(common.PathPrimary, common.CauseOther, "bad request"),
		outcomePtr(common.Failure(common.PathSecondary, common.CauseOther, "bad request")),
	))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues(common.PathPrimary, "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues(common.PathPrimary, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues(common.PathSecondary, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues(common.PathSecondary, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renames))
}

func TestMetricsGauges(t *testing.T) {
	m := NewMetrics()

	m.IntervalChanged(2200 * time.Millisecond)
	assert.InDelta(t, 2.2, testutil.ToFloat64(m.interval), 1e-9)

	m.LoopStateChanged(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loopRunning))
	m.LoopStateChanged(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.loopRunning))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.IntervalChanged(3 * time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "namecycler_interval_seconds 3")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetricsRegistryGather(t *testing.T) {
	m := NewMetrics()
	m.LoopStateChanged(true)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["namecycler_loop_running"])
	assert.True(t, names["namecycler_interval_seconds"])
	assert.True(t, names["process_start_time_seconds"] || names["go_goroutines"])
}
