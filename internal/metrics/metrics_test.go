package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCandidate(t *testing.T) {
	r := NewRegistry()
	r.ObserveCandidate("ARIMA(0,1,0)", true, 10*time.Millisecond)
	r.ObserveCandidate("ARIMA(1,1,0)", true, 20*time.Millisecond)
	r.ObserveCandidate("ARIMA(1,1,1)", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Candidates.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Candidates.WithLabelValues("failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.FitDuration))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.ObserveCandidate("ARIMA(0,1,0)", true, time.Millisecond)
	r.ObserveStage("grid", time.Second)

	path := filepath.Join(t.TempDir(), "arimaselect.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `arimaselect_grid_candidates_total{outcome="ok"} 1`))
	assert.Contains(t, out, `arimaselect_stage_duration_seconds_count{stage="grid"} 1`)
	assert.Contains(t, out, "arimaselect_last_run_timestamp_seconds")
}
