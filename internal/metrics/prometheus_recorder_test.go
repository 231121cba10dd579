package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncFileResult(FileSynced)
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(RunSuccess)
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncFileResult(FileSynced)
	pr.IncFileResult(FileSynced)
	pr.IncFileResult(FileSkipped)
	pr.ObserveRunDuration(150 * time.Millisecond)
	pr.IncRunOutcome(RunPartial)

	require.InDelta(t, 2, testutil.ToFloat64(pr.fileResults.WithLabelValues("synced")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.fileResults.WithLabelValues("skipped")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(pr.fileResults.WithLabelValues("failed")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.runOutcomes.WithLabelValues("partial")), 0)
	require.Equal(t, 1, testutil.CollectAndCount(pr.runDuration))
	require.Same(t, reg, pr.Registry())
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncFileResult(FileFailed)
	pr.ObserveRunDuration(time.Second)
	pr.IncRunOutcome(RunFailed)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncFileResult(FileSynced)
	pr.IncRunOutcome(RunSuccess)

	path := filepath.Join(t.TempDir(), "postsync.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `postsync_files_total{result="synced"} 1`)
	require.Contains(t, string(data), `postsync_runs_total{outcome="success"} 1`)
}

func TestWriteTextfileMissingDir(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	err := pr.WriteTextfile(filepath.Join(t.TempDir(), "missing", "postsync.prom"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "write metrics textfile")
}

func TestHTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncFileResult(FileIgnored)

	srv := httptest.NewServer(HTTPHandler(pr.Registry()))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `postsync_files_total{result="ignored"} 1`))
}
