package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics("abc")
	m.ObserveStep(0, 0.1, 0.01, time.Millisecond)
	m.ObserveStep(0, 0.2, 0.02, time.Millisecond)
	m.ObserveStep(1, 0.2, 0.02, time.Millisecond)
	m.ObserveSnapshot(1)
	m.ObserveResidual([]string{"rho", "E"}, []float64{1.5, 2.5})
	assert.Equal(t, 2., testutil.ToFloat64(m.Steps.WithLabelValues("0")))
	assert.Equal(t, 0.2, testutil.ToFloat64(m.SimTime.WithLabelValues("1")))
	assert.Equal(t, 0.02, testutil.ToFloat64(m.TimeStep))
	assert.Equal(t, 1., testutil.ToFloat64(m.Snapshots.WithLabelValues("1")))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.Residual.WithLabelValues("E")))

	// A nil collector is inert
	var nilM *Metrics
	nilM.ObserveStep(0, 1, 1, time.Second)
	nilM.ObserveSnapshot(0)
	nilM.ObserveResidual([]string{"rho"}, []float64{1})
}

func TestStatus(t *testing.T) {
	s := NewStatus("abc", "Vortex", 4, 10)
	s.Update(3, 0.3, 0.1)
	r := s.Report()
	assert.Equal(t, 3, r.Step)
	assert.False(t, r.Done)
	s.Finish(errors.New("boom"))
	r = s.Report()
	assert.True(t, r.Done)
	assert.Equal(t, "boom", r.Error)

	var nilS *Status
	nilS.Update(1, 1, 1)
	nilS.Finish(nil)
}

func TestRouter(t *testing.T) {
	m := NewMetrics("run-1")
	s := NewStatus("run-1", "Vortex", 2, 10)
	m.ObserveStep(0, 0.5, 0.05, time.Millisecond)
	s.Update(1, 0.5, 0.05)
	srv := httptest.NewServer(NewRouter(m, s))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `fdweno_steps_total{rank="0",run="run-1"} 1`)

	resp, err = http.Get(srv.URL + "/status")
	require.NoError(t, err)
	var r StatusReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, 2, r.Ranks)
	assert.Equal(t, 0.5, r.Time)

	resp, err = http.Get(srv.URL + "/nothing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	http.DefaultClient.CloseIdleConnections()
}

func TestServe(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	addr, done, err := Serve(ctx, "127.0.0.1:0", NewRouter(NewMetrics("x"), NewStatus("x", "", 1, 1)), logrus.NewEntry(log))
	require.NoError(t, err)
	assert.Equal(t, "monitor listening", hook.LastEntry().Message)

	resp, err := http.Get(fmt.Sprintf("http://%s/status", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	http.DefaultClient.CloseIdleConnections()
}
