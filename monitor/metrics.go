package monitor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are registered on a private registry so that several runs can live
// in one process. All methods accept a nil receiver and then do nothing.
type Metrics struct {
	Registry    *prometheus.Registry
	Steps       *prometheus.CounterVec
	Snapshots   *prometheus.CounterVec
	SimTime     *prometheus.GaugeVec
	TimeStep    prometheus.Gauge
	StepSeconds *prometheus.HistogramVec
	Residual    *prometheus.GaugeVec
}

func NewMetrics(runID string) (m *Metrics) {
	var (
		labels = prometheus.Labels{"run": runID}
	)
	m = &Metrics{
		Registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "fdweno_steps_total",
			Help:        "Accepted time steps",
			ConstLabels: labels,
		}, []string{"rank"}),
		Snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "fdweno_snapshots_total",
			Help:        "Snapshot files written",
			ConstLabels: labels,
		}, []string{"rank"}),
		SimTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "fdweno_simulation_time",
			Help:        "Simulated time reached",
			ConstLabels: labels,
		}, []string{"rank"}),
		TimeStep: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "fdweno_time_step",
			Help:        "Current time step",
			ConstLabels: labels,
		}),
		StepSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "fdweno_step_duration_seconds",
			Help:        "Wall time of one time step",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1.e-4, 4, 10),
		}, []string{"rank"}),
		Residual: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "fdweno_residual_l2",
			Help:        "L2 norm of the residual per conserved variable",
			ConstLabels: labels,
		}, []string{"variable"}),
	}
	m.Registry.MustRegister(m.Steps, m.Snapshots, m.SimTime, m.TimeStep, m.StepSeconds, m.Residual)
	return
}

func (m *Metrics) ObserveStep(rank int, t, dt float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	r := strconv.Itoa(rank)
	m.Steps.WithLabelValues(r).Inc()
	m.SimTime.WithLabelValues(r).Set(t)
	m.StepSeconds.WithLabelValues(r).Observe(elapsed.Seconds())
	if rank == 0 {
		m.TimeStep.Set(dt)
	}
}

func (m *Metrics) ObserveSnapshot(rank int) {
	if m == nil {
		return
	}
	m.Snapshots.WithLabelValues(strconv.Itoa(rank)).Inc()
}

// ObserveResidual records the global residual norms, one per conserved variable
func (m *Metrics) ObserveResidual(names []string, l2 []float64) {
	if m == nil {
		return
	}
	for i, name := range names {
		m.Residual.WithLabelValues(name).Set(l2[i])
	}
}
