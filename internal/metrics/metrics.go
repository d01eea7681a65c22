package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "elecdesign"

// Recorder tracks calculation stage runs.
type Recorder struct {
	runs         *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	observations *prometheus.CounterVec
	statuses     *prometheus.CounterVec
	cacheResets  prometheus.Counter
}

// New registers the stage collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_runs_total",
			Help:      "Calculation stage runs by outcome.",
		}, []string{"stage", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Calculation stage latency.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"stage"}),
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_observations_total",
			Help:      "Observations emitted by calculation stages.",
		}, []string{"stage"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compliance_status_total",
			Help:      "Compliance classifications by stage and status.",
		}, []string{"stage", "status"}),
		cacheResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "norm_cache_resets_total",
			Help:      "Norm parameter cache clears and preloads.",
		}),
	}
	reg.MustRegister(r.runs, r.duration, r.observations, r.statuses, r.cacheResets)
	return r
}

// ObserveStage records one stage run. A nil Recorder is a no-op.
func (r *Recorder) ObserveStage(stage string, started time.Time, observations int, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.runs.WithLabelValues(stage, outcome).Inc()
	r.duration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	if observations > 0 {
		r.observations.WithLabelValues(stage).Add(float64(observations))
	}
}

// ObserveStatus counts a compliance classification.
func (r *Recorder) ObserveStatus(stage, status string) {
	if r == nil {
		return
	}
	r.statuses.WithLabelValues(stage, status).Inc()
}

// CacheReset counts a norm cache clear or preload.
func (r *Recorder) CacheReset() {
	if r == nil {
		return
	}
	r.cacheResets.Inc()
}
