// Package metrics exposes Prometheus collectors for name generation.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samcharles93/chimei/internal/inference"
)

const namespace = "chimei"

var (
	namesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "names_generated_total",
			Help:      "Count of names produced by the generator.",
		},
	)
	terminatorsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terminators_rejected_total",
			Help:      "Count of terminators sampled before a name reached its minimum length.",
		},
	)
	inferenceFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_failures_total",
			Help:      "Count of names aborted by a failed inference call.",
		},
	)
	engineLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_loads_total",
			Help:      "Count of engine load attempts by result.",
		},
		[]string{"result"},
	)
	engineLoadSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_load_duration_seconds",
			Help:      "Time spent loading the inference engine.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)
	nameSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "name_duration_seconds",
			Help:      "Time spent generating a single name.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
	nameSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "name_inference_steps",
			Help:      "Inference calls needed to produce a single name.",
			Buckets:   prometheus.LinearBuckets(4, 4, 10),
		},
	)
)

// Registry holds every collector of this package plus the Go runtime ones.
var Registry = prometheus.NewRegistry()

var registerMetrics sync.Once

// Register adds all collectors to Registry. It is safe to call repeatedly.
func Register() {
	registerMetrics.Do(func() {
		Registry.MustRegister(namesGenerated)
		Registry.MustRegister(terminatorsRejected)
		Registry.MustRegister(inferenceFailures)
		Registry.MustRegister(engineLoads)
		Registry.MustRegister(engineLoadSeconds)
		Registry.MustRegister(nameSeconds)
		Registry.MustRegister(nameSteps)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Recorder feeds generation events into the collectors. It satisfies
// inference.Observer.
type Recorder struct{}

var _ inference.Observer = Recorder{}

// EngineLoaded records one load attempt.
func (Recorder) EngineLoaded(d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	engineLoads.WithLabelValues(result).Inc()
	engineLoadSeconds.Observe(d.Seconds())
}

// NameGenerated records a finished name.
func (Recorder) NameGenerated(stats inference.Stats) {
	namesGenerated.Inc()
	terminatorsRejected.Add(float64(stats.RejectedTerminators))
	nameSeconds.Observe(stats.Duration.Seconds())
	nameSteps.Observe(float64(stats.Steps))
}

// InferenceFailed records a name lost to an inference error.
func (Recorder) InferenceFailed() {
	inferenceFailures.Inc()
}
