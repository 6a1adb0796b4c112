// Package metrics provides Prometheus metrics for fmodcli.
// A CLI process is short-lived, so metrics are exported by writing a
// node_exporter textfile at exit rather than by serving /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tutu-network/fmodcli/internal/domain"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	// Invocations counts dispatched commands by name and exit code.
	Invocations *prometheus.CounterVec
	// GenerationLatency tracks generate duration in seconds by outcome.
	GenerationLatency *prometheus.HistogramVec
	// Generations counts generate resolutions by outcome.
	Generations *prometheus.CounterVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fmodcli",
			Name:      "invocations_total",
			Help:      "Total command invocations.",
		}, []string{"command", "exit_code"}),
		GenerationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fmodcli",
			Name:      "generation_latency_seconds",
			Help:      "Generate call duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fmodcli",
			Name:      "generations_total",
			Help:      "Total generate resolutions.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.Invocations, m.GenerationLatency, m.Generations)
	return m
}

// ObserveInvocation records one dispatched command.
func (m *Metrics) ObserveInvocation(command string, exitCode int) {
	if command == "" {
		command = "none"
	}
	m.Invocations.WithLabelValues(command, strconv.Itoa(exitCode)).Inc()
}

// ObserveGeneration records one resolved generate call.
func (m *Metrics) ObserveGeneration(outcome domain.Outcome, took time.Duration) {
	m.Generations.WithLabelValues(string(outcome)).Inc()
	m.GenerationLatency.WithLabelValues(string(outcome)).Observe(took.Seconds())
}

// WriteTextfile writes all metrics to path atomically. An empty path is a
// no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
