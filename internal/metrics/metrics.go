// Package metrics exposes Prometheus collectors for the engine lifecycle.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry so several engines
// (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	Validations     *prometheus.CounterVec
	Compilations    prometheus.Counter
	CompileDuration prometheus.Histogram
	SectionsByType  *prometheus.CounterVec
	Submissions     *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iaee_validations_total",
				Help: "Total number of experience validations by outcome",
			},
			[]string{"outcome"},
		),
		Compilations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "iaee_compilations_total",
			Help: "Total number of compiled summaries",
		}),
		CompileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "iaee_compile_duration_seconds",
			Help:    "Duration of summary compilation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SectionsByType: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iaee_sections_rendered_total",
				Help: "Total number of rendered sections by type",
			},
			[]string{"type"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iaee_submissions_total",
				Help: "Total number of stored submissions by decision",
			},
			[]string{"decision"},
		),
	}

	m.registry.MustRegister(
		m.Validations,
		m.Compilations,
		m.CompileDuration,
		m.SectionsByType,
		m.Submissions,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the private registry, e.g. for testutil.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidate: func(_ context.Context, e *domain.ValidationEvent) {
			outcome := "valid"
			if e.Type == domain.EventRejected {
				outcome = "invalid"
			}
			m.Validations.WithLabelValues(outcome).Inc()
		},
		OnCompile: func(_ context.Context, e *domain.CompileEvent) {
			m.Compilations.Inc()
			m.CompileDuration.Observe(e.Duration.Seconds())
			for _, t := range e.SectionTypes {
				m.SectionsByType.WithLabelValues(t).Inc()
			}
		},
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			decision := "rejected"
			if e.Approved {
				decision = "approved"
			}
			m.Submissions.WithLabelValues(decision).Inc()
		},
	}
}
