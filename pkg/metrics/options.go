package metrics

import (
	"maps"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager. Zero values keep the defaults.
type Option func(*Manager)

// WithNamespace overrides the "alumnet" namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithSubsystem overrides the "career" subsystem.
func WithSubsystem(sub string) Option {
	return func(m *Manager) {
		if sub != "" {
			m.subsystem = sub
		}
	}
}

// WithMetricPrefix is prepended to every metric name after the subsystem.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) { m.metricPrefix = prefix }
}

// WithHistogramBuckets sets the latency buckets. Score histograms keep
// their 10-point buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = append([]float64(nil), buckets...)
		}
	}
}

// WithRefreshInterval sets how often system gauges should be sampled.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.refreshInterval = d
		}
	}
}

// WithConstLabels attaches labels, e.g. env or region, to every metric.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) { maps.Copy(m.customLabels, labels) }
}

// WithRegistry registers metrics on r instead of the default registerer.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
