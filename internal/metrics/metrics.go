// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus collectors for the query core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors the API server and worker report into.
type Metrics struct {
	QueriesCompiled *prometheus.CounterVec
	GateRejections  prometheus.Counter
	FilterDuration  prometheus.Histogram
	LocateDuration  prometheus.Histogram
	SearchDuration  prometheus.Histogram
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on reg. Tests use this with a fresh
// registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueriesCompiled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loupe_queries_compiled_total",
				Help: "Filter query compilations by outcome",
			},
			[]string{"result"},
		),
		GateRejections: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loupe_regex_gate_rejections_total",
				Help: "Patterns rejected by the regex safety gate",
			},
		),
		FilterDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loupe_filter_duration_seconds",
				Help:    "Time spent filtering document lines",
				Buckets: prometheus.DefBuckets,
			},
		),
		LocateDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loupe_locate_duration_seconds",
				Help:    "Time spent locating JSON path spans",
				Buckets: prometheus.DefBuckets,
			},
		),
		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loupe_search_duration_seconds",
				Help:    "Time spent in multi-tab regex search",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}
