package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricNamespace = "spantree"

// IndexMetrics counts index mutations and point queries. It implements
// [spantree.Recorder], so an index built with spantree.WithRecorder feeds
// it directly.
type IndexMetrics struct {
	registry *prometheus.Registry

	inserts      prometheus.Counter
	removes      prometheus.Counter
	pointQueries prometheus.Counter
	splits       prometheus.Counter
}

// NewIndexMetrics creates the counter set on a fresh registry. Each call
// creates an independent registry to avoid collector conflicts when
// called multiple times.
func NewIndexMetrics() *IndexMetrics {
	m := &IndexMetrics{
		registry: prometheus.NewRegistry(),
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "inserts_total",
			Help:      "Timespans inserted into the index.",
		}),
		removes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "removes_total",
			Help:      "Timespans removed from the index.",
		}),
		pointQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "point_queries_total",
			Help:      "Point-in-time queries answered (verticalities and overlap lookups).",
		}),
		splits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "splits_total",
			Help:      "Timespans cut in two by split operations.",
		}),
	}

	m.registry.MustRegister(m.inserts, m.removes, m.pointQueries, m.splits)

	return m
}

// RecordInsert implements spantree.Recorder.
func (m *IndexMetrics) RecordInsert() { m.inserts.Inc() }

// RecordRemove implements spantree.Recorder.
func (m *IndexMetrics) RecordRemove() { m.removes.Inc() }

// RecordPointQuery implements spantree.Recorder.
func (m *IndexMetrics) RecordPointQuery() { m.pointQueries.Inc() }

// RecordSplit implements spantree.Recorder.
func (m *IndexMetrics) RecordSplit() { m.splits.Inc() }

// Handler serves the /metrics scrape endpoint for this counter set.
func (m *IndexMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests and reports.
func (m *IndexMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
