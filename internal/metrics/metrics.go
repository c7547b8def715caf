// Package metrics exposes Prometheus instrumentation for the registry
// backend's ingestion and export paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// Metrics holds the backend's Prometheus collectors. Construct once in main
// and share; promauto registers with the default registry.
type Metrics struct {
	BatchesTotal     prometheus.Counter
	RowsCreatedTotal prometheus.Counter
	RowsSkippedTotal prometheus.Counter
	ExportsTotal     *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	return &Metrics{
		BatchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_ingest_batches_total",
			Help: "Total number of CSV upload batches processed",
		}),
		RowsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_ingest_rows_created_total",
			Help: "Total number of CSV rows inserted into the registry",
		}),
		RowsSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_ingest_rows_skipped_total",
			Help: "Total number of CSV rows skipped as invalid or duplicate",
		}),
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_exports_total",
			Help: "Total number of report exports served, by format",
		}, []string{"format"}),
	}
}

// ObserveBatch records the outcome of one ingestion batch.
func (m *Metrics) ObserveBatch(r domain.BatchResult) {
	m.BatchesTotal.Inc()
	m.RowsCreatedTotal.Add(float64(r.Created))
	m.RowsSkippedTotal.Add(float64(r.Skipped))
}

// ObserveExport records one served export.
func (m *Metrics) ObserveExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}
