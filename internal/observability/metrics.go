// Package observability holds the Prometheus collectors of the service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	mutationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "programacao",
		Subsystem: "schedule",
		Name:      "mutations_total",
		Help:      "Activity store mutations, labeled by operation.",
	}, []string{"op"})

	rejectionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "programacao",
		Subsystem: "sources",
		Name:      "rejections_total",
		Help:      "Source registry additions rejected by validation, labeled by catalog and reason.",
	}, []string{"catalog", "reason"})

	persistFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "programacao",
		Subsystem: "storage",
		Name:      "write_failures_total",
		Help:      "Write-through persistence failures, labeled by storage key.",
	}, []string{"key"})

	exportCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "programacao",
		Subsystem: "export",
		Name:      "artifacts_total",
		Help:      "Export artifacts produced, labeled by format and outcome.",
	}, []string{"format", "outcome"})
)

func init() {
	prometheus.MustRegister(mutationCounter, rejectionCounter, persistFailureCounter, exportCounter)
}

// RecordMutation counts an applied store mutation.
func RecordMutation(op string) {
	mutationCounter.WithLabelValues(op).Inc()
}

// RecordRejection counts a rejected registry addition.
func RecordRejection(catalog, reason string) {
	rejectionCounter.WithLabelValues(catalog, reason).Inc()
}

// RecordPersistFailure counts a failed write-through.
func RecordPersistFailure(key string) {
	persistFailureCounter.WithLabelValues(key).Inc()
}

// RecordExport counts an export attempt.
func RecordExport(format string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	exportCounter.WithLabelValues(format, outcome).Inc()
}
