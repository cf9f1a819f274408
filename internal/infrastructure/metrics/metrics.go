// Package metrics exposes Prometheus collectors for the HTTP surface,
// the remote document store, and the backup codec.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shwebook",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shwebook",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	RemoteWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "remote",
		Name:      "writes_total",
		Help:      "Write operations against the remote document store.",
	})

	RemoteWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "remote",
		Name:      "write_errors_total",
		Help:      "Failed write operations against the remote document store.",
	})

	RemoteRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "remote",
		Name:      "retries_total",
		Help:      "Retried remote operations after transient failures.",
	})

	ChangeNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "remote",
		Name:      "change_notifications_total",
		Help:      "Change notifications received from the remote feed.",
	})

	BackupExports = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "backup",
		Name:      "exports_total",
		Help:      "Backup snapshots exported.",
	})

	BackupImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "backup",
		Name:      "imports_total",
		Help:      "Backup imports by outcome.",
	}, []string{"outcome"})

	TransactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "ledger",
		Name:      "transactions_created_total",
		Help:      "Transactions recorded in the ledger.",
	})

	TransactionsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shwebook",
		Subsystem: "ledger",
		Name:      "transactions_deleted_total",
		Help:      "Transactions removed from the ledger.",
	})
)
