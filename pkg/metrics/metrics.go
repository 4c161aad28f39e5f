package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics метрики сервиса хранения данных парсера
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Запись данных
	RecordsSaved   prometheus.Counter
	RecordsFailed  prometheus.Counter
	BatchesTotal   *prometheus.CounterVec
	URLFallbackIDs prometheus.Counter

	// Протокол восстановления прав
	EscalationSteps    *prometheus.CounterVec
	EscalationOutcomes *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		RecordsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_records_saved_total",
			Help:        "Total number of booking records persisted",
			ConstLabels: constLabels,
		}),

		RecordsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_records_failed_total",
			Help:        "Total number of booking records rejected by the store",
			ConstLabels: constLabels,
		}),

		BatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_batches_total",
			Help:        "Total number of batch save calls by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		URLFallbackIDs: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "url_fallback_ids_total",
			Help:        "Total number of degraded hash-based URL identifiers issued",
			ConstLabels: constLabels,
		}),

		EscalationSteps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "permission_escalation_steps_total",
			Help:        "Escalation protocol step attempts by step and result",
			ConstLabels: constLabels,
		}, []string{"step", "result"}),

		EscalationOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "permission_escalation_outcomes_total",
			Help:        "Escalation protocol final outcomes",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}
}
