package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты допуска бронирования
const (
	AdmissionAdmitted = "admitted"
	AdmissionConflict = "conflict"
	AdmissionRejected = "rejected"
	AdmissionError    = "error"
)

// Результаты обращения к кэшу доступности
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics набор метрик сервиса
// Методы Record* безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec

	BookingAdmissions  *prometheus.CounterVec
	BookingTransitions *prometheus.CounterVec
	AvailabilityCache  *prometheus.CounterVec

	serviceName string
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"service", "operation"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections",
				Help: "Database connection pool state",
			},
			[]string{"service", "state"},
		),
		BookingAdmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_admissions_total",
				Help: "Booking admission attempts by result",
			},
			[]string{"service", "result"},
		),
		BookingTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_transitions_total",
				Help: "Booking status transitions by target status",
			},
			[]string{"service", "status"},
		),
		AvailabilityCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availability_cache_lookups_total",
				Help: "Availability cache lookups by result",
			},
			[]string{"service", "result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.BookingAdmissions,
		m.BookingTransitions,
		m.AvailabilityCache,
	)

	return m
}

// RecordAdmission учитывает попытку допуска бронирования
func (m *Metrics) RecordAdmission(result string) {
	if m == nil {
		return
	}
	m.BookingAdmissions.WithLabelValues(m.serviceName, result).Inc()
}

// RecordTransition учитывает смену статуса бронирования
func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(m.serviceName, status).Inc()
}

// RecordCacheLookup учитывает обращение к кэшу доступности
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.AvailabilityCache.WithLabelValues(m.serviceName, result).Inc()
}
