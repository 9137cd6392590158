package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: сервисы можно собирать без метрик.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	ReservationsCommitted  *prometheus.CounterVec
	CommitRejections       *prometheus.CounterVec
	ReservationTransitions *prometheus.CounterVec
	WaitlistMatches        *prometheus.CounterVec
	QueueTransitions       *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		ReservationsCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_committed_total",
			Help:        "Reservations committed by source",
			ConstLabels: constLabels,
		}, []string{"source"}),
		CommitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_commit_rejections_total",
			Help:        "Rejected reservation commits by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		ReservationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_transitions_total",
			Help:        "Reservation status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),
		WaitlistMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "waitlist_matches_total",
			Help:        "Waitlist match attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		QueueTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "queue_transitions_total",
			Help:        "Queue item status transitions",
			ConstLabels: constLabels,
		}, []string{"to"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBWaitCount,
		m.ReservationsCommitted,
		m.CommitRejections,
		m.ReservationTransitions,
		m.WaitlistMatches,
		m.QueueTransitions,
	)

	return m
}

// ObserveHTTP фиксирует HTTP-запрос
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(open, inUse int, waitCount int64) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(open))
	m.DBInUseConnections.Set(float64(inUse))
	m.DBWaitCount.Set(float64(waitCount))
}

// ReservationCommitted увеличивает счетчик созданных бронирований
func (m *Metrics) ReservationCommitted(source string) {
	if m == nil {
		return
	}
	m.ReservationsCommitted.WithLabelValues(source).Inc()
}

// CommitRejected увеличивает счетчик отклоненных бронирований
func (m *Metrics) CommitRejected(reason string) {
	if m == nil {
		return
	}
	m.CommitRejections.WithLabelValues(reason).Inc()
}

// ReservationTransitioned фиксирует смену статуса бронирования
func (m *Metrics) ReservationTransitioned(from, to string) {
	if m == nil {
		return
	}
	m.ReservationTransitions.WithLabelValues(from, to).Inc()
}

// WaitlistMatchAttempt фиксирует попытку сопоставления листа ожидания
func (m *Metrics) WaitlistMatchAttempt(outcome string) {
	if m == nil {
		return
	}
	m.WaitlistMatches.WithLabelValues(outcome).Inc()
}

// QueueTransitioned фиксирует смену статуса элемента очереди
func (m *Metrics) QueueTransitioned(to string) {
	if m == nil {
		return
	}
	m.QueueTransitions.WithLabelValues(to).Inc()
}
