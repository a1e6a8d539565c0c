package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics метрики сервиса записи
type Metrics struct {
	namespace string

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bookings      *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New создает и регистрирует метрики в переданном регистре
func New(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		namespace: namespace,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking attempts by result (created, conflict, rejected, error)",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions by target status",
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by outcome (queued, sent, failed)",
		}, []string{"status"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.bookings, m.transitions, m.notifications)
	return m
}

// Namespace возвращает префикс метрик
func (m *Metrics) Namespace() string {
	return m.namespace
}

// ObserveHTTP записывает результат HTTP запроса
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveBooking увеличивает счетчик попыток бронирования
func (m *Metrics) ObserveBooking(result string) {
	m.bookings.WithLabelValues(result).Inc()
}

// ObserveTransition увеличивает счетчик переходов статуса
func (m *Metrics) ObserveTransition(status string) {
	m.transitions.WithLabelValues(status).Inc()
}

// ObserveNotification увеличивает счетчик уведомлений
func (m *Metrics) ObserveNotification(status string) {
	m.notifications.WithLabelValues(status).Inc()
}
