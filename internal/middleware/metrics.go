package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"edge-gateway/internal/model"
)

// Metrics holds the Prometheus instruments for the gateway.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	QueryTotal    *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	QueryRowsRead *prometheus.CounterVec

	DeviceUp *prometheus.GaugeVec
}

// NewMetrics registers the gateway's instruments on reg. Tests pass a
// fresh registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edge_gateway_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edge_gateway_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		QueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edge_gateway_query_total",
				Help: "Total number of federated queries",
			},
			[]string{"device_type", "outcome"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edge_gateway_query_duration_seconds",
				Help:    "Federated query execution time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"device_type"},
		),
		QueryRowsRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edge_gateway_query_rows_read_total",
				Help: "Total number of rows returned by federated queries",
			},
			[]string{"device_type"},
		),
		DeviceUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "edge_gateway_device_up",
				Help: "Device availability (1=online, 0=otherwise)",
			},
			[]string{"device_name", "device_type"},
		),
	}
}

// Middleware records request count and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// ObserveQuery records the outcome of one federated query.
func (m *Metrics) ObserveQuery(deviceType model.DeviceType, outcome string, duration time.Duration, rows int) {
	m.QueryTotal.WithLabelValues(string(deviceType), outcome).Inc()
	m.QueryDuration.WithLabelValues(string(deviceType)).Observe(duration.Seconds())
	if rows > 0 {
		m.QueryRowsRead.WithLabelValues(string(deviceType)).Add(float64(rows))
	}
}

// SetDeviceUp reflects a device's probed status.
func (m *Metrics) SetDeviceUp(deviceName string, deviceType model.DeviceType, status model.DeviceStatus) {
	up := 0.0
	if status == model.DeviceStatusOnline {
		up = 1.0
	}
	m.DeviceUp.WithLabelValues(deviceName, string(deviceType)).Set(up)
}
