package facadeapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc/codes"
)

// Metrics 暴露 http_requests_total / http_request_duration_ms / grpc_requests_total。
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	grpcRequests *prometheus.CounterVec
}

// NewMetrics 在注册器中注册请求指标。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facade",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "facade",
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request handling time in milliseconds",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 50, 100, 200, 500},
		}, []string{"endpoint"}),
		grpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facade",
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "gRPC requests by method and status code",
		}, []string{"method", "code"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.grpcRequests)
	return m
}

func (m *Metrics) observeHTTP(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, outcome).Inc()
	m.httpDuration.WithLabelValues(endpoint).Observe(d.Seconds() * 1000)
}

func (m *Metrics) observeGRPC(method string, code codes.Code) {
	if m == nil {
		return
	}
	m.grpcRequests.WithLabelValues(method, code.String()).Inc()
}
