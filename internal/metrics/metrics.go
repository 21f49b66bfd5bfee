// Package metrics provides Prometheus metrics for txkv
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for txkv
type Metrics struct {
	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Store shape
	TransactionDepth prometheus.Gauge
	ActiveKeys       prometheus.Gauge

	// gRPC request metrics
	GrpcRequestsTotal    *prometheus.CounterVec
	GrpcRequestDuration  *prometheus.HistogramVec
	GrpcRequestsInFlight prometheus.Gauge

	// last values passed to UpdateStoreStats, readable from any goroutine
	depth atomic.Int64
	keys  atomic.Int64
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.CommandsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txkv_commands_total",
			Help: "Total number of executed commands",
		},
		[]string{"command", "status"},
	)

	m.CommandDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txkv_command_duration_seconds",
			Help:    "Duration of command execution in seconds",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
		[]string{"command"},
	)

	m.TransactionDepth = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "txkv_transaction_depth",
			Help: "Number of currently open nested transactions",
		},
	)

	m.ActiveKeys = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "txkv_active_keys",
			Help: "Number of keys visible in the active scope",
		},
	)

	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txkv_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txkv_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.GrpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "txkv_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	return m
}

// RecordCommand records one command execution
func (m *Metrics) RecordCommand(command string, status string, duration time.Duration) {
	m.CommandsTotal.WithLabelValues(command, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// UpdateStoreStats updates the store shape gauges
func (m *Metrics) UpdateStoreStats(depth int, keys int) {
	m.TransactionDepth.Set(float64(depth))
	m.ActiveKeys.Set(float64(keys))
	m.depth.Store(int64(depth))
	m.keys.Store(int64(keys))
}

// StoreStats returns the depth and key count last reported by UpdateStoreStats
func (m *Metrics) StoreStats() (depth int, keys int) {
	return int(m.depth.Load()), int(m.keys.Load())
}

// RecordGrpcRequest records a gRPC request with its status
func (m *Metrics) RecordGrpcRequest(method string, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}
