// ABOUTME: Session interceptor and the HTTP side channel for metrics and store health
// ABOUTME: /health reports the store shape without touching the store itself

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/nainya/txkv/internal/logger"
	"github.com/nainya/txkv/internal/metrics"
)

// SessionInterceptor meters and logs every session call, labelled by the
// gRPC status code it ends with (OK, NotFound, FailedPrecondition, ...).
func SessionInterceptor(m *metrics.Metrics, log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		m.GrpcRequestsInFlight.Inc()
		defer m.GrpcRequestsInFlight.Dec()

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		m.RecordGrpcRequest(info.FullMethod, status.Code(err).String(), duration)
		log.LogGrpcRequest(info.FullMethod, duration, err)

		return resp, err
	}
}

// storeHealth is the /health payload
type storeHealth struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Depth      int    `json:"transaction_depth"`
	ActiveKeys int    `json:"active_keys"`
}

// ObservabilityServer serves metrics, store health and profiling over HTTP
type ObservabilityServer struct {
	server *http.Server
	log    *logger.Logger
}

// NewObservabilityServer creates the HTTP server. Store figures come from
// m, which the command paths keep current, so the store is never read off
// its owning goroutine.
func NewObservabilityServer(port int, gatherer prometheus.Gatherer, m *metrics.Metrics, log *logger.Logger) *ObservabilityServer {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		depth, keys := m.StoreStats()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(storeHealth{
			Status:     "healthy",
			Service:    "txkv",
			Depth:      depth,
			ActiveKeys: keys,
		})
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)

	return &ObservabilityServer{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		log: log.Component("observability"),
	}
}

// Handler returns the HTTP handler serving all observability endpoints
func (o *ObservabilityServer) Handler() http.Handler {
	return o.server.Handler
}

// Start blocks serving HTTP until Shutdown
func (o *ObservabilityServer) Start() error {
	o.log.Info("Starting observability server").
		Str("addr", o.server.Addr).
		Send()

	if err := o.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("observability server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the observability server
func (o *ObservabilityServer) Shutdown(ctx context.Context) error {
	return o.server.Shutdown(ctx)
}
