// txkv: transactional key-value store driven by text commands
// Reads commands from stdin, or serves them over gRPC when a port is set
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"

	"github.com/nainya/txkv/internal/config"
	"github.com/nainya/txkv/internal/logger"
	"github.com/nainya/txkv/internal/metrics"
	"github.com/nainya/txkv/internal/server"
	"github.com/nainya/txkv/internal/terminal"
	"github.com/nainya/txkv/pkg/storage"
)

var (
	configPath  = flag.String("config", "", "Path to YAML config file")
	logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	grpcPort    = flag.Int("grpc-port", -1, "Serve commands over gRPC on this port instead of stdin (0 disables)")
	metricsPort = flag.Int("metrics-port", -1, "Observability HTTP port (0 disables)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "txkv: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *grpcPort >= 0 {
		cfg.GRPC.Port = *grpcPort
	}
	if *metricsPort >= 0 {
		cfg.Metrics.Port = *metricsPort
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "txkv: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	if err := run(cfg, log); err != nil {
		log.Error("Fatal error").Err(err).Send()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	log.LogStart(cfg.GRPC.Port, cfg.Metrics.Port)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	if cfg.Metrics.Port > 0 {
		obs := server.NewObservabilityServer(cfg.Metrics.Port, reg, m, log)
		go func() {
			if err := obs.Start(); err != nil {
				log.Error("Observability server stopped").Err(err).Send()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			obs.Shutdown(shutdownCtx)
		}()
	}

	store := storage.New[string]()

	if cfg.GRPC.Port > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg.GRPC.Port, store, log, m)
	}

	// Interrupt keeps its default behavior here; the loop blocks on stdin
	handler := terminal.NewHandler(store, log, m, os.Stdout, os.Stderr)
	err := handler.Run(context.Background(), os.Stdin, cfg.Prompt)
	log.LogShutdown()
	return err
}

func serve(ctx context.Context, port int, store *storage.Manager[string], log *logger.Logger, m *metrics.Metrics) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(server.SessionInterceptor(m, log)),
	)
	server.RegisterSessionServer(grpcServer, server.NewServer(store, log, m))

	go func() {
		<-ctx.Done()
		log.LogShutdown()
		grpcServer.GracefulStop()
	}()

	log.LogServerReady(port)
	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
