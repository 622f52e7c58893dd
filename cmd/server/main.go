package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asakaida/dirschema/internal/handlers"
	"github.com/asakaida/dirschema/internal/infrastructure/config"
	"github.com/asakaida/dirschema/internal/infrastructure/logger"
	"github.com/asakaida/dirschema/internal/infrastructure/metrics"
	"github.com/asakaida/dirschema/internal/repositories/memory"
	"github.com/asakaida/dirschema/internal/schemaapi"
	"github.com/asakaida/dirschema/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "Config file path (TOML, YAML or JSON)")
	flags.String("host", "0.0.0.0", "gRPC listen host")
	flags.Int("port", 50051, "gRPC listen port")
	flags.Int("metrics-port", 9090, "Prometheus metrics port")
	flags.String("seed-file", "", "YAML file with additional user attributes")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("pretty", false, "Human readable log output")
	flags.BoolP("verbose", "v", false, "Debug logging")
	_ = flags.Parse(os.Args[1:])

	// Initialize configuration
	if err := config.InitConfig(*configPath, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "dirschema-server",
	})
	zl := log.Zerolog()

	// Initialize repository
	schemaRepo, err := memory.NewSeededSchemaRepository(cfg.Server.SeedFile)
	if err != nil {
		zl.Fatal().Err(err).Msg("failed to create schema repository")
	}
	attrs, _ := schemaRepo.ListUserAttributes(context.Background())
	zl.Info().
		Int("attributes", len(attrs)).
		Str("seed_file", cfg.Server.SeedFile).
		Msg("schema repository ready")

	// Initialize metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector()
	collector.SetExporter(metrics.NewPrometheusExporter(registry))

	// Initialize service and handler
	schemaService := services.NewSchemaService(schemaRepo)
	schemaHandler := handlers.NewSchemaHandler(schemaService)

	// Create gRPC server
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(metrics.UnaryServerInterceptor(collector, log)),
	)
	schemaapi.RegisterSchemaServiceServer(grpcServer, schemaHandler)

	// Register reflection service (for grpcurl, etc.)
	reflection.Register(grpcServer)

	// Start listening
	listener, err := net.Listen("tcp", cfg.Server.ListenAddress())
	if err != nil {
		zl.Fatal().Err(err).Str("addr", cfg.Server.ListenAddress()).Msg("failed to listen")
	}

	zl.Info().Str("addr", cfg.Server.ListenAddress()).Msg("gRPC server listening")

	// Start servers in goroutines
	serverErrors := make(chan error, 2)
	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			serverErrors <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	metricsServer := metrics.NewHTTPServer(fmt.Sprintf(":%d", cfg.Server.MetricsPort), registry, log)
	go func() {
		if err := metricsServer.Start(); err != nil {
			serverErrors <- err
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		zl.Fatal().Err(err).Msg("server error")
	case sig := <-sigChan:
		zl.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")

		// Create shutdown context with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			zl.Warn().Err(err).Msg("metrics server shutdown failed")
		}

		// Channel to notify when graceful stop completes
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		// Wait for graceful stop or timeout
		select {
		case <-stopped:
			zl.Info().Msg("server stopped gracefully")
		case <-shutdownCtx.Done():
			zl.Warn().Msg("shutdown timeout exceeded, forcing stop")
			grpcServer.Stop()
		}

		zl.Info().Msg("shutdown complete")
	}
}
