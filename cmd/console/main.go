// Package main provides the dirschema console binary: the user attribute admin panel.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asakaida/dirschema/internal/component"
	"github.com/asakaida/dirschema/internal/components/userattributes"
	"github.com/asakaida/dirschema/internal/infrastructure/config"
	"github.com/asakaida/dirschema/internal/infrastructure/logger"
	"github.com/asakaida/dirschema/internal/infrastructure/metrics"
	"github.com/asakaida/dirschema/internal/panel"
	"github.com/asakaida/dirschema/internal/schemaclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.1.0"
	appName = "dirschema-console"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Directory user attribute schema admin panel",
		Long: `Console serves an administrative panel listing the user attribute schema
of a directory and lets operators delete non-hardcoded attributes.

Configuration is read from defaults, an optional config file, DIRSCHEMA_*
environment variables and command line flags, in increasing priority.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, configPath)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file path (TOML, YAML or JSON)")
	pf.String("schema-endpoint", "localhost:50051", "gRPC address of the schema server")
	pf.Duration("query-timeout", 10*time.Second, "Timeout of each remote query")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.Bool("pretty", false, "Human readable log output")
	pf.BoolP("verbose", "v", false, "Debug logging")
	pf.Bool("development", false, "Panic on internal consistency errors")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin panel over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, configPath)
		},
	}
	addServeFlags(cmd)
	addServeFlags(serveCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Load the schema once and print it as a Markdown table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, configPath, cmd.OutOrStdout())
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}

	cmd.AddCommand(serveCmd, showCmd, versionCmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("http-host", "127.0.0.1", "Panel listen host")
	cmd.Flags().Int("http-port", 17170, "Panel listen port")
}

func loadConfig(cmd *cobra.Command, configPath string) (*config.Config, *logger.Logger, error) {
	viper.Reset()
	if err := config.InitConfig(configPath, cmd.Flags()); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: appName,
	})
	return cfg, log, nil
}

func newTable(ctx context.Context, cfg *config.Config, client schemaclient.Client, collector *metrics.Collector, log *logger.Logger) *userattributes.Table {
	return userattributes.NewTable(ctx, client, cfg.Console.QueryTimeout, log.Zerolog(),
		component.WithRecorder(collector),
		component.WithQueueSize(cfg.Console.QueueSize),
		component.WithStrict(cfg.Development),
	)
}

func serve(cmd *cobra.Command, configPath string) error {
	cfg, log, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}
	zl := log.Zerolog()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector()
	collector.SetExporter(metrics.NewPrometheusExporter(registry))

	client, err := schemaclient.Dial(cfg.Console.SchemaEndpoint, collector, log)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := panel.New(newTable(ctx, cfg, client, collector, log), zl)
	srv := panel.NewServer(cfg.Console.ListenAddress(), p, registry, log.Component("http"))

	runErrors := make(chan error, 2)
	go func() {
		runErrors <- p.Run(ctx)
	}()
	go func() {
		runErrors <- srv.Start()
	}()

	zl.Info().
		Str("version", Version).
		Str("schema_endpoint", cfg.Console.SchemaEndpoint).
		Str("addr", cfg.Console.ListenAddress()).
		Msg("console ready")

	select {
	case err = <-runErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			zl.Error().Err(err).Msg("console stopped unexpectedly")
		}
	case <-ctx.Done():
		zl.Info().Msg("initiating graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		zl.Warn().Err(shutdownErr).Msg("panel shutdown failed")
	}
	p.Close()

	zl.Info().Msg("shutdown complete")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func show(cmd *cobra.Command, configPath string, out io.Writer) error {
	cfg, log, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}

	client, err := schemaclient.Dial(cfg.Console.SchemaEndpoint, metrics.NewCollector(), log)
	if err != nil {
		return err
	}
	defer client.Close()

	return printSchema(cmd.Context(), cfg, client, log, out)
}

func printSchema(ctx context.Context, cfg *config.Config, client schemaclient.Client, log *logger.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := panel.New(newTable(ctx, cfg, client, metrics.NewCollector(), log), log.Zerolog())
	defer p.Close()

	snap, err := p.Settle(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, snap.Markdown)
	return err
}
