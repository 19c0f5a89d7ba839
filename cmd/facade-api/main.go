package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	facadeapi "github.com/aegis-sign/ledger-facade/internal/api"
	"github.com/aegis-sign/ledger-facade/internal/app/facade"
	"github.com/aegis-sign/ledger-facade/internal/config"
	"github.com/aegis-sign/ledger-facade/internal/platform/logging"
	"github.com/aegis-sign/ledger-facade/internal/platform/ratelimiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
)

func main() {
	app := &cli.App{
		Name:  "facade-api",
		Usage: "stateless ledger facade: keypairs, message signatures and unsigned instructions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"FACADE_CONFIG"}, Usage: "path to YAML config"},
			&cli.StringFlag{Name: "http-addr", Usage: "HTTP listen endpoint (host:port, unix://path)"},
			&cli.StringFlag{Name: "grpc-addr", Usage: "gRPC listen endpoint; setting it enables gRPC"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(&cfg, c)

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := facadeapi.NewMetrics(reg)

	var limiter *ratelimiter.ClientLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimiter.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
	}
	service := facade.NewDefault()

	// HTTP server wiring
	httpLis, err := facadeapi.Listen(cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	httpSrv := &http.Server{
		Handler:      newHTTPHandler(cfg, service, logger, metrics, limiter, reg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	go func() {
		logger.Info("HTTP server listening", "addr", httpLis.Addr().String())
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server closed unexpectedly", "error", err)
			stop()
		}
	}()

	// gRPC server wiring
	var grpcSrv *grpc.Server
	if cfg.GRPC.Enabled {
		grpcLis, err := facadeapi.Listen(cfg.GRPC.Addr)
		if err != nil {
			_ = httpSrv.Close()
			return fmt.Errorf("listen grpc: %w", err)
		}
		grpcSrv = grpc.NewServer()
		facadeapi.RegisterFacadeServiceServer(grpcSrv, facadeapi.NewGRPCServer(service,
			facadeapi.WithGRPCLogger(logger),
			facadeapi.WithGRPCMetrics(metrics),
			facadeapi.WithGRPCRateLimiter(limiter),
		))
		go func() {
			logger.Info("gRPC server listening", "addr", grpcLis.Addr().String())
			if err := grpcSrv.Serve(grpcLis); err != nil {
				logger.Error("grpc server closed unexpectedly", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	return nil
}

// applyFlags 让命令行参数覆盖文件与环境变量配置。
func applyFlags(cfg *config.Config, c *cli.Context) {
	if c.IsSet("http-addr") {
		cfg.HTTP.Addr = c.String("http-addr")
	}
	if c.IsSet("grpc-addr") {
		cfg.GRPC.Enabled = true
		cfg.GRPC.Addr = c.String("grpc-addr")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
}

func newHTTPHandler(cfg config.Config, backend facadeapi.Backend, logger *slog.Logger, metrics *facadeapi.Metrics, limiter *ratelimiter.ClientLimiter, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	facadeapi.NewHTTPHandler(backend,
		facadeapi.WithLogger(logger),
		facadeapi.WithMetrics(metrics),
		facadeapi.WithRateLimiter(limiter),
		facadeapi.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	).Register(mux)
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", facadeapi.RequestIDHeader},
		ExposedHeaders: []string{facadeapi.RequestIDHeader, "Retry-After"},
	}).Handler(mux)
}
