package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/eventstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
	grpc_service "github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/pkg/stylist-grpc-service"
)

var (
	grpcAddr    string
	metricsAddr string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Expose a session over gRPC",
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&grpcAddr, "addr", "", "gRPC listen address, overrides the config")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "HTTP address serving /metrics, overrides the config")
}

func runServe(cmd *cobra.Command, args []string) error {
	if grpcAddr != "" {
		cfg.GRPC.Addr = grpcAddr
	}
	if metricsAddr != "" {
		cfg.GRPC.MetricsAddr = metricsAddr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sess, u, err := openSession(cfg, os.Stderr, reg, func(o *session.SessionOptional, u types.Utils) {
		o.Streamer = eventstream.NewLogStreamer(u.GetLogger())
	})
	if err != nil {
		return err
	}
	defer sess.Stop()
	logger := u.GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gRPC listening", "addr", cfg.GRPC.Addr, "session", sess.ID())
		return grpc_service.ListenAndServe(gctx, sess, cfg.GRPC.Addr)
	})

	if cfg.GRPC.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv := &http.Server{Addr: cfg.GRPC.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			logger.Info("metrics listening", "addr", cfg.GRPC.MetricsAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("shutting down", "session", sess.ID())
	return err
}
