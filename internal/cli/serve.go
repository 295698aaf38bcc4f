package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nadzzz/voxlist/internal/config"
	"github.com/nadzzz/voxlist/internal/health"
	"github.com/nadzzz/voxlist/internal/observe"
	"github.com/nadzzz/voxlist/internal/transport"
	grpctransport "github.com/nadzzz/voxlist/internal/transport/grpc"
	httptransport "github.com/nadzzz/voxlist/internal/transport/http"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon: accept utterances over HTTP and gRPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, opts)
		},
	}
}

func serve(ctx context.Context, opts *options) error {
	cfg := opts.cfg
	slog.Info("voxlist starting", "version", Version)

	var met *observe.Metrics
	if cfg.Metrics.Enabled {
		m, shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: Version})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("telemetry shutdown", "error", err)
			}
		}()
		met = m
	}

	stt, err := newTranscriber(cfg.Transcriber)
	if err != nil {
		return err
	}
	svc, err := newPlaylistService(ctx, cfg.Spotify, met)
	if err != nil {
		return err
	}
	proc := newProcessor(cfg, svc, stt, met)

	// Initialize enabled transports.
	var transports []transport.Transport
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port))
	}
	if len(transports) == 0 {
		return errors.New("no transports enabled: enable at least one in config")
	}

	if opts.v.ConfigFileUsed() != "" {
		config.Watch(opts.v, func(c *config.Config) {
			config.SetLogLevel(c.Logging.Level)
		})
	}

	healthServer := health.New(cfg.Server.HealthPort)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return healthServer.ListenAndServe(gctx) })
	for _, t := range transports {
		g.Go(func() error {
			slog.Info("starting transport", "name", t.Name())
			return t.Listen(gctx, proc.Handle)
		})
	}

	healthServer.SetReady(true)
	slog.Info("voxlist ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	err = g.Wait()
	healthServer.SetReady(false)
	slog.Info("voxlist stopped")
	return err
}
