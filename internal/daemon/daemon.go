// Package daemon wires the store, services and API together and runs the
// long-lived server with its scheduled mismatch scan.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/api"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/coach"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/config"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/llm"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Daemon holds every wired component.
type Daemon struct {
	Config  config.Config
	Store   *store.Store
	Service *habits.Service
	Scanner *habits.Scanner
	Server  *api.Server
	logger  *slog.Logger
}

// Open opens the database at dbPath and wires the services. The coach is
// attached only when enabled in cfg.
func Open(ctx context.Context, cfg config.Config, dbPath string, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	opts := []habits.Option{habits.WithLogger(logger)}
	if cfg.Coach.Enabled {
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("coach provider: %w", err)
		}
		c := coach.New(provider, coach.Config{
			MaxTokens:         cfg.Coach.MaxTokens,
			Temperature:       cfg.Coach.Temperature,
			RequestsPerMinute: cfg.Coach.RequestsPerMinute,
			Timeout:           cfg.LLM.Timeout,
		}, logger)
		opts = append(opts, habits.WithCoach(c))
		logger.Info("coach enabled", "provider", cfg.LLM.Provider)
	}

	svc := habits.NewService(st, habits.Config{
		BaseXP:        cfg.XP.BaseXP,
		DefaultLocale: cfg.XP.DefaultLocale,
	}, opts...)
	scanner := habits.NewScanner(st, cfg.Scan.Concurrency, logger)

	srv := api.NewServer(svc, scanner, logger)
	srv.SetTimeout(cfg.API.RequestTimeout)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		Store:   st,
		Service: svc,
		Scanner: scanner,
		Server:  srv,
		logger:  logger,
	}, nil
}

// Close releases the database.
func (d *Daemon) Close() error {
	return d.Store.Close()
}

// Serve listens on the configured address and blocks until ctx is
// cancelled or the server fails.
func (d *Daemon) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.Config.API.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", d.Config.API.Addr(), err)
	}
	return d.ServeListener(ctx, ln)
}

// ServeListener runs the HTTP server on ln alongside the scan loop. On
// cancellation the server drains in-flight requests before returning.
func (d *Daemon) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           d.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.logger.Info("serving", "addr", ln.Addr().String(), "metrics", d.Config.API.Metrics)
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		d.logger.Info("server stopped")
		return nil
	})

	g.Go(func() error {
		d.scanLoop(ctx, d.Config.Scan.Interval)
		return nil
	})

	return g.Wait()
}

// scanLoop runs a full scan immediately and then on every tick. Scan
// failures are logged; the loop only stops with ctx.
func (d *Daemon) scanLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		d.scanOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *Daemon) scanOnce(ctx context.Context) {
	report, err := d.Scanner.ScanAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			d.logger.Error("scheduled scan failed", "error", err)
		}
		return
	}
	d.logger.Info("scheduled scan",
		"scanned", report.Scanned,
		"notified", report.Notified,
		"resolved", report.Resolved,
		"duration", report.Duration,
	)
}
