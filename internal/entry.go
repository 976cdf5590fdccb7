// Package internal wires the board engine, its websocket feed and the
// desktop window into a running application.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"LocalBoard/internal/align"
	"LocalBoard/internal/board"
	"LocalBoard/internal/config"
	lbnet "LocalBoard/internal/net"
	"LocalBoard/internal/shape"
	"LocalBoard/internal/ui"
)

// NewEngine builds a board loop from cfg.
func NewEngine(cfg *config.Config, logger *slog.Logger) (*board.Loop, error) {
	engine, err := align.NewEngine(cfg.Alignment, align.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("init alignment: %w", err)
	}
	store := shape.NewStore(shape.WithLogger(logger))
	ctrl := board.NewController(store, engine,
		board.WithLogger(logger),
		board.WithToolSettings(cfg.Tools),
		board.WithCameraConfig(cfg.Camera),
	)
	return board.NewLoop(ctrl), nil
}

// reload applies the sections of cfg that can change at runtime.
func reload(loop *board.Loop, cfg *config.Config, logger *slog.Logger) {
	err := loop.Do(func(c *board.Controller) {
		if err := c.SetAlignmentConfig(cfg.Alignment); err != nil {
			logger.Warn("config: alignment not applied", slog.String("error", err.Error()))
		}
		if err := c.SetToolSettings(cfg.Tools); err != nil {
			logger.Warn("config: tools not applied", slog.String("error", err.Error()))
		}
		if err := c.SetCameraConfig(cfg.Camera); err != nil {
			logger.Warn("config: camera not applied", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		logger.Warn("config: reload skipped", slog.String("error", err.Error()))
		return
	}
	logger.Info("config: reloaded")
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Bool("discovery", cfg.Discovery.Enabled),
		slog.Bool("desktop", app.desktop),
		slog.String("log_level", cfg.App.LogLevel.String()))

	loop, err := NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer loop.Close()

	hub := lbnet.NewHub(loop, logger)
	if err := loop.Do(func(c *board.Controller) { c.OnFrame(hub.Broadcast) }); err != nil {
		return fmt.Errorf("attach feed: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: lbnet.NewRouter(hub),
	}

	ip := lbnet.OutgoingIP(logger)
	shareURL := fmt.Sprintf("ws://%s:%d/ws", ip, cfg.App.HTTP.Port)

	if cfg.Discovery.Enabled {
		mdnsServer, err := lbnet.Advertise(lbnet.Advertisement{
			Instance: cfg.Discovery.Instance,
			Service:  cfg.Discovery.Service,
			Port:     cfg.App.HTTP.Port,
			IP:       ip,
		})
		if err != nil {
			logger.Warn("mDNS advertisement failed", slog.String("error", err.Error()))
		} else {
			defer func() { _ = mdnsServer.Shutdown() }()
			logger.Info("Advertising feed", slog.String("service", cfg.Discovery.Service))
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	if app.configPath != "" {
		g.Go(func() error {
			err := config.Watch(gCtx, app.configPath, logger, func(next *config.Config) {
				reload(loop, next, logger)
			})
			if err != nil {
				logger.Warn("config watch disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		hub.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		cancel()

		return nil
	})

	if app.desktop {
		if err := ui.RunApp(loop, shareURL, logger); err != nil {
			logger.Error("Desktop error", slog.String("error", err.Error()))
		}
		cancel()
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
