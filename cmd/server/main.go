package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"klondike/internal/config"
	"klondike/internal/ports/ws"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the server YAML config")
	addr := pflag.String("addr", "", "listen address, overrides the config file")
	pflag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg := config.DefaultServerConfig()
	if configPath != "" {
		loaded, err := config.LoadServerConfig(configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	game := config.DefaultGameConfig()
	if cfg.GameConfig != "" {
		loaded, err := config.ReadGameConfig(cfg.GameConfig)
		if err != nil {
			return err
		}
		game = *loaded
	}

	srv := ws.NewServer(cfg, game, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.Addr),
			zap.Int("draw_count", game.DrawCount),
			zap.Bool("strict_runs", game.StrictRuns),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	srv.Close()
	srv.Wait()
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
