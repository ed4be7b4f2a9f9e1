package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"revenue-dashboard/internal/config"
)

const hookTimeout = 10 * time.Second

type Hook func(ctx context.Context) error

// GracefulServer runs an http.Server until SIGINT or SIGTERM, draining
// connections and running shutdown hooks, and runs reload hooks on SIGHUP.
type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	config *config.Config

	mu       sync.Mutex
	shutdown []Hook
	reload   []Hook
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, config *config.Config) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: config,
	}
}

func (gs *GracefulServer) RegisterShutdownHook(fn Hook) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.shutdown = append(gs.shutdown, fn)
}

// RegisterReloadHook adds fn to the hooks run on SIGHUP. The server keeps
// serving while they run.
func (gs *GracefulServer) RegisterReloadHook(fn Hook) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.reload = append(gs.reload, fn)
}

func (gs *GracefulServer) hooks(list *[]Hook) []Hook {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return append([]Hook(nil), (*list)...)
}

func (gs *GracefulServer) ListenAndServe() error {
	serverErrors := make(chan error, 1)
	go func() {
		gs.logger.Info("starting server",
			"addr", gs.server.Addr,
			"read_timeout", gs.config.Server.ReadTimeout,
			"write_timeout", gs.config.Server.WriteTimeout,
		)
		serverErrors <- gs.server.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	for {
		select {
		case err := <-serverErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil

		case sig := <-signals:
			if sig == syscall.SIGHUP {
				gs.logger.Info("reload signal received")
				gs.Reload(context.Background())
				continue
			}

			gs.logger.Info("shutdown signal received", "signal", sig)
			ctx, cancel := context.WithTimeout(context.Background(), gs.config.Server.ShutdownTimeout)
			defer cancel()
			return gs.Shutdown(ctx)
		}
	}
}

// Reload runs the reload hooks one after another, each bounded by the data
// load timeout. Failures are logged and leave the previous state in place.
func (gs *GracefulServer) Reload(ctx context.Context) {
	for i, fn := range gs.hooks(&gs.reload) {
		hookCtx, cancel := context.WithTimeout(ctx, gs.config.Data.LoadTimeout)
		err := fn(hookCtx)
		cancel()

		if err != nil {
			gs.logger.Error("reload hook failed", "hook_index", i, "error", err)
			continue
		}
		gs.logger.Info("reload hook completed", "hook_index", i)
	}
}

// Shutdown stops the HTTP server and runs the shutdown hooks concurrently.
// It returns every failure joined, or ctx.Err() if the deadline passes.
func (gs *GracefulServer) Shutdown(ctx context.Context) error {
	gs.logger.Info("starting graceful shutdown", "timeout", gs.config.Server.ShutdownTimeout)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	g.Go(func() error {
		gs.logger.Info("stopping HTTP server")
		if err := gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("HTTP server shutdown failed", "error", err)
			record(fmt.Errorf("HTTP server shutdown failed: %w", err))
			return nil
		}
		gs.logger.Info("HTTP server stopped gracefully")
		return nil
	})

	for i, fn := range gs.hooks(&gs.shutdown) {
		g.Go(func() error {
			hookCtx, cancel := context.WithTimeout(ctx, hookTimeout)
			defer cancel()

			if err := fn(hookCtx); err != nil {
				gs.logger.Error("shutdown hook failed", "hook_index", i, "error", err)
				record(fmt.Errorf("shutdown hook %d failed: %w", i, err))
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
		gs.logger.Info("graceful shutdown completed")
		return errors.Join(errs...)
	case <-ctx.Done():
		gs.logger.Warn("shutdown timeout exceeded, forcing exit")
		return ctx.Err()
	}
}
