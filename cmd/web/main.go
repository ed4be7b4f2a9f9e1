package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"revenue-dashboard/internal/config"
	"revenue-dashboard/internal/handlers"
	"revenue-dashboard/internal/middleware"
	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/observability"
	"revenue-dashboard/internal/server"
	"revenue-dashboard/internal/services"
	"revenue-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	pageCacheAge  = "no-cache"
	dashboardName = "Revenue Dashboard"
)

// newDashboardHandler serves the page shell. Venues are read per request so
// a reload shows up without a restart.
func newDashboardHandler(source handlers.RevenueSource, defaultRange models.RangeMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		page := templates.DashboardPage{
			Title:  dashboardName,
			Range:  defaultRange,
			Venues: source.Venues(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", pageCacheAge)
		if err := templates.Dashboard(page).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid dashboard timezone", "error", err)
		os.Exit(1)
	}

	bookings := services.NewRevenue(services.RevenueConfig{
		Location: loc,
		CacheDir: cfg.Data.CacheDir,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	start := time.Now()
	err = bookings.LoadFromJSON(ctx, cfg.Data.BookingFiles...)
	cancel()
	if err != nil {
		logger.Error("failed to load booking data", "error", err)
		os.Exit(1)
	}
	logger.Info("booking data loaded successfully", "duration", time.Since(start))

	defaultRange := cfg.DefaultRange()
	templateHandlers := &server.TemplateHandlers{
		Dashboard: newDashboardHandler(bookings, defaultRange),
	}

	srv := server.NewServer(bookings, defaultRange, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go rateLimiter.Run(sweepCtx)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterReloadHook(bookings.Reload)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stopSweep()
		logger.Info("shutting down revenue service", "stats", bookings.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
