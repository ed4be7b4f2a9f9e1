package server

import (
	"log/slog"
	"net/http"

	"revenue-dashboard/internal/handlers"
	"revenue-dashboard/internal/models"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(source handlers.RevenueSource, defaultRange models.RangeMode, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(source, defaultRange, logger),
		sseHandlers: handlers.NewSSEHandlers(source, defaultRange, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/venues", s.apiHandlers.HandleVenues)
	s.mux.HandleFunc("GET /api/revenue", s.apiHandlers.HandleRevenue)
	s.mux.HandleFunc("GET /api/revenue/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/revenue/chart", s.apiHandlers.HandleChart)
	s.mux.HandleFunc("GET /api/revenue/distribution", s.apiHandlers.HandleDistribution)
	s.mux.HandleFunc("GET /api/revenue/daily", s.apiHandlers.HandleDailyRevenue)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/revenue", s.sseHandlers.HandleRevenue)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
