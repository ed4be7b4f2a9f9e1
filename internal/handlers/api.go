package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"revenue-dashboard/internal/errors"
	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
)

const cacheControl = "private, max-age=60"

type APIHandlers struct {
	revenue      RevenueSource
	defaultRange models.RangeMode
	logger       *slog.Logger
}

func NewAPIHandlers(source RevenueSource, defaultRange models.RangeMode, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		revenue:      source,
		defaultRange: defaultRange,
		logger:       logger,
	}
}

// view parses the request selection and runs the pipeline. It writes the
// error response itself and reports false when the request was rejected.
func (h *APIHandlers) view(w http.ResponseWriter, r *http.Request) (revenue.View, bool) {
	q, err := buildQuery(paramsFromRequest(r), h.defaultRange, h.revenue.Location())
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return revenue.View{}, false
	}
	return h.revenue.View(r.Context(), q), true
}

func (h *APIHandlers) writeData(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	if view, ok := h.view(w, r); ok {
		h.writeData(w, view)
	}
}

type summaryResponse struct {
	Window      models.DateWindow     `json:"window"`
	WindowLabel string                `json:"window_label"`
	Cursor      time.Time             `json:"cursor"`
	Summary     models.SummaryMetrics `json:"summary"`
	Growth      string                `json:"growth"`
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	h.writeData(w, summaryResponse{
		Window:      view.Window,
		WindowLabel: view.WindowLabel,
		Cursor:      view.Cursor,
		Summary:     view.Summary,
		Growth:      view.Growth,
	})
}

type chartResponse struct {
	Window      models.DateWindow    `json:"window"`
	Cursor      time.Time            `json:"cursor"`
	Granularity models.Granularity   `json:"granularity"`
	CanGoPrev   bool                 `json:"can_go_prev"`
	CanGoNext   bool                 `json:"can_go_next"`
	Buckets     []models.ChartBucket `json:"buckets"`
}

func (h *APIHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	h.writeData(w, chartResponse{
		Window:      view.Window,
		Cursor:      view.Cursor,
		Granularity: view.Granularity,
		CanGoPrev:   view.CanGoPrev,
		CanGoNext:   view.CanGoNext,
		Buckets:     view.Chart,
	})
}

func (h *APIHandlers) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	if view, ok := h.view(w, r); ok {
		h.writeData(w, view.Distribution)
	}
}

func (h *APIHandlers) HandleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	if view, ok := h.view(w, r); ok {
		h.writeData(w, view.DailyRevenue)
	}
}

func (h *APIHandlers) HandleVenues(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, h.revenue.Venues())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.revenue.Stats())
}
