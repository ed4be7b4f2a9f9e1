package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"revenue-dashboard/internal/errors"
	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
	"revenue-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	revenue      RevenueSource
	defaultRange models.RangeMode
	logger       *slog.Logger
}

func NewSSEHandlers(source RevenueSource, defaultRange models.RangeMode, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		revenue:      source,
		defaultRange: defaultRange,
		logger:       logger,
	}
}

func (h *SSEHandlers) readSignals(r *http.Request) (templates.Signals, error) {
	var signals templates.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return templates.Signals{}, errors.InvalidParam("signals", r.URL.Query().Get("datastar"), err)
	}
	return signals, nil
}

// HandleRevenue recomputes the view for the selection held in the page
// signals, applying one navigation step when direction is set.
func (h *SSEHandlers) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	signals, err := h.readSignals(r)
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	q, err := buildQuery(queryParams{
		Range:     signals.Range,
		Venue:     signals.Venue,
		Cursor:    signals.Cursor,
		Direction: strconv.Itoa(signals.Direction),
	}, h.defaultRange, h.revenue.Location())
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	h.stream(w, r, h.revenue.View(r.Context(), q))
}

// HandleRefreshAll reopens the current range and venue on the latest
// booking and patches every part of the page.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	signals, err := h.readSignals(r)
	if err != nil {
		h.logger.Warn("ignoring unreadable signals on refresh", "error", err)
	}

	q, err := buildQuery(queryParams{Range: signals.Range, Venue: signals.Venue}, h.defaultRange, h.revenue.Location())
	if err != nil {
		q = revenue.Query{Range: h.defaultRange}
	}

	h.stream(w, r, h.revenue.View(r.Context(), q))
}

func (h *SSEHandlers) stream(w http.ResponseWriter, r *http.Request, view revenue.View) {
	sse := datastar.NewSSE(w, r)

	for _, c := range []templ.Component{
		templates.WindowHeader(view),
		templates.StatsPanel(view),
		templates.DistributionTable(view.Distribution),
	} {
		html, err := templates.RenderString(r.Context(), c)
		if err != nil {
			h.logger.Error("render fragment", "error", err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch elements", "error", err)
			return
		}
	}

	signals, err := viewSignals(view)
	if err != nil {
		h.logger.Error("marshal view signals", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		h.logger.Warn("patch signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func viewSignals(view revenue.View) ([]byte, error) {
	data, err := json.Marshal(map[string]any{
		"range":            string(view.Range),
		"venue":            view.Venue,
		"cursor":           view.Cursor.Format(time.RFC3339),
		"direction":        0,
		"windowLabel":      view.WindowLabel,
		"canGoPrev":        view.CanGoPrev,
		"canGoNext":        view.CanGoNext,
		"granularity":      string(view.Granularity),
		"chartData":        view.Chart,
		"distributionData": view.Distribution,
		"summary":          view.Summary,
		"growth":           view.Growth,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal signals: %w", err)
	}
	return data, nil
}
