package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"revenue-dashboard/internal/errors"
	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
	"revenue-dashboard/internal/services"
)

// RevenueSource is what the handlers need from the booking holder.
type RevenueSource interface {
	View(ctx context.Context, q revenue.Query) revenue.View
	Venues() []string
	Stats() map[string]any
	Location() *time.Location
}

// queryParams are the raw selection values, from either URL parameters or
// datastar signals.
type queryParams struct {
	Range     string
	Venue     string
	Cursor    string
	Direction string
}

func paramsFromRequest(r *http.Request) queryParams {
	q := r.URL.Query()
	return queryParams{
		Range:     q.Get("range"),
		Venue:     q.Get("venue"),
		Cursor:    q.Get("cursor"),
		Direction: q.Get("direction"),
	}
}

func buildQuery(p queryParams, defaultRange models.RangeMode, loc *time.Location) (revenue.Query, error) {
	q := revenue.Query{Range: defaultRange, Venue: strings.TrimSpace(p.Venue)}

	if p.Range != "" {
		mode, err := models.ParseRangeMode(p.Range)
		if err != nil {
			return revenue.Query{}, errors.InvalidParam("range", p.Range, err)
		}
		q.Range = mode
	}

	if p.Cursor != "" {
		cursor, err := services.ParseTimestamp(p.Cursor, loc)
		if err != nil {
			return revenue.Query{}, errors.InvalidParam("cursor", p.Cursor, err)
		}
		q.Cursor = &cursor
	}

	if p.Direction != "" {
		direction, err := strconv.Atoi(p.Direction)
		if err != nil {
			return revenue.Query{}, errors.InvalidParam("direction", p.Direction, err)
		}
		if direction < -1 || direction > 1 {
			return revenue.Query{}, errors.InvalidParam("direction", p.Direction, fmt.Errorf("must be -1, 0 or 1"))
		}
		q.Direction = direction
	}

	return q, nil
}
