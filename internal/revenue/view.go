package revenue

import (
	"time"

	"revenue-dashboard/internal/models"
)

// Query is one pipeline input. A nil Cursor snaps the view to the latest
// booking of the selected venue before Direction is applied.
type Query struct {
	Range     models.RangeMode
	Venue     string
	Cursor    *time.Time
	Direction int
}

// View is everything the dashboard renders for one query. Cursor is the
// anchor actually used, so stateless clients can echo it back together with
// the next navigation direction.
type View struct {
	Range        models.RangeMode      `json:"range"`
	Venue        string                `json:"venue"`
	Venues       []string              `json:"venues"`
	Cursor       time.Time             `json:"cursor"`
	Window       models.DateWindow     `json:"window"`
	WindowLabel  string                `json:"window_label"`
	Granularity  models.Granularity    `json:"granularity"`
	CanGoPrev    bool                  `json:"can_go_prev"`
	CanGoNext    bool                  `json:"can_go_next"`
	Summary      models.SummaryMetrics `json:"summary"`
	Growth       string                `json:"growth"`
	Chart        []models.ChartBucket  `json:"chart"`
	Distribution []models.SportShare   `json:"distribution"`
	DailyRevenue []models.DailyRevenue `json:"daily_revenue"`
}

// Compute runs the full pipeline over records. now only matters when the
// selected venue has no bookings: it stands in for the latest booking.
func Compute(records []models.BookingRecord, q Query, now time.Time) View {
	venue := q.Venue
	if venue == "" {
		venue = AllVenues
	}

	venueFiltered := FilterByVenue(records, venue)
	latest := LatestTimestamp(venueFiltered, now)

	var cursor time.Time
	if q.Cursor != nil {
		cursor = *q.Cursor
	} else {
		cursor = SnapCursor(venueFiltered, now)
	}
	cursor = Navigate(q.Range, cursor, q.Direction)

	window := ResolveWindow(q.Range, cursor, venueFiltered)
	windowFiltered := FilterByWindow(venueFiltered, window)
	summary := ComputeSummary(windowFiltered)

	growth := "0%"
	if q.Range != models.RangeAll {
		prevWindow := ResolveWindow(q.Range, Navigate(q.Range, cursor, -1), venueFiltered)
		growth = Growth(summary, ComputeSummary(FilterByWindow(venueFiltered, prevWindow)))
	}

	return View{
		Range:        q.Range,
		Venue:        venue,
		Venues:       Venues(records),
		Cursor:       cursor,
		Window:       window,
		WindowLabel:  WindowLabel(q.Range, window),
		Granularity:  GranularityFor(q.Range),
		CanGoPrev:    CanGoPrev(q.Range),
		CanGoNext:    CanGoNext(q.Range, window, latest),
		Summary:      summary,
		Growth:       growth,
		Chart:        BuildChartBuckets(windowFiltered, window, q.Range, latest),
		Distribution: ComputeDistribution(windowFiltered),
		DailyRevenue: ComputeDailyRevenue(venueFiltered),
	}
}
