package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBooking    Category = "BOOKING"
	CategoryTournament Category = "TOURNAMENT"
)

// IsTournament reports whether the record counts as tournament revenue.
// Anything else, including an empty category, is booking revenue.
func (c Category) IsTournament() bool {
	return c == CategoryTournament
}

type BookingRecord struct {
	ID            string
	VenueName     string
	Sport         string
	TotalAmount   decimal.Decimal
	StartDateTime time.Time
	Category      Category
}

type RangeMode string

const (
	Range7D  RangeMode = "7D"
	Range1M  RangeMode = "1M"
	Range3M  RangeMode = "3M"
	Range1Y  RangeMode = "1Y"
	RangeAll RangeMode = "ALL"
)

var RangeModes = []RangeMode{Range7D, Range1M, Range3M, Range1Y, RangeAll}

func ParseRangeMode(s string) (RangeMode, error) {
	mode := RangeMode(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range RangeModes {
		if m == mode {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown range mode %q", s)
}

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies inside the window, both ends inclusive.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

type ChartBucket struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	BookingSum    float64 `json:"booking"`
	TournamentSum float64 `json:"tournament"`
}

type SummaryMetrics struct {
	TotalRevenue         float64 `json:"total_revenue"`
	TotalBookingCount    int     `json:"total_bookings"`
	TotalTournamentCount int     `json:"total_tournaments"`
}

type SportShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

type DailyRevenue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
