package revenue

import (
	"time"

	"revenue-dashboard/internal/models"
)

// allTimeFloor is where an ALL window starts when there are no records.
func allTimeFloor(loc *time.Location) time.Time {
	return time.Date(2023, time.January, 1, 0, 0, 0, 0, loc)
}

// ResolveWindow computes the calendar-aligned window containing cursor.
// All arithmetic happens in the cursor's location. venueFiltered is only
// consulted by RangeAll, whose bounds follow the data instead of the cursor.
func ResolveWindow(mode models.RangeMode, cursor time.Time, venueFiltered []models.BookingRecord) models.DateWindow {
	loc := cursor.Location()
	start := startOfDay(cursor)
	var end time.Time

	switch mode {
	case models.Range7D:
		start = mondayOf(start)
		end = start.AddDate(0, 0, 6)
	case models.Range1M:
		start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, -1)
	case models.Range3M:
		quarterStart := time.Month((int(start.Month())-1)/3*3 + 1)
		start = time.Date(start.Year(), quarterStart, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 3, -1)
	case models.Range1Y:
		start = time.Date(start.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, loc)
	case models.RangeAll:
		if len(venueFiltered) > 0 {
			start = startOfDay(EarliestTimestamp(venueFiltered, cursor).In(loc))
		} else {
			start = allTimeFloor(loc)
		}
		// A year of headroom keeps the newest record inside the window
		// regardless of where the day boundary falls.
		end = LatestTimestamp(venueFiltered, cursor).In(loc).AddDate(1, 0, 0)
	default:
		end = start
	}

	return models.DateWindow{Start: start, End: endOfDay(end)}
}

// Navigate moves cursor by direction window widths. RangeAll has a single
// window and ignores navigation.
func Navigate(mode models.RangeMode, cursor time.Time, direction int) time.Time {
	if direction == 0 {
		return cursor
	}

	switch mode {
	case models.Range7D:
		return cursor.AddDate(0, 0, 7*direction)
	case models.Range1M:
		return addMonthsClamped(cursor, direction)
	case models.Range3M:
		return addMonthsClamped(cursor, 3*direction)
	case models.Range1Y:
		return addMonthsClamped(cursor, 12*direction)
	default:
		return cursor
	}
}

// CanGoNext reports whether newer data exists beyond the window.
func CanGoNext(mode models.RangeMode, window models.DateWindow, latest time.Time) bool {
	if mode == models.RangeAll {
		return false
	}
	return window.End.Before(latest)
}

// CanGoPrev reports whether backward navigation is offered. There is no
// historical floor, so every navigable mode can always step back.
func CanGoPrev(mode models.RangeMode) bool {
	return mode != models.RangeAll
}

// SnapCursor is the reset rule applied when the range or venue selection
// changes: the view reopens on the most recent booking, or on now when the
// selection has no bookings at all.
func SnapCursor(venueFiltered []models.BookingRecord, now time.Time) time.Time {
	return LatestTimestamp(venueFiltered, now)
}

func LatestTimestamp(records []models.BookingRecord, fallback time.Time) time.Time {
	if len(records) == 0 {
		return fallback
	}
	latest := records[0].StartDateTime
	for _, r := range records[1:] {
		if r.StartDateTime.After(latest) {
			latest = r.StartDateTime
		}
	}
	return latest
}

func EarliestTimestamp(records []models.BookingRecord, fallback time.Time) time.Time {
	if len(records) == 0 {
		return fallback
	}
	earliest := records[0].StartDateTime
	for _, r := range records[1:] {
		if r.StartDateTime.Before(earliest) {
			earliest = r.StartDateTime
		}
	}
	return earliest
}

// FilterByWindow keeps the records whose start time lies inside window.
func FilterByWindow(records []models.BookingRecord, window models.DateWindow) []models.BookingRecord {
	filtered := make([]models.BookingRecord, 0, len(records))
	for _, r := range records {
		if window.Contains(r.StartDateTime) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// mondayOf returns midnight of the Monday starting t's week. Sunday belongs
// to the week that began six days earlier.
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// addMonthsClamped shifts t by n months, pinning the day to the last day of
// the target month instead of overflowing into the next one.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
