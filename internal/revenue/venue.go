// Package revenue turns a flat list of booking records into the windowed
// views shown on the revenue dashboard: a calendar-aligned date window,
// chart buckets, summary totals and a sport distribution.
//
// Every function in this package is pure. Callers own the range, venue and
// cursor selection and re-run the pipeline whenever one of them changes.
package revenue

import "revenue-dashboard/internal/models"

// AllVenues is the venue selection that disables venue filtering.
const AllVenues = "All Venues"

// FilterByVenue returns the records booked at venue. The AllVenues sentinel
// and an empty selection return records unchanged.
func FilterByVenue(records []models.BookingRecord, venue string) []models.BookingRecord {
	if venue == "" || venue == AllVenues {
		return records
	}

	filtered := make([]models.BookingRecord, 0, len(records))
	for _, r := range records {
		if r.VenueName == venue {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Venues lists the selectable venues: the sentinel first, then every
// non-empty venue name in the order it was first seen.
func Venues(records []models.BookingRecord) []string {
	seen := make(map[string]struct{})
	venues := []string{AllVenues}
	for _, r := range records {
		if r.VenueName == "" {
			continue
		}
		if _, ok := seen[r.VenueName]; ok {
			continue
		}
		seen[r.VenueName] = struct{}{}
		venues = append(venues, r.VenueName)
	}
	return venues
}
