package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"revenue-dashboard/internal/models"
)

// maxBuckets bounds bucket generation against malformed windows.
const maxBuckets = 1000

func GranularityFor(mode models.RangeMode) models.Granularity {
	switch mode {
	case models.Range3M:
		return models.GranularityWeek
	case models.Range1Y, models.RangeAll:
		return models.GranularityMonth
	default:
		return models.GranularityDay
	}
}

// BucketKey derives the bucket identity of t in t's own location.
func BucketKey(t time.Time, g models.Granularity) string {
	switch g {
	case models.GranularityWeek:
		return mondayOf(t).Format("2006-01-02")
	case models.GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// BucketLabel is the chart axis text for the bucket containing t.
func BucketLabel(t time.Time, g models.Granularity) string {
	switch g {
	case models.GranularityWeek:
		return mondayOf(t).Format("2 Jan")
	case models.GranularityMonth:
		return t.Format("Jan '06")
	default:
		return t.Format("2 Jan")
	}
}

type bucketSums struct {
	booking    decimal.Decimal
	tournament decimal.Decimal
}

// BuildChartBuckets lays out one bucket per granularity step from the start
// of window and sums windowFiltered into them by category. Outside RangeAll
// generation also stops after latest, the newest venue-filtered booking, so
// the chart never runs into periods that cannot have data yet.
//
// A record whose key matches no generated bucket is left out of the chart.
func BuildChartBuckets(windowFiltered []models.BookingRecord, window models.DateWindow, mode models.RangeMode, latest time.Time) []models.ChartBucket {
	g := GranularityFor(mode)
	loc := window.Start.Location()

	current := window.Start
	switch g {
	case models.GranularityWeek:
		current = mondayOf(current)
	case models.GranularityMonth:
		current = time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, loc)
	}

	var keys []string
	labels := make(map[string]string)
	for steps := 0; !current.After(window.End) && steps < maxBuckets; steps++ {
		if mode != models.RangeAll && current.After(latest) {
			break
		}

		key := BucketKey(current, g)
		if _, ok := labels[key]; !ok {
			keys = append(keys, key)
			labels[key] = BucketLabel(current, g)
		}

		switch g {
		case models.GranularityWeek:
			current = current.AddDate(0, 0, 7)
		case models.GranularityMonth:
			current = current.AddDate(0, 1, 0)
		default:
			current = current.AddDate(0, 0, 1)
		}
	}

	sums := make(map[string]*bucketSums, len(keys))
	for _, key := range keys {
		sums[key] = &bucketSums{}
	}
	for _, r := range windowFiltered {
		s, ok := sums[BucketKey(r.StartDateTime.In(loc), g)]
		if !ok {
			continue
		}
		if r.Category.IsTournament() {
			s.tournament = s.tournament.Add(r.TotalAmount)
		} else {
			s.booking = s.booking.Add(r.TotalAmount)
		}
	}

	buckets := make([]models.ChartBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, models.ChartBucket{
			Key:           key,
			Label:         labels[key],
			BookingSum:    sums[key].booking.InexactFloat64(),
			TournamentSum: sums[key].tournament.InexactFloat64(),
		})
	}
	return buckets
}
