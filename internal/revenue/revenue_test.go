package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"revenue-dashboard/internal/models"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func ts(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func endOf(s string) time.Time {
	return day(s).Add(24*time.Hour - time.Millisecond)
}

func booking(venue, sport string, amount int64, at time.Time, category models.Category) models.BookingRecord {
	return models.BookingRecord{
		VenueName:     venue,
		Sport:         sport,
		TotalAmount:   decimal.NewFromInt(amount),
		StartDateTime: at,
		Category:      category,
	}
}

func scenarioRecords() []models.BookingRecord {
	return []models.BookingRecord{
		booking("A", "tennis", 100, ts("2024-01-03T10:00"), models.CategoryBooking),
		booking("A", "tennis", 200, ts("2024-01-10T18:30"), models.CategoryTournament),
	}
}
