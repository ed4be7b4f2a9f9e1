package revenue

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"revenue-dashboard/internal/models"
)

const otherSport = "Other"

var hundred = decimal.NewFromInt(100)

func ComputeSummary(windowFiltered []models.BookingRecord) models.SummaryMetrics {
	var summary models.SummaryMetrics
	total := decimal.Zero
	for _, r := range windowFiltered {
		total = total.Add(r.TotalAmount)
		if r.Category.IsTournament() {
			summary.TotalTournamentCount++
		} else {
			summary.TotalBookingCount++
		}
	}
	summary.TotalRevenue = total.InexactFloat64()
	return summary
}

// ComputeDistribution groups revenue by sport, largest first. Sports keep
// their first-seen order when their totals tie.
func ComputeDistribution(windowFiltered []models.BookingRecord) []models.SportShare {
	var order []string
	totals := make(map[string]decimal.Decimal)
	grand := decimal.Zero
	for _, r := range windowFiltered {
		sport := r.Sport
		if sport == "" {
			sport = otherSport
		}
		if _, ok := totals[sport]; !ok {
			order = append(order, sport)
		}
		totals[sport] = totals[sport].Add(r.TotalAmount)
		grand = grand.Add(r.TotalAmount)
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return totals[b].Cmp(totals[a])
	})

	distribution := make([]models.SportShare, 0, len(order))
	for _, sport := range order {
		share := decimal.Zero
		if grand.IsPositive() {
			share = totals[sport].Mul(hundred).Div(grand).Round(1)
		}
		distribution = append(distribution, models.SportShare{
			Name:  capitalize(sport),
			Value: totals[sport].InexactFloat64(),
			Share: share.InexactFloat64(),
		})
	}
	return distribution
}

// ComputeDailyRevenue totals every booking per calendar day, oldest day
// first. It works on the venue-filtered set so the heatmap spans all time.
func ComputeDailyRevenue(venueFiltered []models.BookingRecord) []models.DailyRevenue {
	totals := make(map[string]decimal.Decimal)
	for _, r := range venueFiltered {
		key := BucketKey(r.StartDateTime, models.GranularityDay)
		totals[key] = totals[key].Add(r.TotalAmount)
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	slices.Sort(days)

	daily := make([]models.DailyRevenue, 0, len(days))
	for _, day := range days {
		daily = append(daily, models.DailyRevenue{Date: day, Value: totals[day].InexactFloat64()})
	}
	return daily
}

// Growth formats the revenue change from previous to current as a signed
// percentage with one decimal. A previous window without revenue reports 0%.
func Growth(current, previous models.SummaryMetrics) string {
	prev := decimal.NewFromFloat(previous.TotalRevenue)
	if !prev.IsPositive() {
		return "0%"
	}
	change := decimal.NewFromFloat(current.TotalRevenue).Sub(prev).Mul(hundred).Div(prev).Round(1)
	if change.IsPositive() {
		return "+" + change.StringFixed(1) + "%"
	}
	if change.IsZero() {
		return "0%"
	}
	return change.StringFixed(1) + "%"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}
