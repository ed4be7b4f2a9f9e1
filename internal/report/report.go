// Package report renders a revenue view for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
)

const (
	maxNameWidth = 24
	barWidth     = 28
	narrowWidth  = 80
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle      = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	bookingBar     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A8DC8"))
	tournamentBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Render lays out the header, metric cards, chart and sport breakdown of
// view. width is the terminal width; 0 means unknown.
func Render(view revenue.View, width int) string {
	sections := []string{
		header(view),
		cards(view, width),
		Chart(view.Chart, view.Granularity),
		Distribution(view.Distribution),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func header(view revenue.View) string {
	title := titleStyle.Render(fmt.Sprintf("%s  ·  %s", view.WindowLabel, Truncate(view.Venue)))
	sub := subtitleStyle.Render(fmt.Sprintf("%s  %s → %s",
		view.Range,
		view.Window.Start.Format("2006-01-02"),
		view.Window.End.Format("2006-01-02")))
	return lipgloss.JoinVertical(lipgloss.Left, title, sub)
}

func cards(view revenue.View, width int) string {
	list := []string{
		metricCard("Total Revenue", revenue.FormatAmount(view.Summary.TotalRevenue)),
		metricCard("Bookings", fmt.Sprint(view.Summary.TotalBookingCount)),
		metricCard("Tournaments", fmt.Sprint(view.Summary.TotalTournamentCount)),
		metricCard("Growth", view.Growth),
	}
	if width > 0 && width < narrowWidth {
		return strings.Join(list, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list...)
}

func metricCard(label, value string) string {
	return cardStyle.Render(fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value)))
}

// Chart renders one row per bucket with a stacked bar scaled to the
// largest bucket.
func Chart(buckets []models.ChartBucket, g models.Granularity) string {
	if len(buckets) == 0 {
		return mutedStyle.Render("No chart data for this period")
	}

	var peak float64
	for _, b := range buckets {
		peak = max(peak, b.BookingSum+b.TournamentSum)
	}

	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{
			b.Label,
			revenue.FormatAmount(b.BookingSum),
			revenue.FormatAmount(b.TournamentSum),
			bar(b, peak),
		})
	}

	return newTable().
		Headers(periodHeader(g), "Booking", "Tournament", "").
		Rows(rows...).
		String()
}

func periodHeader(g models.Granularity) string {
	switch g {
	case models.GranularityWeek:
		return "Week of"
	case models.GranularityMonth:
		return "Month"
	default:
		return "Day"
	}
}

func bar(b models.ChartBucket, peak float64) string {
	if peak <= 0 {
		return ""
	}
	booking := int(b.BookingSum / peak * barWidth)
	tournament := int(b.TournamentSum / peak * barWidth)
	return bookingBar.Render(strings.Repeat("█", booking)) + tournamentBar.Render(strings.Repeat("█", tournament))
}

func Distribution(distribution []models.SportShare) string {
	if len(distribution) == 0 {
		return mutedStyle.Render("No revenue in this period")
	}

	rows := make([][]string, 0, len(distribution))
	for _, s := range distribution {
		rows = append(rows, []string{
			Truncate(s.Name),
			revenue.FormatAmount(s.Value),
			fmt.Sprintf("%.1f%%", s.Share),
		})
	}

	return newTable().
		Headers("Sport", "Revenue", "Share").
		Rows(rows...).
		String()
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Truncate shortens names by display width so wide scripts stay aligned.
func Truncate(name string) string {
	return runewidth.Truncate(name, maxNameWidth, "…")
}
