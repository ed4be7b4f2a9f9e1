package browse

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func records() []models.BookingRecord {
	return []models.BookingRecord{
		{VenueName: "A", Sport: "tennis", TotalAmount: decimal.NewFromInt(100), StartDateTime: at("2024-01-03T10:00"), Category: models.CategoryBooking},
		{VenueName: "A", Sport: "tennis", TotalAmount: decimal.NewFromInt(200), StartDateTime: at("2024-01-10T18:30"), Category: models.CategoryTournament},
		{VenueName: "B", Sport: "football", TotalAmount: decimal.NewFromInt(70), StartDateTime: at("2024-03-20T10:00"), Category: models.CategoryBooking},
	}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestModel_OpensOnLatestBooking(t *testing.T) {
	m := NewModel(records(), models.Range1M, at("2026-10-15T12:00"))

	assert.Equal(t, "March 2024", m.Current().WindowLabel)
	assert.Equal(t, revenue.AllVenues, m.Current().Venue)
	assert.False(t, m.Current().CanGoNext)
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel(records(), models.Range1M, at("2026-10-15T12:00"))

	press(m, "right")
	assert.Equal(t, "March 2024", m.Current().WindowLabel, "next is disabled at the latest booking")

	press(m, "left", "h")
	assert.Equal(t, "January 2024", m.Current().WindowLabel)
	assert.Equal(t, 300.0, m.Current().Summary.TotalRevenue)

	press(m, "l")
	assert.Equal(t, "February 2024", m.Current().WindowLabel)
}

func TestModel_RangeAndVenueSnap(t *testing.T) {
	m := NewModel(records(), models.Range1M, at("2026-10-15T12:00"))
	press(m, "left", "left")

	press(m, "r")
	assert.Equal(t, models.Range3M, m.Current().Range)
	assert.Equal(t, "Jan 2024 - Mar 2024", m.Current().WindowLabel)

	press(m, "v")
	assert.Equal(t, "A", m.Current().Venue)
	assert.Equal(t, 300.0, m.Current().Summary.TotalRevenue)

	press(m, "v", "v")
	assert.Equal(t, revenue.AllVenues, m.Current().Venue)

	press(m, "r", "r")
	assert.Equal(t, models.RangeAll, m.Current().Range)
	press(m, "left")
	assert.Equal(t, "All Time", m.Current().WindowLabel)

	press(m, "r")
	assert.Equal(t, models.Range7D, m.Current().Range)
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(records(), models.Range7D, at("2026-10-15T12:00"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m := NewModel(records(), models.Range7D, at("2026-10-15T12:00"))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	out := m.View()

	assert.Contains(t, out, "Football")
	assert.Contains(t, out, "quit")
}

func TestCycle(t *testing.T) {
	assert.Equal(t, "b", cycle([]string{"a", "b", "c"}, "a"))
	assert.Equal(t, "a", cycle([]string{"a", "b", "c"}, "c"))
	assert.Equal(t, "a", cycle([]string{"a", "b", "c"}, "z"))
}
