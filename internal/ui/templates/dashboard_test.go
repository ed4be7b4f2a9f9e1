package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
)

func TestDashboard(t *testing.T) {
	page := DashboardPage{
		Title:  "Revenue <Reports>",
		Range:  models.Range1M,
		Venues: []string{revenue.AllVenues, "Court & Co"},
	}

	html, err := RenderString(context.Background(), Dashboard(page))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Revenue &lt;Reports&gt;")
	assert.Contains(t, html, `<option value="Court &amp; Co">Court &amp; Co</option>`)
	assert.Contains(t, html, `&#34;range&#34;:&#34;1M&#34;`)
	assert.Contains(t, html, `<button class="range active"`)
	for _, id := range []string{"window-header", "stats-content", "chart-content", "distribution-content"} {
		assert.Contains(t, html, `id="`+id+`"`)
	}
	assert.Equal(t, len(models.RangeModes), strings.Count(html, `<button class="range`))
}

func TestWindowHeader(t *testing.T) {
	view := revenue.View{Range: models.Range7D, WindowLabel: "Jan 8 - Jan 14", CanGoPrev: true}

	html, err := RenderString(context.Background(), WindowHeader(view))
	require.NoError(t, err)

	assert.Contains(t, html, "Jan 8 - Jan 14")
	assert.Contains(t, html, `$direction = -1`)
	assert.Contains(t, html, `class="nav next" data-on:click="$direction = 1; @get('/sse/revenue')" disabled>`)
	assert.NotContains(t, html, `class="nav prev" data-on:click="$direction = -1; @get('/sse/revenue')" disabled`)
}

func TestWindowHeader_AllHasNoArrows(t *testing.T) {
	html, err := RenderString(context.Background(), WindowHeader(revenue.View{Range: models.RangeAll, WindowLabel: "All Time"}))
	require.NoError(t, err)

	assert.Contains(t, html, "All Time")
	assert.NotContains(t, html, "<button")
}

func TestStatsPanel(t *testing.T) {
	view := revenue.View{
		Summary: models.SummaryMetrics{TotalRevenue: 12500, TotalBookingCount: 7, TotalTournamentCount: 2},
		Growth:  "+4.2%",
	}

	html, err := RenderString(context.Background(), StatsPanel(view))
	require.NoError(t, err)

	for _, want := range []string{"₹12,500.00", "<dd>7</dd>", "<dd>2</dd>", "+4.2%"} {
		assert.Contains(t, html, want)
	}
}

func TestDistributionTable(t *testing.T) {
	html, err := RenderString(context.Background(), DistributionTable([]models.SportShare{
		{Name: "Tennis", Value: 300, Share: 75},
		{Name: "Other", Value: 100, Share: 25},
	}))
	require.NoError(t, err)

	assert.Contains(t, html, "<td>Tennis</td>")
	assert.Contains(t, html, "₹300.00")
	assert.Contains(t, html, "75.0%")
	assert.Equal(t, 3, strings.Count(html, "<tr>"))

	empty, err := RenderString(context.Background(), DistributionTable(nil))
	require.NoError(t, err)
	assert.Contains(t, empty, "No revenue in this period")
}
