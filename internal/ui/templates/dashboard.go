// Package templates holds the templ components of the dashboard page and
// the fragments patched into it over SSE.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

type DashboardPage struct {
	Title  string
	Range  models.RangeMode
	Venues []string
}

// Signals is the client-side state the page starts with. The server echoes
// the resolved cursor back after every computation.
type Signals struct {
	Range     string `json:"range"`
	Venue     string `json:"venue"`
	Cursor    string `json:"cursor"`
	Direction int    `json:"direction"`
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func Dashboard(page DashboardPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		signals, err := json.Marshal(Signals{Range: string(page.Range), Venue: revenue.AllVenues})
		if err != nil {
			return fmt.Errorf("marshal signals: %w", err)
		}

		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(page.Title)
		w.raw(`</title><script type="module" src="`, datastarScript, `"></script></head>`)
		w.raw(`<body data-signals="`, templ.EscapeString(string(signals)), `" data-init="@get('/sse/refresh-all')">`)
		w.raw(`<main class="dashboard"><h1>`)
		w.text(page.Title)
		w.raw(`</h1>`)
		w.component(ctx, RangeSelector(page.Range))
		w.component(ctx, VenueSelector(page.Venues))
		w.raw(`<section id="window-header"></section>`)
		w.raw(`<section id="stats-content"></section>`)
		w.raw(`<section id="chart-content"><canvas id="revenue-chart"></canvas></section>`)
		w.raw(`<section id="distribution-content"></section>`)
		w.raw(`</main></body></html>`)
		return w.err
	})
}

func RangeSelector(selected models.RangeMode) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<nav class="range-selector">`)
		for _, mode := range models.RangeModes {
			class := "range"
			if mode == selected {
				class += " active"
			}
			action := fmt.Sprintf("$range = '%s'; $cursor = ''; $direction = 0; @get('/sse/revenue')", mode)
			w.raw(`<button class="`, class, `" data-on:click="`, templ.EscapeString(action), `">`)
			w.text(string(mode))
			w.raw(`</button>`)
		}
		w.raw(`</nav>`)
		return w.err
	})
}

func VenueSelector(venues []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<select id="venue-select" data-bind:venue data-on:change="$cursor = ''; $direction = 0; @get('/sse/revenue')">`)
		for _, venue := range venues {
			w.raw(`<option value="`, templ.EscapeString(venue), `">`)
			w.text(venue)
			w.raw(`</option>`)
		}
		w.raw(`</select>`)
		return w.err
	})
}

// WindowHeader shows the period label between the navigation arrows.
// Arrows are disabled when the view cannot move in that direction.
func WindowHeader(view revenue.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<section id="window-header">`)
		if view.Range != models.RangeAll {
			w.raw(navButton("prev", "&lsaquo;", -1, view.CanGoPrev))
		}
		w.raw(`<span class="window-label">`)
		w.text(view.WindowLabel)
		w.raw(`</span>`)
		if view.Range != models.RangeAll {
			w.raw(navButton("next", "&rsaquo;", 1, view.CanGoNext))
		}
		w.raw(`</section>`)
		return w.err
	})
}

func navButton(class, glyph string, direction int, enabled bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<button class="nav %s" data-on:click="$direction = %d; @get('/sse/revenue')"`, class, direction)
	if !enabled {
		b.WriteString(` disabled`)
	}
	b.WriteString(`>` + glyph + `</button>`)
	return b.String()
}

func StatsPanel(view revenue.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<section id="stats-content"><dl class="stats">`)
		w.raw(`<div><dt>Total Revenue</dt><dd>`)
		w.text(revenue.FormatAmount(view.Summary.TotalRevenue))
		w.raw(`</dd></div><div><dt>Bookings</dt><dd>`)
		w.text(fmt.Sprint(view.Summary.TotalBookingCount))
		w.raw(`</dd></div><div><dt>Tournaments</dt><dd>`)
		w.text(fmt.Sprint(view.Summary.TotalTournamentCount))
		w.raw(`</dd></div><div><dt>Growth</dt><dd>`)
		w.text(view.Growth)
		w.raw(`</dd></div></dl></section>`)
		return w.err
	})
}

func DistributionTable(distribution []models.SportShare) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<section id="distribution-content">`)
		if len(distribution) == 0 {
			w.raw(`<p class="empty">No revenue in this period</p></section>`)
			return w.err
		}
		w.raw(`<table class="modern-table"><thead><tr><th>Sport</th><th>Revenue</th><th>Share</th></tr></thead><tbody>`)
		for _, s := range distribution {
			w.raw(`<tr><td>`)
			w.text(s.Name)
			w.raw(`</td><td><strong>`)
			w.text(revenue.FormatAmount(s.Value))
			w.raw(`</strong></td><td>`)
			w.text(fmt.Sprintf("%.1f%%", s.Share))
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table></section>`)
		return w.err
	})
}

// RenderString renders c into a string for SSE element patches.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
