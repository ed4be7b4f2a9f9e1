// Package browse is the interactive terminal view of the revenue pipeline.
package browse

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/report"
	"revenue-dashboard/internal/revenue"
)

type keyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Range key.Binding
	Venue key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Range, k.Venue, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.Range, k.Venue}, {k.Help, k.Quit}}
}

func defaultKeys() keyMap {
	return keyMap{
		Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Range: key.NewBinding(key.WithKeys("r", "tab"), key.WithHelp("r", "range")),
		Venue: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "venue")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model holds one browsing session over a fixed booking set.
type Model struct {
	records []models.BookingRecord
	venues  []string
	state   *revenue.State
	view    revenue.View
	now     time.Time

	keys  keyMap
	help  help.Model
	width int
}

func NewModel(records []models.BookingRecord, mode models.RangeMode, now time.Time) *Model {
	m := &Model{
		records: records,
		venues:  revenue.Venues(records),
		state:   revenue.NewState(records, mode, now),
		now:     now,
		keys:    defaultKeys(),
		help:    help.New(),
	}
	m.recompute()
	return m
}

// Current returns the revenue view on screen.
func (m *Model) Current() revenue.View {
	return m.view
}

func (m *Model) recompute() {
	m.view = revenue.Compute(m.records, m.state.Query(), m.now)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			if m.view.CanGoPrev {
				m.state.Navigate(-1)
			}
		case key.Matches(msg, m.keys.Next):
			if m.view.CanGoNext {
				m.state.Navigate(1)
			}
		case key.Matches(msg, m.keys.Range):
			m.state.SelectRange(m.records, cycle(models.RangeModes, m.state.Range), m.now)
		case key.Matches(msg, m.keys.Venue):
			m.state.SelectVenue(m.records, cycle(m.venues, m.state.Venue), m.now)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		default:
			return m, nil
		}
		m.recompute()
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		report.Render(m.view, m.width),
		"",
		m.help.View(m.keys),
	)
}

// cycle returns the element after current, wrapping around. Unknown values
// restart from the first element.
func cycle[T comparable](list []T, current T) T {
	i := slices.Index(list, current)
	return list[(i+1)%len(list)]
}
