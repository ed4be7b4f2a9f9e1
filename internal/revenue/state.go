package revenue

import (
	"time"

	"revenue-dashboard/internal/models"
)

// State is the selection a single dashboard session holds between
// recomputations. Changing the range or the venue snaps the cursor back to
// the latest booking; only Navigate moves it otherwise.
type State struct {
	Range  models.RangeMode
	Venue  string
	Cursor time.Time
}

func NewState(records []models.BookingRecord, mode models.RangeMode, now time.Time) *State {
	s := &State{Range: mode, Venue: AllVenues}
	s.snap(records, now)
	return s
}

func (s *State) SelectRange(records []models.BookingRecord, mode models.RangeMode, now time.Time) {
	s.Range = mode
	s.snap(records, now)
}

func (s *State) SelectVenue(records []models.BookingRecord, venue string, now time.Time) {
	if venue == "" {
		venue = AllVenues
	}
	s.Venue = venue
	s.snap(records, now)
}

func (s *State) Navigate(direction int) {
	s.Cursor = Navigate(s.Range, s.Cursor, direction)
}

// Query returns the pipeline input for the current selection.
func (s *State) Query() Query {
	cursor := s.Cursor
	return Query{Range: s.Range, Venue: s.Venue, Cursor: &cursor}
}

func (s *State) snap(records []models.BookingRecord, now time.Time) {
	s.Cursor = SnapCursor(FilterByVenue(records, s.Venue), now)
}
