package revenue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"revenue-dashboard/internal/models"
)

func TestWindowLabel(t *testing.T) {
	tests := []struct {
		mode   models.RangeMode
		cursor string
		want   string
	}{
		{models.Range7D, "2025-01-08", "Jan 6 - Jan 12"},
		{models.Range7D, "2024-12-31", "Dec 30 - Jan 5"},
		{models.Range1M, "2024-01-15", "January 2024"},
		{models.Range3M, "2024-02-14", "Jan 2024 - Mar 2024"},
		{models.Range1Y, "2024-07-04", "2024"},
		{models.RangeAll, "2024-07-04", "All Time"},
	}

	for _, tt := range tests {
		w := ResolveWindow(tt.mode, day(tt.cursor), scenarioRecords())
		assert.Equal(t, tt.want, WindowLabel(tt.mode, w), "%s %s", tt.mode, tt.cursor)
	}
}
