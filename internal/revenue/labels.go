package revenue

import (
	"strconv"

	"revenue-dashboard/internal/models"
)

// WindowLabel is the heading shown between the navigation arrows.
func WindowLabel(mode models.RangeMode, window models.DateWindow) string {
	switch mode {
	case models.Range7D:
		return window.Start.Format("Jan 2") + " - " + window.End.Format("Jan 2")
	case models.Range1M:
		return window.Start.Format("January 2006")
	case models.Range3M:
		return window.Start.Format("Jan 2006") + " - " + window.End.Format("Jan 2006")
	case models.Range1Y:
		return strconv.Itoa(window.Start.Year())
	default:
		return "All Time"
	}
}
