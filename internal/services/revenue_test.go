package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/revenue"
)

const sampleExport = `{"bookings": [
	{"booking_group_id": "g1", "venue_name": " Court One ", "sport": "tennis", "total_amount": 1200, "start_datetime": "2024-03-04T10:00:00Z", "type": "booking"},
	{"booking_group_id": "g2", "venue_name": "Court One", "sport": "padel", "total_amount": "800.50", "start_datetime": "2024-03-06 18:00:00", "type": "TOURNAMENT"},
	{"booking_group_id": "g3", "venue_name": "Turf", "sport": "football", "total_amount": 450, "start_datetime": "2024-02-20", "type": ""},
	{"booking_group_id": "g4", "venue_name": "Turf", "sport": "football", "total_amount": -10, "start_datetime": "2024-02-21T10:00:00Z", "type": "BOOKING"},
	{"booking_group_id": "g5", "venue_name": "Turf", "sport": "football", "total_amount": null, "start_datetime": "2024-02-21T10:00:00Z", "type": "BOOKING"},
	{"booking_group_id": "g6", "venue_name": "Turf", "sport": "football", "total_amount": "abc", "start_datetime": "2024-02-21T10:00:00Z", "type": "BOOKING"},
	{"booking_group_id": "g7", "venue_name": "Turf", "sport": "football", "total_amount": 10, "start_datetime": "next tuesday", "type": "BOOKING"},
	{"booking_group_id": "g8", "venue_name": "Turf", "sport": "football", "start_datetime": "2024-02-21T10:00:00Z", "type": "BOOKING"}
]}`

func createTempJSON(t *testing.T, dir, content string) string {
	t.Helper()
	f, err := os.CreateTemp(dir, "bookings*.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func newTestService(cacheDir string) *Revenue {
	return NewRevenue(RevenueConfig{Location: time.UTC, CacheDir: cacheDir}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewRevenue(t *testing.T) {
	s := NewRevenue(RevenueConfig{}, nil)
	if s == nil {
		t.Fatal("NewRevenue() returned nil")
	}
	if s.Location() != time.Local {
		t.Errorf("default location = %v, want Local", s.Location())
	}
	if s.logger == nil {
		t.Error("logger should be initialized")
	}
}

func TestRevenue_LoadFromJSON(t *testing.T) {
	s := newTestService("")
	file := createTempJSON(t, t.TempDir(), sampleExport)

	if err := s.LoadFromJSON(context.Background(), file); err != nil {
		t.Fatalf("LoadFromJSON() failed: %v", err)
	}

	records := s.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 valid bookings, got %d", len(records))
	}

	first := records[0]
	if first.VenueName != "Court One" {
		t.Errorf("venue name should be trimmed, got %q", first.VenueName)
	}
	if first.Category != models.CategoryBooking {
		t.Errorf("category = %q, want BOOKING", first.Category)
	}
	if !records[1].TotalAmount.Equal(decimal.RequireFromString("800.50")) {
		t.Errorf("string amounts should parse, got %s", records[1].TotalAmount)
	}
	if want := time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC); !records[1].StartDateTime.Equal(want) {
		t.Errorf("zone-less timestamp = %s, want %s", records[1].StartDateTime, want)
	}
	if want := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC); !records[2].StartDateTime.Equal(want) {
		t.Errorf("date-only timestamp = %s, want %s", records[2].StartDateTime, want)
	}

	stats := s.Stats()
	if stats["record_count"] != int64(3) {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
	if stats["records_skipped"] != int64(5) {
		t.Errorf("records_skipped = %v, want 5", stats["records_skipped"])
	}
	if stats["venues"] != 2 {
		t.Errorf("venues = %v, want 2", stats["venues"])
	}
}

func TestRevenue_LoadFromJSON_MultipleFiles(t *testing.T) {
	s := newTestService("")
	dir := t.TempDir()
	a := createTempJSON(t, dir, `{"bookings": [{"venue_name": "A", "sport": "tennis", "total_amount": 10, "start_datetime": "2024-01-01T10:00:00Z", "type": "BOOKING"}]}`)
	b := createTempJSON(t, dir, `{"bookings": [{"venue_name": "B", "sport": "squash", "total_amount": 20, "start_datetime": "2024-01-02T10:00:00Z", "type": "BOOKING"}]}`)

	if err := s.LoadFromJSON(context.Background(), a, b); err != nil {
		t.Fatalf("LoadFromJSON() failed: %v", err)
	}

	venues := s.Venues()
	if strings.Join(venues, ",") != "All Venues,A,B" {
		t.Errorf("venues = %v", venues)
	}
}

func TestRevenue_LoadFromJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		files func() []string
		want  string
	}{
		{"no files", func() []string { return nil }, "no booking files"},
		{"missing file", func() []string { return []string{filepath.Join(dir, "missing.json")} }, "read file"},
		{"malformed", func() []string { return []string{createTempJSON(t, dir, `{"bookings": [`)} }, "decode bookings"},
		{"nothing valid", func() []string {
			return []string{createTempJSON(t, dir, `{"bookings": [{"total_amount": -1, "start_datetime": "2024-01-01"}]}`)}
		}, "no valid bookings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService("")
			s.SetData([]models.BookingRecord{{VenueName: "Keep", TotalAmount: decimal.NewFromInt(1), StartDateTime: time.Now()}})

			err := s.LoadFromJSON(context.Background(), tt.files()...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.want)
			}
			if len(s.Records()) != 1 {
				t.Error("a failed load must keep the previous booking set")
			}
		})
	}
}

func TestRevenue_LoadFromJSON_Cancelled(t *testing.T) {
	s := newTestService("")
	file := createTempJSON(t, t.TempDir(), sampleExport)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.LoadFromJSON(ctx, file); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestRevenue_Cache(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	file := createTempJSON(t, dir, sampleExport)

	if err := newTestService(cacheDir).LoadFromJSON(context.Background(), file); err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	entries, err := filepath.Glob(filepath.Join(cacheDir, "*.gob"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %v (%v)", entries, err)
	}

	// Rewrite the export with an old mtime so the cache still looks fresh.
	if err := os.WriteFile(file, []byte(`{"bookings": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(file, past, past); err != nil {
		t.Fatal(err)
	}

	cached := newTestService(cacheDir)
	if err := cached.LoadFromJSON(context.Background(), file); err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if len(cached.Records()) != 3 {
		t.Errorf("expected 3 bookings from cache, got %d", len(cached.Records()))
	}

	// A newer export invalidates the cache.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(file, future, future); err != nil {
		t.Fatal(err)
	}
	if err := newTestService(cacheDir).LoadFromJSON(context.Background(), file); err == nil {
		t.Error("stale cache should be ignored and the empty export rejected")
	}
}

func TestRevenue_Reload(t *testing.T) {
	s := newTestService("")
	if err := s.Reload(context.Background()); err == nil {
		t.Error("Reload() before any load should fail")
	}

	file := createTempJSON(t, t.TempDir(), sampleExport)
	if err := s.LoadFromJSON(context.Background(), file); err != nil {
		t.Fatalf("LoadFromJSON() failed: %v", err)
	}

	extra := `{"bookings": [{"venue_name": "New", "sport": "golf", "total_amount": 5, "start_datetime": "2025-01-01T10:00:00Z", "type": "BOOKING"}]}`
	if err := os.WriteFile(file, []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if records := s.Records(); len(records) != 1 || records[0].VenueName != "New" {
		t.Errorf("Reload() should pick up the rewritten export, got %+v", records)
	}
}

func TestRevenue_View(t *testing.T) {
	s := newTestService("")
	s.SetClock(func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) })
	file := createTempJSON(t, t.TempDir(), sampleExport)
	if err := s.LoadFromJSON(context.Background(), file); err != nil {
		t.Fatalf("LoadFromJSON() failed: %v", err)
	}

	view := s.View(context.Background(), revenue.Query{Range: models.Range1M})

	if view.WindowLabel != "March 2024" {
		t.Errorf("window label = %q, want March 2024", view.WindowLabel)
	}
	if view.Summary.TotalRevenue != 2000.5 {
		t.Errorf("total revenue = %v, want 2000.5", view.Summary.TotalRevenue)
	}
	if view.Growth != "+344.6%" {
		t.Errorf("growth = %q, want +344.6%%", view.Growth)
	}

	empty := s.View(context.Background(), revenue.Query{Range: models.Range7D, Venue: "Nowhere"})
	if !empty.Cursor.Equal(s.Now()) {
		t.Errorf("venue without bookings should anchor on the clock, got %s", empty.Cursor)
	}
}

func TestRevenue_SetDataConvertsLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	s := NewRevenue(RevenueConfig{Location: ist}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.SetData([]models.BookingRecord{{StartDateTime: time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)}})

	got := s.Records()[0].StartDateTime
	if got.Location() != ist || got.Day() != 1 {
		t.Errorf("record should be expressed in IST, got %s", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-31T20:00:00Z", time.Date(2024, 2, 1, 1, 30, 0, 0, ist)},
		{"2024-02-01T01:30:00+05:30", time.Date(2024, 2, 1, 1, 30, 0, 0, ist)},
		{"2024-02-01T01:30:00", time.Date(2024, 2, 1, 1, 30, 0, 0, ist)},
		{"2024-02-01 01:30:00", time.Date(2024, 2, 1, 1, 30, 0, 0, ist)},
		{"2024-02-01T01:30", time.Date(2024, 2, 1, 1, 30, 0, 0, ist)},
		{" 2024-02-01 ", time.Date(2024, 2, 1, 0, 0, 0, 0, ist)},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in, ist)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) failed: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) || got.Location() != ist {
			t.Errorf("ParseTimestamp(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTimestamp("31/01/2024", ist); err == nil {
		t.Error("expected error for unsupported layout")
	}
}
