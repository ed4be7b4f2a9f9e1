package services

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/observability"
	"revenue-dashboard/internal/revenue"
)

const (
	maxWorkers   = 10
	cacheVersion = "v1"
)

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

type RevenueConfig struct {
	Location *time.Location
	CacheDir string
}

type Revenue struct {
	mu       sync.RWMutex
	records  []models.BookingRecord
	files    []string
	loadedAt time.Time

	recordsLoaded  atomic.Int64
	recordsSkipped atomic.Int64

	loc      *time.Location
	cacheDir string
	now      func() time.Time
	logger   *slog.Logger
}

func NewRevenue(cfg RevenueConfig, logger *slog.Logger) *Revenue {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Revenue{
		loc:      cfg.Location,
		cacheDir: cfg.CacheDir,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the clock used when a venue has no bookings to snap to.
func (s *Revenue) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Revenue) Location() *time.Location {
	return s.loc
}

// SetData replaces the booking set without touching the file list.
func (s *Revenue) SetData(records []models.BookingRecord) {
	data := make([]models.BookingRecord, len(records))
	for i, r := range records {
		r.StartDateTime = r.StartDateTime.In(s.loc)
		data[i] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = data
	s.loadedAt = time.Now()
	s.recordsLoaded.Store(int64(len(data)))
}

// LoadFromJSON reads every booking export concurrently and swaps the result
// in only when all files loaded.
func (s *Revenue) LoadFromJSON(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return fmt.Errorf("no booking files given")
	}

	start := time.Now()
	results := make([][]models.BookingRecord, len(files))
	var skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i, file := range files {
		g.Go(func() error {
			records, dropped, err := s.loadFile(gctx, file)
			if err != nil {
				return fmt.Errorf("load %s: %w", file, err)
			}
			results[i] = records
			skipped.Add(int64(dropped))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var all []models.BookingRecord
	for _, records := range results {
		all = append(all, records...)
	}

	s.mu.Lock()
	s.records = all
	s.files = append([]string(nil), files...)
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.recordsLoaded.Store(int64(len(all)))
	s.recordsSkipped.Store(skipped.Load())

	duration := time.Since(start)
	s.logger.Info("booking load complete",
		"files", len(files),
		"records", len(all),
		"skipped", skipped.Load(),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(all))/duration.Seconds()))

	return nil
}

// Reload re-reads the files of the last successful load.
func (s *Revenue) Reload(ctx context.Context) error {
	s.mu.RLock()
	files := append([]string(nil), s.files...)
	s.mu.RUnlock()

	if len(files) == 0 {
		return fmt.Errorf("nothing to reload")
	}
	return s.LoadFromJSON(ctx, files...)
}

func (s *Revenue) loadFile(ctx context.Context, filename string) ([]models.BookingRecord, int, error) {
	if cached, err := s.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LastModified) && cached.Location == s.loc.String() {
			for i := range cached.Records {
				cached.Records[i].StartDateTime = cached.Records[i].StartDateTime.In(s.loc)
			}
			s.logger.Debug("loaded bookings from cache", "file", filename, "records", len(cached.Records))
			return cached.Records, cached.Skipped, nil
		}
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("read file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	records, skipped, err := parseBookingExport(data, s.loc)
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		s.logger.Warn("skipped invalid bookings", "file", filename, "skipped", skipped)
	}

	if err := s.saveToCache(filename, cachedExport{
		Records:      records,
		Skipped:      skipped,
		Location:     s.loc.String(),
		LastModified: time.Now(),
	}); err != nil {
		s.logger.Warn("failed to save cache", "file", filename, "error", err)
	}

	return records, skipped, nil
}

type bookingExport struct {
	Bookings []bookingEntry `json:"bookings"`
}

type bookingEntry struct {
	BookingGroupID string          `json:"booking_group_id"`
	VenueName      string          `json:"venue_name"`
	Sport          string          `json:"sport"`
	TotalAmount    json.RawMessage `json:"total_amount"`
	StartDateTime  string          `json:"start_datetime"`
	Type           string          `json:"type"`
}

func parseBookingExport(data []byte, loc *time.Location) ([]models.BookingRecord, int, error) {
	var export bookingExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, 0, fmt.Errorf("decode bookings: %w", err)
	}

	records := make([]models.BookingRecord, 0, len(export.Bookings))
	skipped := 0
	for _, entry := range export.Bookings {
		record, err := entry.toRecord(loc)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, skipped, fmt.Errorf("no valid bookings found")
	}
	return records, skipped, nil
}

func (e bookingEntry) toRecord(loc *time.Location) (models.BookingRecord, error) {
	if raw := bytes.TrimSpace(e.TotalAmount); len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return models.BookingRecord{}, fmt.Errorf("missing total_amount")
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(e.TotalAmount); err != nil {
		return models.BookingRecord{}, fmt.Errorf("parse total_amount: %w", err)
	}
	if amount.IsNegative() {
		return models.BookingRecord{}, fmt.Errorf("negative total_amount %s", amount)
	}

	startAt, err := ParseTimestamp(e.StartDateTime, loc)
	if err != nil {
		return models.BookingRecord{}, err
	}

	return models.BookingRecord{
		ID:            e.BookingGroupID,
		VenueName:     strings.TrimSpace(e.VenueName),
		Sport:         strings.TrimSpace(e.Sport),
		TotalAmount:   amount,
		StartDateTime: startAt,
		Category:      models.Category(strings.ToUpper(strings.TrimSpace(e.Type))),
	}, nil
}

// ParseTimestamp accepts RFC 3339 or a zone-less layout read in loc. The
// result is always expressed in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// View runs the revenue pipeline over the current booking set.
func (s *Revenue) View(ctx context.Context, q revenue.Query) revenue.View {
	_, span := observability.StartSpan(ctx, "revenue.compute")
	span.SetTag("range", string(q.Range))
	span.SetTag("venue", q.Venue)
	defer func() {
		span.Finish()
		s.logger.Debug("span finished", "span", span)
	}()

	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	return revenue.Compute(records, q, s.Now())
}

// Records returns a copy of the current booking set.
func (s *Revenue) Records() []models.BookingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.BookingRecord(nil), s.records...)
}

// Now is the service clock in the configured location.
func (s *Revenue) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Revenue) Venues() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return revenue.Venues(s.records)
}

// Utility method for monitoring
func (s *Revenue) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"record_count":    s.recordsLoaded.Load(),
		"records_skipped": s.recordsSkipped.Load(),
		"files":           len(s.files),
		"last_loaded":     s.loadedAt,
		"venues":          len(revenue.Venues(s.records)) - 1,
		"timezone":        s.loc.String(),
	}
	if len(s.records) > 0 {
		stats["earliest_booking"] = revenue.EarliestTimestamp(s.records, time.Time{})
		stats["latest_booking"] = revenue.LatestTimestamp(s.records, time.Time{})
	}
	return stats
}

type cachedExport struct {
	Records      []models.BookingRecord
	Skipped      int
	Location     string
	LastModified time.Time
}

func (s *Revenue) getCacheFilename(path string) string {
	return filepath.Join(s.cacheDir, fmt.Sprintf("%s_%s.gob", strings.ReplaceAll(path, string(filepath.Separator), "_"), cacheVersion))
}

func (s *Revenue) saveToCache(path string, data cachedExport) error {
	if s.cacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(s.getCacheFilename(path))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(data)
}

func (s *Revenue) loadFromCache(path string) (*cachedExport, error) {
	if s.cacheDir == "" {
		return nil, os.ErrNotExist
	}

	file, err := os.Open(s.getCacheFilename(path))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data cachedExport
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
