// Package main provides the revenue command line: one-shot reports, venue
// listing and an interactive browser over booking exports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"revenue-dashboard/internal/browse"
	"revenue-dashboard/internal/config"
	"revenue-dashboard/internal/models"
	"revenue-dashboard/internal/observability"
	"revenue-dashboard/internal/report"
	"revenue-dashboard/internal/revenue"
	"revenue-dashboard/internal/services"
)

type options struct {
	files     []string
	timezone  string
	rangeMode string
	venue     string
	cursor    string
	direction int
	format    string
	width     int
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "revenue",
		Short:         "Revenue windows and breakdowns from booking exports",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringSliceVarP(&opts.files, "file", "f", nil, "booking export JSON file (repeatable, default from BOOKING_FILES)")
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "timezone", "", "IANA time zone for calendar windows (default from DASHBOARD_TIMEZONE)")
	rootCmd.PersistentFlags().StringVarP(&opts.rangeMode, "range", "r", "", "range: 7D, 1M, 3M, 1Y or ALL (default from DASHBOARD_DEFAULT_RANGE)")

	rootCmd.AddCommand(newReportCmd(opts))
	rootCmd.AddCommand(newVenuesCmd(opts))
	rootCmd.AddCommand(newBrowseCmd(opts))

	return rootCmd
}

func newReportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the revenue view for one window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.venue, "venue", revenue.AllVenues, "venue to report on")
	cmd.Flags().StringVar(&opts.cursor, "cursor", "", "anchor date (YYYY-MM-DD or RFC 3339), default latest booking")
	cmd.Flags().IntVar(&opts.direction, "direction", 0, "step the window before reporting: -1 previous, 1 next")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text or json")
	cmd.Flags().IntVar(&opts.width, "width", 120, "terminal width for text output")
	return cmd
}

func newVenuesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "venues",
		Short: "List venues found in the booking exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _, err := load(cmd, opts)
			if err != nil {
				return err
			}
			for _, v := range source.Venues() {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse revenue windows interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, mode, err := load(cmd, opts)
			if err != nil {
				return err
			}
			model := browse.NewModel(source.Records(), mode, source.Now())
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run browser: %w", err)
			}
			return nil
		},
	}
}

func runReport(cmd *cobra.Command, opts *options) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("invalid format %q, must be text or json", opts.format)
	}
	if opts.direction < -1 || opts.direction > 1 {
		return fmt.Errorf("invalid direction %d, must be -1, 0 or 1", opts.direction)
	}

	source, mode, err := load(cmd, opts)
	if err != nil {
		return err
	}

	q := revenue.Query{Range: mode, Venue: opts.venue, Direction: opts.direction}
	if opts.cursor != "" {
		cursor, err := services.ParseTimestamp(opts.cursor, source.Location())
		if err != nil {
			return fmt.Errorf("invalid cursor: %w", err)
		}
		q.Cursor = &cursor
	}

	view := source.View(cmd.Context(), q)

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	_, err = fmt.Fprintln(out, report.Render(view, opts.width))
	return err
}

// load resolves configuration with flags taking precedence and reads the
// booking exports. Logs go to stderr so stdout carries only output.
func load(cmd *cobra.Command, opts *options) (*services.Revenue, models.RangeMode, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if len(opts.files) > 0 {
		cfg.Data.BookingFiles = opts.files
	}
	if opts.timezone != "" {
		cfg.Data.Timezone = opts.timezone
	}

	mode := cfg.DefaultRange()
	if opts.rangeMode != "" {
		mode, err = models.ParseRangeMode(opts.rangeMode)
		if err != nil {
			return nil, "", err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, "", err
	}

	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), config.LoggerConfig{Level: "warn", Format: "text"})
	if cfg.Logger.Level == "debug" {
		logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logger)
	}
	slog.SetDefault(logger)

	source := services.NewRevenue(services.RevenueConfig{Location: loc, CacheDir: cfg.Data.CacheDir}, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Data.LoadTimeout)
	defer cancel()
	if err := source.LoadFromJSON(ctx, cfg.Data.BookingFiles...); err != nil {
		return nil, "", fmt.Errorf("failed to load bookings: %w", err)
	}
	return source, mode, nil
}
