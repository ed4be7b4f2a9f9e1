package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"revenue-dashboard/internal/models"
)

type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Dashboard DashboardConfig
	Logger    LoggerConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DataConfig struct {
	BookingFiles []string
	CacheDir     string
	Timezone     string
	LoadTimeout  time.Duration
}

type DashboardConfig struct {
	DefaultRange string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

// Load reads configuration from an optional .env file (ENV_FILE, default
// ".env"), the process environment and finally the TOML file named by
// CONFIG_FILE, each layer overriding the previous one. Malformed values are
// reported together with the validation problems.
func Load() (*Config, error) {
	if err := loadDotEnv(envOr("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	env := &envReader{}
	cfg := &Config{
		Server:    env.server(),
		Data:      env.data(),
		Dashboard: DashboardConfig{DefaultRange: env.str("DASHBOARD_DEFAULT_RANGE", string(models.Range7D))},
		Logger: LoggerConfig{
			Level:  strings.ToLower(env.str("LOG_LEVEL", "info")),
			Format: strings.ToLower(env.str("LOG_FORMAT", "json")),
		},
		Security: env.security(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.apply(fileCfg)
	}

	if err := errors.Join(append(env.errs, cfg.problems()...)...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func (r *envReader) server() ServerConfig {
	return ServerConfig{
		Host:            r.str("SERVER_HOST", "localhost"),
		Port:            lookup(r, "SERVER_PORT", 8084, strconv.Atoi),
		ReadTimeout:     lookup(r, "SERVER_READ_TIMEOUT", 10*time.Second, time.ParseDuration),
		WriteTimeout:    lookup(r, "SERVER_WRITE_TIMEOUT", 10*time.Second, time.ParseDuration),
		IdleTimeout:     lookup(r, "SERVER_IDLE_TIMEOUT", 60*time.Second, time.ParseDuration),
		ShutdownTimeout: lookup(r, "SERVER_SHUTDOWN_TIMEOUT", 30*time.Second, time.ParseDuration),
	}
}

func (r *envReader) data() DataConfig {
	return DataConfig{
		BookingFiles: r.list("BOOKING_FILES", []string{"revenue.json"}),
		CacheDir:     r.str("CACHE_DIR", ".cache"),
		Timezone:     r.str("DASHBOARD_TIMEZONE", "Local"),
		LoadTimeout:  lookup(r, "DATA_LOAD_TIMEOUT", 30*time.Second, time.ParseDuration),
	}
}

func (r *envReader) security() SecurityConfig {
	return SecurityConfig{
		EnableRateLimit: lookup(r, "SECURITY_RATE_LIMIT_ENABLED", true, strconv.ParseBool),
		RateLimitRPS:    lookup(r, "SECURITY_RATE_LIMIT_RPS", 100, strconv.Atoi),
		RateLimitBurst:  lookup(r, "SECURITY_RATE_LIMIT_BURST", 10, strconv.Atoi),
		AllowedOrigins:  r.list("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
		TrustedProxies:  r.list("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
	}
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// problems lists every invalid setting rather than stopping at the first.
func (c *Config) problems() []error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Port >= 1 && c.Server.Port <= 65535, "server port must be between 1 and 65535, got %d", c.Server.Port)
	check(c.Server.ReadTimeout > 0, "server read timeout must be positive")
	check(c.Server.WriteTimeout > 0, "server write timeout must be positive")
	check(len(c.Data.BookingFiles) > 0, "at least one booking file is required")
	check(c.Data.LoadTimeout > 0, "data load timeout must be positive")
	check(slices.Contains(logLevels, c.Logger.Level), "invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(logLevels, ", "))
	check(slices.Contains(logFormats, c.Logger.Format), "invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(logFormats, ", "))
	check(c.Security.RateLimitRPS > 0, "rate limit RPS must be positive")
	check(c.Security.RateLimitBurst > 0, "rate limit burst must be positive")

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := models.ParseRangeMode(c.Dashboard.DefaultRange); err != nil {
		errs = append(errs, fmt.Errorf("default range: %w", err))
	}
	return errs
}

// Location resolves the dashboard time zone that calendar windows use.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Data.Timezone, err)
	}
	return loc, nil
}

// DefaultRange is the range a fresh dashboard opens with.
func (c *Config) DefaultRange() models.RangeMode {
	mode, err := models.ParseRangeMode(c.Dashboard.DefaultRange)
	if err != nil {
		return models.Range7D
	}
	return mode
}

func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// envReader collects parse failures so Load can report them all at once.
type envReader struct {
	errs []error
}

func lookup[T any](r *envReader, key string, fallback T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s=%q: %w", key, raw, err))
		return fallback
	}
	return v
}

func (r *envReader) str(key, fallback string) string {
	return envOr(key, fallback)
}

func (r *envReader) list(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
