package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig is the optional TOML overlay. Unset keys leave the
// environment-derived values alone.
type FileConfig struct {
	Dashboard DashboardFileConfig `toml:"dashboard"`
	Data      DataFileConfig      `toml:"data"`
	Log       LogFileConfig       `toml:"log"`
}

type DashboardFileConfig struct {
	DefaultRange *string `toml:"default-range"`
}

type DataFileConfig struct {
	BookingFiles []string `toml:"booking-files"`
	CacheDir     *string  `toml:"cache-dir"`
	Timezone     *string  `toml:"timezone"`
}

type LogFileConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (c *Config) apply(f FileConfig) {
	applyString(&c.Dashboard.DefaultRange, f.Dashboard.DefaultRange)
	applyString(&c.Data.CacheDir, f.Data.CacheDir)
	applyString(&c.Data.Timezone, f.Data.Timezone)
	applyString(&c.Logger.Level, f.Log.Level)
	applyString(&c.Logger.Format, f.Log.Format)
	if len(f.Data.BookingFiles) > 0 {
		c.Data.BookingFiles = f.Data.BookingFiles
	}
}

func applyString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}
