// Package config loads tickwise settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/metrics"
)

// Config is the root configuration.
type Config struct {
	Chart   ChartConfig   `mapstructure:"chart"`
	Storage StorageConfig `mapstructure:"storage"`
	Legend  LegendConfig  `mapstructure:"legend"`
	Log     LogConfig     `mapstructure:"log"`
	Debug   bool          `mapstructure:"debug"`
}

// ChartConfig controls chart rendering.
type ChartConfig struct {
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	Ticks     int     `mapstructure:"ticks"`
	Window    string  `mapstructure:"window"`
	Precision int     `mapstructure:"precision"`
	Smoothing float64 `mapstructure:"smoothing"` // EWMA age in samples, 0 disables
	Unit      string  `mapstructure:"unit"`      // forced axis unit, "auto" selects one
}

// StorageConfig locates the series database.
type StorageConfig struct {
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// LegendConfig lists series hidden by default.
type LegendConfig struct {
	Hidden []string `mapstructure:"hidden"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// TimeWindow returns the parsed chart window.
func (c ChartConfig) TimeWindow() metrics.TimeWindow {
	tw, _ := metrics.ParseTimeWindow(c.Window)
	return tw
}

// AxisUnit returns the parsed forced unit, or axis.UnitAuto.
func (c ChartConfig) AxisUnit() axis.Unit {
	u, _ := axis.ParseUnit(c.Unit)
	return u
}

// Legend builds the initial legend selection from the hidden list.
func (c LegendConfig) Legend() axis.Legend {
	return axis.Hidden(c.Hidden...)
}

// DefaultDir returns ~/.config/tickwise.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tickwise")
	}
	return filepath.Join(home, ".config", "tickwise")
}

// Load reads config.yaml from the default locations.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath reads configuration from configPath, or from the default
// search path when it is empty. A missing default file is not an error.
func LoadFromPath(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("TICKWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig checks value ranges and enumerations.
func ValidateConfig(cfg *Config) error {
	if cfg.Chart.Width < 20 {
		return fmt.Errorf("chart.width must be >= 20, got %d", cfg.Chart.Width)
	}
	if cfg.Chart.Height < 3 {
		return fmt.Errorf("chart.height must be >= 3, got %d", cfg.Chart.Height)
	}
	if cfg.Chart.Ticks < 2 || cfg.Chart.Ticks > 20 {
		return fmt.Errorf("chart.ticks must be between 2 and 20, got %d", cfg.Chart.Ticks)
	}
	if _, err := metrics.ParseTimeWindow(cfg.Chart.Window); err != nil {
		return fmt.Errorf("chart.window: %w", err)
	}
	if cfg.Chart.Precision < 0 || cfg.Chart.Precision > 6 {
		return fmt.Errorf("chart.precision must be between 0 and 6, got %d", cfg.Chart.Precision)
	}
	if cfg.Chart.Smoothing != 0 && cfg.Chart.Smoothing < 1 {
		return fmt.Errorf("chart.smoothing must be 0 or >= 1, got %g", cfg.Chart.Smoothing)
	}
	if _, err := axis.ParseUnit(cfg.Chart.Unit); err != nil {
		return fmt.Errorf("chart.unit: %w", err)
	}

	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}
	if cfg.Storage.RetentionDays < 1 {
		return fmt.Errorf("storage.retention_days must be >= 1, got %d", cfg.Storage.RetentionDays)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	for _, level := range validLevels {
		if strings.EqualFold(cfg.Log.Level, level) {
			return nil
		}
	}
	return fmt.Errorf("log.level must be one of: %v, got %s", validLevels, cfg.Log.Level)
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("chart.width", 80)
	v.SetDefault("chart.height", 12)
	v.SetDefault("chart.ticks", 5)
	v.SetDefault("chart.window", "1h")
	v.SetDefault("chart.precision", 1)
	v.SetDefault("chart.smoothing", 0)
	v.SetDefault("chart.unit", "auto")

	v.SetDefault("storage.path", filepath.Join(DefaultDir(), "tickwise.db"))
	v.SetDefault("storage.retention_days", 7)

	v.SetDefault("legend.hidden", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")

	v.SetDefault("debug", false)
}

// expandPath expands a leading ~/ to the home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
