package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
)

// FileName is the config file inside the data directory.
const FileName = "config.toml"

// DefaultPollInterval is how often `status --watch` refreshes.
const DefaultPollInterval = 30 * time.Second

// Config is the root configuration for tacho, stored in ~/.tacho/config.toml.
// Every value can be overridden with a TACHO_* environment variable.
type Config struct {
	Log     LogConfig         `toml:"log"`
	Watch   WatchConfig       `toml:"watch"`
	Metrics MetricsConfig     `toml:"metrics"`
	Limits  compliance.Limits `toml:"limits"`

	// Unknown lists keys present in the file that tacho does not recognise.
	Unknown []string `toml:"-"`
}

// LogConfig controls the diagnostic log. User-facing output is not affected.
type LogConfig struct {
	Level string `toml:"level" env:"TACHO_LOG_LEVEL" env-default:"info"`
	// File defaults to logs/tacho.log in the data directory.
	File       string `toml:"file" env:"TACHO_LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" env:"TACHO_LOG_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `toml:"max_backups" env:"TACHO_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `toml:"max_age_days" env:"TACHO_LOG_MAX_AGE_DAYS" env-default:"28"`
}

type WatchConfig struct {
	PollInterval time.Duration `toml:"poll_interval" env:"TACHO_WATCH_POLL_INTERVAL" env-default:"30s"`
}

// MetricsConfig points at a node_exporter textfile collector file. Empty
// disables metric output.
type MetricsConfig struct {
	Textfile string `toml:"textfile" env:"TACHO_METRICS_TEXTFILE"`
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# tacho configuration - ~/.tacho/config.toml
#
# All settings are optional. Uncomment a line to change it.
# Every key can also be set from the environment, e.g. TACHO_LOG_LEVEL=debug.

[log]
# Diagnostic log level: debug, info, warn, error.
# level = "info"
# Log file, rotated by size. Defaults to ~/.tacho/logs/tacho.log.
# file = ""
# max_size_mb = 10
# max_backups = 3
# max_age_days = 28

[watch]
# Refresh interval for 'tacho status --watch'.
# poll_interval = "30s"

[metrics]
# Write Prometheus gauges to this file on 'tacho snapshot', for the
# node_exporter textfile collector. Empty disables it.
# textfile = "/var/lib/node_exporter/textfile/tacho.prom"

[limits]
# Thresholds in minutes (counts for the per-week limits).
# Only change these if your regulation differs from the EU defaults.
# drive_cap = 270
# service_cap = 360
# full_break = 45
# partial_break = 30
# split_first_part = 15
# daily_drive = 540
# max_amplitude = 780
# weekly_drive = 3360
# biweekly_drive = 5400
# max_drive_extensions = 2
# max_reduced_rests = 3
# break_warning = 30
`

// Load reads config.toml from base, creating it with annotated defaults on
// first run, then applies environment overrides and fills defaults.
func Load(base string) (Config, error) {
	path := filepath.Join(base, FileName)

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return defaults(Config{}, base), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	default:
		for _, key := range md.Undecoded() {
			cfg.Unknown = append(cfg.Unknown, key.String())
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return defaults(Config{}, base), fmt.Errorf("reading environment overrides: %w", err)
	}
	return defaults(cfg, base), nil
}

// defaults fills values that neither the file nor the environment set.
func defaults(cfg Config, base string) Config {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(base, "logs", "tacho.log")
	}
	if cfg.Watch.PollInterval <= 0 {
		cfg.Watch.PollInterval = DefaultPollInterval
	}
	cfg.Limits = cfg.Limits.WithDefaults()
	return cfg
}

// writeDefault creates the data directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
