package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default bump sizes used by the risk measures when none is given.
const (
	DefaultBumpBP    = 1.0
	DefaultFXBumpPct = 0.01
)

// Environment variables read by ApplyEnv.
const (
	EnvBumpBP       = "PRICING_BUMP_BP"
	EnvFXBumpPct    = "PRICING_FX_BUMP_PCT"
	EnvBatchWorkers = "PRICING_BATCH_WORKERS"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
	EnvRedisAddr    = "REDIS_ADDR"
	EnvMetricsAddr  = "METRICS_ADDR"
)

// Config holds engine-wide parameters.
type Config struct {
	// BumpBP is the parallel curve shift for PV01 and CS01, in basis points.
	BumpBP float64 `yaml:"bump_bp"`

	// FXBumpPct is the relative spot bump for FX delta (0.01 == 1%).
	FXBumpPct float64 `yaml:"fx_bump_pct"`

	// BatchWorkers bounds concurrent valuations in batch pricing. 0 means one per CPU.
	BatchWorkers int `yaml:"batch_workers"`

	Log   LogConfig   `yaml:"log"`
	Redis RedisConfig `yaml:"redis"`

	// MetricsAddr is the listen address for /metrics; empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Output    string `yaml:"output"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// RedisConfig locates the curve update streams.
type RedisConfig struct {
	Addr         string `yaml:"addr"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	StreamPrefix string `yaml:"stream_prefix"`
}

// DefaultConfig provides the values used when nothing is configured.
var DefaultConfig = Config{
	BumpBP:       DefaultBumpBP,
	FXBumpPct:    DefaultFXBumpPct,
	BatchWorkers: 0,
	Log: LogConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	},
	Redis: RedisConfig{
		Addr:         "localhost:6379",
		StreamPrefix: "curve_updates:",
	},
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration. Call it during startup, before pricing begins.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}

// Load reads a YAML file over DefaultConfig and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	c := DefaultConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("cannot read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("cannot parse YAML: %w", err)
		}
	}
	if err := c.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup(EnvBumpBP); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ApplyEnv: %s: %w", EnvBumpBP, err)
		}
		c.BumpBP = f
	}
	if v, ok := lookup(EnvFXBumpPct); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ApplyEnv: %s: %w", EnvFXBumpPct, err)
		}
		c.FXBumpPct = f
	}
	if v, ok := lookup(EnvBatchWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ApplyEnv: %s: %w", EnvBatchWorkers, err)
		}
		c.BatchWorkers = n
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvRedisAddr); ok {
		c.Redis.Addr = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
	return nil
}

// Validate rejects bump sizes and worker counts that cannot be used.
func (c Config) Validate() error {
	if c.BumpBP <= 0 {
		return fmt.Errorf("config: bump_bp must be positive, got %g", c.BumpBP)
	}
	if c.FXBumpPct <= 0 {
		return fmt.Errorf("config: fx_bump_pct must be positive, got %g", c.FXBumpPct)
	}
	if c.BatchWorkers < 0 {
		return fmt.Errorf("config: batch_workers must be >= 0, got %d", c.BatchWorkers)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
