package config

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	"github.com/reoring/protopatch"
)

// Config holds runtime configuration for the protopatch CLI.
// Values are populated from .protopatch.yaml, PROTOPATCH_* env vars, and CLI flags.
type Config struct {
	PatchDirs        []string `mapstructure:"patch_dirs"`
	Content          string   `mapstructure:"content"`
	LogLevel         string   `mapstructure:"log_level"`
	StrictDuplicates bool     `mapstructure:"strict_duplicates"`
	MaxDepth         int      `mapstructure:"max_depth"`
	MaxBytes         int64    `mapstructure:"max_bytes"`
	Color            string   `mapstructure:"color"`
	Language         string   `mapstructure:"language"`
	FailFast         bool     `mapstructure:"fail_fast"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("patch_dirs", []string{"patches"})
	viper.SetDefault("content", "content.yaml")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("strict_duplicates", false)
	viper.SetDefault("max_depth", 64)
	viper.SetDefault("max_bytes", int64(8<<20))
	viper.SetDefault("color", "auto")
	viper.SetDefault("language", "en")
	viper.SetDefault("fail_fast", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if hclog.LevelFromString(cfg.LogLevel) == hclog.NoLevel {
		return Config{}, fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return Config{}, fmt.Errorf("invalid color %q (want auto, always or never)", cfg.Color)
	}
	if cfg.MaxDepth < 0 || cfg.MaxBytes < 0 {
		return Config{}, fmt.Errorf("max_depth and max_bytes must not be negative")
	}
	return cfg, nil
}

// LoadOpt maps the configuration onto patch loading options.
func (c Config) LoadOpt() protopatch.LoadOpt {
	dup := protopatch.Warn
	if c.StrictDuplicates {
		dup = protopatch.Error
	}
	return protopatch.LoadOpt{
		Strictness: protopatch.Strictness{OnDuplicateKey: dup},
		MaxDepth:   c.MaxDepth,
		MaxBytes:   c.MaxBytes,
		FailFast:   c.FailFast,
	}
}

// Logger builds the CLI logger writing to w.
func (c Config) Logger(w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "protopatch",
		Level:  hclog.LevelFromString(c.LogLevel),
		Output: w,
	})
}
