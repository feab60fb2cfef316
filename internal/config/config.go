// Package config loads moxy's runtime settings from the environment using koanf.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable moxy reads.
const EnvPrefix = "MOXY_"

// Config holds the engine settings that can be changed without code.
type Config struct {
	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// Trace turns on the engine's debug trace. Without it the engine logs nowhere.
	Trace bool `koanf:"trace"`

	// StrictMatcherTypes checks explicit matcher types against parameter types.
	StrictMatcherTypes bool `koanf:"strict_matcher_types"`
}

// Defaults returns a Config with compiled default values.
func Defaults() *Config {
	return &Config{
		LogLevel:           "debug",
		LogFormat:          "text",
		Trace:              false,
		StrictMatcherTypes: true,
	}
}

// Load overlays MOXY_* environment variables on the defaults, so
// MOXY_LOG_LEVEL sets LogLevel and MOXY_TRACE sets Trace.
func Load() (*Config, error) {
	k := koanf.New(".")
	cfg := Defaults()

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// Logger builds the engine logger described by c, writing to w. It discards
// everything unless Trace is set.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if !c.Trace {
		return slog.New(slog.DiscardHandler)
	}

	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("component", "moxy"))
}
