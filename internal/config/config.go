// Package config loads viewer settings from the environment and an optional
// theme file discovered through XDG config paths.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	HTTPTimeout  time.Duration
	RedisTimeout time.Duration

	ExportSquareSize int

	ThemeFile string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPTimeout:      10 * time.Second,
		RedisTimeout:     5 * time.Second,
		ExportSquareSize: 72,
	}

	if v := strings.TrimSpace(os.Getenv("RC_HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("RC_HTTP_TIMEOUT must be a positive duration: %q", v)
		}
		cfg.HTTPTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("RC_REDIS_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("RC_REDIS_TIMEOUT must be a positive duration: %q", v)
		}
		cfg.RedisTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("RC_EXPORT_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 16 && n <= 256 {
			cfg.ExportSquareSize = n
		}
	}
	cfg.ThemeFile = strings.TrimSpace(os.Getenv("RC_THEME_FILE"))

	return cfg, nil
}
