// Package config loads settings from a YAML file, RECALLBOX_ environment
// variables, and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// AI identifies the provider used for card and insight generation. It is
// handed to the generation capabilities per call, never read from global
// state.
type AI struct {
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
}

// Review holds the daily selection policy overrides.
type Review struct {
	MaxDaily int `koanf:"max_daily" validate:"gte=1"`
	MinDaily int `koanf:"min_daily" validate:"gte=0,ltefield=MaxDaily"`
}

// Config is the application configuration.
type Config struct {
	DBPath     string `koanf:"db_path" validate:"required"`
	Review     Review `koanf:"review"`
	AI         AI     `koanf:"ai"`
	NotifyHour int    `koanf:"notify_hour" validate:"gte=0,lte=23"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath:     filepath.Join(home, ".recallbox", "recallbox.db"),
		Review:     Review{MaxDaily: 8, MinDaily: 3},
		NotifyHour: 9,
	}
}

// Load layers the config file (if present), environment, and flags over
// the defaults and validates the result. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	// RECALLBOX_AI_API_KEY -> ai.api_key
	err := k.Load(env.Provider("RECALLBOX_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "RECALLBOX_"))
		key = strings.Replace(key, "ai_", "ai.", 1)
		key = strings.Replace(key, "review_", "review.", 1)
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if flags != nil {
		// Flag names are flat; map them onto the nested config keys.
		renames := map[string]string{
			"db":          "db_path",
			"max-daily":   "review.max_daily",
			"min-daily":   "review.min_daily",
			"provider":    "ai.provider",
			"model":       "ai.model",
			"api-key":     "ai.api_key",
			"notify-hour": "notify_hour",
		}
		p := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, interface{}) {
			// Unset string flags must not blank out file or default values.
			if mapped, ok := renames[key]; ok && value != "" {
				return mapped, value
			}
			return "", nil // ignore flags that are not config keys
		})
		if err := k.Load(p, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
