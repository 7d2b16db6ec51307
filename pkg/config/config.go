// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/sortdir/pkg/category"
	"github.com/walteh/sortdir/pkg/journal"
	"github.com/walteh/sortdir/pkg/notify"
	"github.com/walteh/sortdir/pkg/operation"
	"github.com/walteh/sortdir/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// ErrNoParser is returned by Load for files with an unknown extension.
var ErrNoParser = errors.New("no parser for config file")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// 🔔 NotifyConfig selects the notification channels. Desktop defaults to on;
// NtfyTimeout is a Go duration such as "5s".
type NotifyConfig struct {
	Desktop     *bool  `json:"desktop,omitempty" yaml:"desktop,omitempty" toml:"desktop,omitempty"`
	NtfyTopic   string `json:"ntfy_topic,omitempty" yaml:"ntfy_topic,omitempty" toml:"ntfy_topic,omitempty"`
	NtfyTimeout string `json:"ntfy_timeout,omitempty" yaml:"ntfy_timeout,omitempty" toml:"ntfy_timeout,omitempty"`

	timeout time.Duration
}

// 📚 Config represents the complete configuration
type Config struct {
	Categories      []category.Category `json:"categories,omitempty" yaml:"categories,omitempty" toml:"categories,omitempty"`
	Fallback        string              `json:"fallback,omitempty" yaml:"fallback,omitempty" toml:"fallback,omitempty"`
	Ignore          []string            `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore,omitempty"`
	Journal         string              `json:"journal,omitempty" yaml:"journal,omitempty" toml:"journal,omitempty"`
	CheckpointEvery int                 `json:"checkpoint_every,omitempty" yaml:"checkpoint_every,omitempty" toml:"checkpoint_every,omitempty"`
	Notify          NotifyConfig        `json:"notify,omitempty" yaml:"notify,omitempty" toml:"notify,omitempty"`

	categories *category.Map
}

// 🏭 Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: %s", ErrNoParser, path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Int("categories", len(cfg.Categories)).
		Int("ignore", len(cfg.Ignore)).
		Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	// Set defaults
	if len(cfg.Categories) == 0 {
		cfg.Categories = category.DefaultCategories()
	}
	cfg.Fallback = strings.TrimSpace(cfg.Fallback)
	if cfg.Fallback == "" {
		cfg.Fallback = category.Other
	}
	cfg.Journal = strings.TrimSpace(cfg.Journal)
	if cfg.Journal == "" {
		cfg.Journal = journal.DefaultName
	}
	if cfg.CheckpointEvery == 0 {
		cfg.CheckpointEvery = operation.DefaultCheckpointEvery
	}

	if cfg.CheckpointEvery < 0 {
		return errors.Errorf("checkpoint_every must be positive, got %d", cfg.CheckpointEvery)
	}
	if cfg.Journal != filepath.Base(cfg.Journal) {
		return errors.Errorf("journal must be a file name, got %q", cfg.Journal)
	}

	m, err := category.NewWithFallback(cfg.Categories, cfg.Fallback)
	if err != nil {
		return errors.Errorf("categories: %w", err)
	}
	cfg.categories = m

	if err := plan.ValidateIgnore(cfg.Ignore); err != nil {
		return errors.Errorf("ignore: %w", err)
	}

	cfg.Notify.NtfyTopic = strings.TrimSpace(cfg.Notify.NtfyTopic)
	cfg.Notify.timeout = 0
	if cfg.Notify.NtfyTimeout != "" {
		d, err := time.ParseDuration(cfg.Notify.NtfyTimeout)
		if err != nil {
			return errors.Errorf("notify.ntfy_timeout: %w", err)
		}
		if d < 0 {
			return errors.Errorf("notify.ntfy_timeout must not be negative, got %s", d)
		}
		cfg.Notify.timeout = d
	}

	return nil
}

// CategoryMap returns the validated category table.
func (cfg *Config) CategoryMap() *category.Map {
	if cfg.categories == nil {
		return category.Default()
	}
	return cfg.categories
}

// 🔔 NotifyOptions builds notifier options from the config
func (cfg *Config) NotifyOptions(disabled bool, console io.Writer) notify.Options {
	desktop := true
	if cfg.Notify.Desktop != nil {
		desktop = *cfg.Notify.Desktop
	}
	return notify.Options{
		Disabled:    disabled,
		Desktop:     desktop,
		NtfyTopic:   cfg.Notify.NtfyTopic,
		NtfyTimeout: cfg.Notify.timeout,
		Console:     console,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d categories (fallback %s), journal %s, %d ignore patterns",
		len(cfg.Categories), cfg.Fallback, cfg.Journal, len(cfg.Ignore))
}
