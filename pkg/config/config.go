// Package config loads and saves the panel defaults file. The file holds
// one InitialPanelSpec per product panel; the layout store treats these
// as the reset-to-defaults baseline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/flowdeck/flowdeck/pkg/model"
)

// DataDir is the per-project directory for flowdeck state.
const DataDir = ".flowdeck"

// Config is the on-disk shape of panels.yaml.
type Config struct {
	Panels []model.InitialPanelSpec `yaml:"panels"`
}

// DefaultPath returns the panels.yaml path under dir (or the current
// directory when dir is empty).
func DefaultPath(dir string) string {
	return filepath.Join(dir, DataDir, "panels.yaml")
}

// DBPath returns the layout database path under dir.
func DBPath(dir string) string {
	return filepath.Join(dir, DataDir, "layout.db")
}

// LogPath returns the diagnostics log path under dir.
func LogPath(dir string) string {
	return filepath.Join(dir, DataDir, "flowdeck.log")
}

// Default returns the built-in panel set for the pipeline workbench.
func Default() *Config {
	return &Config{
		Panels: []model.InitialPanelSpec{
			{
				ID:           "nodeSettings",
				Title:        "Node Settings",
				Width:        42,
				DockPosition: model.DockRight,
			},
			{
				ID:             "tablePreview",
				Title:          "Table Preview",
				Height:         12,
				DockPosition:   model.DockBottom,
				Group:          "bottomPanels",
				SyncDimensions: true,
			},
			{
				ID:             "logViewer",
				Title:          "Log Viewer",
				Height:         12,
				DockPosition:   model.DockBottom,
				Group:          "bottomPanels",
				SyncDimensions: true,
			},
			{
				ID:           "codeGen",
				Title:        "Code Generator",
				Width:        64,
				Height:       20,
				DockPosition: model.DockFree,
			},
			{
				ID:           "flowResults",
				Title:        "Flow Results",
				Width:        52,
				Height:       16,
				DockPosition: model.DockFree,
			},
		},
	}
}

// Load reads a config file. A missing file yields the defaults; a
// malformed file is an error, since silently dropping the user's edits
// would be worse than refusing to start.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Panels) == 0 {
		return Default(), nil
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config, creating the data directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Panels))
	for _, p := range c.Panels {
		if p.ID == "" {
			return fmt.Errorf("panel with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate panel id %q", p.ID)
		}
		seen[p.ID] = true
		if p.DockPosition != "" && !p.DockPosition.Valid() {
			return fmt.Errorf("panel %q: unknown dock position %q", p.ID, p.DockPosition)
		}
	}
	return nil
}
