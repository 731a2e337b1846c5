package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".lyrics-scraper"

//go:embed config/settings.yaml
var defaultSettings string

// ConfigOverrides allows overriding settings from the command line
type ConfigOverrides struct {
	SettingsPath *string
	TablePath    *string
	Delay        *time.Duration
}

// SiteSettings describes the lyrics site and how to find lyrics in its pages
type SiteSettings struct {
	BaseURL        string        `yaml:"base_url"`
	Locator        string        `yaml:"locator"`
	StartMarker    string        `yaml:"start_marker"`
	EndMarker      string        `yaml:"end_marker"`
	Selector       string        `yaml:"selector"`
	UserAgent      string        `yaml:"user_agent"`
	Timeout        time.Duration `yaml:"timeout"`
	ArtistPrefixes []string      `yaml:"artist_prefixes"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	Artist          string            `yaml:"artist"`
	TablePath       string            `yaml:"table_path"`
	Encoding        string            `yaml:"encoding"`
	Delay           time.Duration     `yaml:"delay"`
	CheckpointEvery int               `yaml:"checkpoint_every"`
	Site            SiteSettings      `yaml:"site"`
	Aliases         map[string]string `yaml:"aliases"`
}

// AliasTable returns the configured title aliases
func (s *Settings) AliasTable() AliasTable {
	if s.Aliases == nil {
		return DefaultAliases()
	}
	return AliasTable(s.Aliases)
}

// GetConfigPath returns the full path to a config file
func GetConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// LoadConfig resolves the settings file, applies environment and flag
// overrides and validates the result.
func LoadConfig(overrides *ConfigOverrides) (*Settings, error) {
	var (
		settings *Settings
		err      error
	)

	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
	} else {
		if err := ensureConfigExists(); err != nil {
			return nil, fmt.Errorf("ensuring config files exist: %w", err)
		}
		settings, err = loadSettings(GetConfigPath("settings.yaml"))
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if err := applyEnv(settings); err != nil {
		return nil, err
	}

	if overrides != nil {
		if overrides.TablePath != nil && *overrides.TablePath != "" {
			settings.TablePath = *overrides.TablePath
		}
		if overrides.Delay != nil {
			settings.Delay = *overrides.Delay
		}
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// parseDefaultSettings returns the embedded defaults
func parseDefaultSettings() (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("parsing embedded settings: %w", err)
	}
	return &settings, nil
}

// loadSettings overlays the file at path on the embedded defaults. A missing
// file yields the defaults.
func loadSettings(path string) (*Settings, error) {
	settings, err := parseDefaultSettings()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML %s: %w", path, err)
	}

	// An aliases key replaces the default table instead of merging into it
	var file struct {
		Aliases map[string]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing settings YAML %s: %w", path, err)
	}
	if file.Aliases != nil {
		settings.Aliases = file.Aliases
	}
	return settings, nil
}

func loadSettingsRequired(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	return loadSettings(path)
}

// applyEnv applies LYRICS_* environment overrides
func applyEnv(settings *Settings) error {
	if v := os.Getenv("LYRICS_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing LYRICS_DELAY %q: %w", v, err)
		}
		settings.Delay = d
	}
	if v := os.Getenv("LYRICS_TABLE"); v != "" {
		settings.TablePath = v
	}
	if v := os.Getenv("LYRICS_ARTIST"); v != "" {
		settings.Artist = v
	}
	return nil
}

func (s *Settings) validate() error {
	if s.Artist == "" {
		return fmt.Errorf("settings: artist is required")
	}
	if s.TablePath == "" {
		return fmt.Errorf("settings: table_path is required")
	}
	if s.Site.BaseURL == "" {
		return fmt.Errorf("settings: site.base_url is required")
	}

	switch strings.ToLower(s.Encoding) {
	case "", "utf-8", "utf8":
		s.Encoding = "utf-8"
	case "latin1", "latin-1", "iso-8859-1":
		s.Encoding = "latin1"
	default:
		return fmt.Errorf("settings: unsupported encoding %q", s.Encoding)
	}

	if s.Delay < 0 {
		logrus.Warnf("delay is %s, using 0", s.Delay)
		s.Delay = 0
	}
	if s.CheckpointEvery < 1 {
		logrus.Warnf("checkpoint_every is %d, defaulting to 1", s.CheckpointEvery)
		s.CheckpointEvery = 1
	}
	if s.Site.Timeout <= 0 {
		s.Site.Timeout = 30 * time.Second
	}
	return nil
}

// ensureConfigExists creates the config directory and default settings
// if they don't exist
func ensureConfigExists() error {
	if _, err := os.Stat(defaultConfigDir); os.IsNotExist(err) {
		if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	settingsPath := GetConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("failed to write default settings: %w", err)
		}
	}

	return nil
}
