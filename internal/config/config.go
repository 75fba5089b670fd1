// Package config loads and persists the global plexify configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"github.com/mydehq/plexify/internal/formatter"
	"github.com/mydehq/plexify/internal/scan"
	"github.com/mydehq/plexify/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "plexify"
	configFileName = "config.yml"
	exclusionsName = "exclusions.txt"

	DefaultProvider = "omdb"
	DefaultBaseURL  = "https://www.omdbapi.com/"
	DefaultTimeout  = 10 * time.Second
)

// env lists the supported environment overrides. Unset variables leave the
// file value untouched.
type env struct {
	Provider       *string        `envconfig:"PLEXIFY_PROVIDER"`
	OMDbKey        *string        `envconfig:"PLEXIFY_OMDB_API_KEY"`
	LegacyOMDbKey  *string        `envconfig:"OMDB_API_KEY"`
	BaseURL        *string        `envconfig:"PLEXIFY_OMDB_BASE_URL"`
	Timeout        *time.Duration `envconfig:"PLEXIFY_API_TIMEOUT"`
	Formats        []string       `envconfig:"PLEXIFY_FORMATS"`
	ExclusionsFile *string        `envconfig:"PLEXIFY_EXCLUSIONS_FILE"`
	TargetOS       *string        `envconfig:"PLEXIFY_TARGET_OS"`
	PruneEmptyDirs *bool          `envconfig:"PLEXIFY_PRUNE_EMPTY_DIRS"`
	TagMKV         *bool          `envconfig:"PLEXIFY_TAG_MKV"`
}

// GetDefaults returns the built-in configuration.
func GetDefaults() *types.GlobalConfig {
	formats := make([]string, len(scan.DefaultFormats))
	copy(formats, scan.DefaultFormats)
	return &types.GlobalConfig{
		Provider: DefaultProvider,
		API: types.APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Formats:    formats,
		Exclusions: types.ExclusionConfig{File: DefaultExclusionsFile()},
		TargetOS:   types.TargetWindows,
	}
}

// Path returns the global config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// DefaultExclusionsFile returns where the exclusion list is persisted by default.
func DefaultExclusionsFile() string {
	return filepath.Join(xdg.DataHome, appName, exclusionsName)
}

// LoadGlobal reads the global config file and applies environment overrides.
func LoadGlobal() (*types.GlobalConfig, error) {
	return Load(Path())
}

// Load reads the config at path on top of the defaults. A missing file is
// not an error.
func Load(path string) (*types.GlobalConfig, error) {
	cfg := GetDefaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, normalize(cfg)
}

func applyEnv(cfg *types.GlobalConfig) error {
	var e env
	if err := envconfig.Process("", &e); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	if e.Provider != nil {
		cfg.Provider = *e.Provider
	}
	switch {
	case e.OMDbKey != nil:
		cfg.API.OMDbKey = *e.OMDbKey
	case e.LegacyOMDbKey != nil && cfg.API.OMDbKey == "":
		cfg.API.OMDbKey = *e.LegacyOMDbKey
	}
	if e.BaseURL != nil {
		cfg.API.BaseURL = *e.BaseURL
	}
	if e.Timeout != nil {
		cfg.API.Timeout = *e.Timeout
	}
	if len(e.Formats) > 0 {
		cfg.Formats = e.Formats
	}
	if e.ExclusionsFile != nil {
		cfg.Exclusions.File = *e.ExclusionsFile
	}
	if e.TargetOS != nil {
		cfg.TargetOS = types.TargetOS(*e.TargetOS)
	}
	if e.PruneEmptyDirs != nil {
		cfg.PruneEmptyDirs = *e.PruneEmptyDirs
	}
	if e.TagMKV != nil {
		cfg.TagMKV = *e.TagMKV
	}
	return nil
}

// normalize fills blanks with defaults and validates enumerated fields.
func normalize(cfg *types.GlobalConfig) error {
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = DefaultTimeout
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = append([]string(nil), scan.DefaultFormats...)
	}
	if cfg.Exclusions.File == "" {
		cfg.Exclusions.File = DefaultExclusionsFile()
	}
	t, err := formatter.ParseTargetOS(string(cfg.TargetOS))
	if err != nil {
		return err
	}
	cfg.TargetOS = t
	return nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *types.GlobalConfig) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *types.GlobalConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Redacted returns a copy of cfg safe for display.
func Redacted(cfg *types.GlobalConfig) *types.GlobalConfig {
	c := cfg.Clone()
	if c.API.OMDbKey != "" {
		c.API.OMDbKey = "********"
	}
	return &c
}
