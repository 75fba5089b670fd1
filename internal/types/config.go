package types

import "time"

// GlobalConfig represents the global configuration file (~/.config/plexify/config.yml)
type GlobalConfig struct {
	Provider       string          `yaml:"provider"`
	API            APIConfig       `yaml:"api"`
	Formats        []string        `yaml:"formats"`
	Exclusions     ExclusionConfig `yaml:"exclusions"`
	TargetOS       TargetOS        `yaml:"target_os"`
	PruneEmptyDirs bool            `yaml:"prune_empty_dirs"`
	TagMKV         bool            `yaml:"tag_mkv"`
}

// APIConfig holds metadata provider connection settings
type APIConfig struct {
	OMDbKey string        `yaml:"omdb_key,omitempty"`
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ExclusionConfig points at the persisted exclusion list
type ExclusionConfig struct {
	File string `yaml:"file"`
}

// TargetOS selects the character rules used to sanitize new names.
type TargetOS string

const (
	TargetWindows TargetOS = "windows"
	TargetPOSIX   TargetOS = "posix"
	TargetAuto    TargetOS = "auto"
)

// Clone returns a deep copy of the global configuration
func (g *GlobalConfig) Clone() GlobalConfig {
	res := *g
	if len(g.Formats) > 0 {
		res.Formats = make([]string, len(g.Formats))
		copy(res.Formats, g.Formats)
	}
	return res
}
