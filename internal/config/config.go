package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// UntrackedPolicy defines how untracked files are handled during apply
type UntrackedPolicy string

const (
	// UntrackedPreserve leaves untracked files in place after a sync
	UntrackedPreserve UntrackedPolicy = "preserve"
	// UntrackedPurge force-removes untracked files and directories after reset
	UntrackedPurge UntrackedPolicy = "purge"
)

// Config represents the complete packsync configuration
type Config struct {
	Repo     RepoConfig     `yaml:"repo"`
	Profiles ProfilesConfig `yaml:"profiles"`
	Sync     SyncConfig     `yaml:"sync"`
	Packages PackagesConfig `yaml:"packages"`
}

// RepoConfig configures the modpack distribution repository
type RepoConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	Remote string `yaml:"remote"`
}

// ProfilesConfig configures where launcher profiles live on disk
type ProfilesConfig struct {
	Root   string `yaml:"root"`
	Marker string `yaml:"marker"`
}

// SyncConfig configures sync behavior
type SyncConfig struct {
	Untracked      UntrackedPolicy `yaml:"untracked"`
	Backup         bool            `yaml:"backup"`
	CommandTimeout Duration        `yaml:"command_timeout"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
// A zero duration means no timeout, matching the blocking behavior of the
// external tools themselves.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("command_timeout must be a duration string: %w", err)
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// PackagesConfig maps required executables to winget package identifiers
type PackagesConfig struct {
	Git    string `yaml:"git"`
	GitLfs string `yaml:"git_lfs"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables in string fields
	cfg.expandEnv()

	// Apply defaults
	cfg.applyDefaults()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// expandEnv expands environment variables in all string fields
func (c *Config) expandEnv() {
	c.Repo.URL = os.ExpandEnv(c.Repo.URL)
	c.Repo.Branch = os.ExpandEnv(c.Repo.Branch)
	c.Repo.Remote = os.ExpandEnv(c.Repo.Remote)
	c.Profiles.Root = os.ExpandEnv(c.Profiles.Root)
	c.Profiles.Marker = os.ExpandEnv(c.Profiles.Marker)
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Repo.Branch == "" {
		c.Repo.Branch = "main"
	}
	if c.Repo.Remote == "" {
		c.Repo.Remote = "origin"
	}
	if c.Profiles.Root == "" {
		c.Profiles.Root = defaultProfilesRoot()
	}
	if c.Profiles.Marker == "" {
		c.Profiles.Marker = "mods"
	}
	if c.Sync.Untracked == "" {
		c.Sync.Untracked = UntrackedPreserve
	}
	if c.Packages.Git == "" {
		c.Packages.Git = "Git.Git"
	}
	if c.Packages.GitLfs == "" {
		c.Packages.GitLfs = "GitHub.GitLFS"
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Repo.URL == "" {
		return fmt.Errorf("repo.url is required")
	}
	if c.Repo.Branch == "" {
		return fmt.Errorf("repo.branch is required")
	}
	if c.Repo.Remote == "" {
		return fmt.Errorf("repo.remote is required")
	}

	if c.Profiles.Root == "" {
		return fmt.Errorf("profiles.root is required")
	}
	if !filepath.IsAbs(c.Profiles.Root) {
		return fmt.Errorf("profiles.root must be an absolute path: %s", c.Profiles.Root)
	}
	if c.Profiles.Marker == "" {
		return fmt.Errorf("profiles.marker is required")
	}

	switch c.Sync.Untracked {
	case UntrackedPreserve, UntrackedPurge:
		// valid
	default:
		return fmt.Errorf("invalid sync.untracked policy: %s (must be preserve or purge)", c.Sync.Untracked)
	}

	if c.Sync.CommandTimeout < 0 {
		return fmt.Errorf("sync.command_timeout must not be negative: %s", time.Duration(c.Sync.CommandTimeout))
	}

	return nil
}

// RemoteRef returns the remote tracking ref of the sync branch, e.g. "origin/main"
func (c *Config) RemoteRef() string {
	return c.Repo.Remote + "/" + c.Repo.Branch
}

// defaultProfilesRoot returns the CurseForge launcher instance directory for
// the current user. The launcher keeps one directory per modpack profile in
// its per-user application data location.
func defaultProfilesRoot() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "curseforge", "minecraft", "Instances")
}
