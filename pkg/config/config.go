// Package config loads skillsync's user configuration: a TOML file
// layered over built-in defaults. Everything in it is optional; a
// missing file is the defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/platform"
)

// EnvRepoRoot overrides the central repository location
const EnvRepoRoot = "SKILLSYNC_REPO"

// DefaultRepoDirName is the repository directory under $HOME
const DefaultRepoDirName = ".skill_repo"

// PlatformEntry is a user-defined platform in the config file
type PlatformEntry struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	GlobalPath string `toml:"global_path"`
	LocalPath  string `toml:"local_path"`
}

// Config is the merged view of defaults and the user's config file
type Config struct {
	// RepoRoot is the central repository directory
	RepoRoot string `toml:"repo_root"`
	// DefaultScope is used when the CLI gets no --scope flag
	DefaultScope string `toml:"default_scope"`
	// UpdateConcurrency bounds the parallel update checks
	UpdateConcurrency int `toml:"update_concurrency"`
	// Platforms extends (or repoints) the built-in platform catalog
	Platforms []PlatformEntry `toml:"platforms"`
}

// Path returns the config file location under the XDG config dir
func Path() string {
	return filepath.Join(xdg.ConfigHome, "skillsync", "config.toml")
}

// Default returns the built-in configuration for the given home directory
func Default(home string) Config {
	return Config{
		RepoRoot:          filepath.Join(home, DefaultRepoDirName),
		DefaultScope:      string(platform.ScopeGlobal),
		UpdateConcurrency: 0, // the checker applies its own default
	}
}

// Load reads the config file at path, layering it over defaults. A
// missing file yields the defaults; malformed TOML is a ConfigParse
// error. The SKILLSYNC_REPO environment variable wins over both.
func Load(path, home string) (Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config %s", path)
		}
	} else {
		var fileCfg Config
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return Config{}, errors.Wrapf(err, errors.ErrConfigParse, "config %s is malformed", path)
		}
		cfg = merge(cfg, fileCfg)
	}

	if repoRoot := os.Getenv(EnvRepoRoot); repoRoot != "" {
		cfg.RepoRoot = repoRoot
	}
	return cfg, nil
}

// Catalog builds the platform catalog including user additions
func (c Config) Catalog() *platform.Catalog {
	extras := make([]platform.Platform, 0, len(c.Platforms))
	for _, entry := range c.Platforms {
		extras = append(extras, platform.Platform{
			ID:         entry.ID,
			Name:       entry.Name,
			GlobalPath: entry.GlobalPath,
			LocalPath:  entry.LocalPath,
		})
	}
	return platform.NewCatalog(extras...)
}

// Scope returns the configured default scope
func (c Config) Scope() platform.Scope {
	return platform.Scope(c.DefaultScope)
}

func merge(base, overlay Config) Config {
	if overlay.RepoRoot != "" {
		base.RepoRoot = overlay.RepoRoot
	}
	if overlay.DefaultScope != "" {
		base.DefaultScope = overlay.DefaultScope
	}
	if overlay.UpdateConcurrency > 0 {
		base.UpdateConcurrency = overlay.UpdateConcurrency
	}
	base.Platforms = append(base.Platforms, overlay.Platforms...)
	return base
}
