// Package platform defines the catalog of supported host tools and
// resolves where each one expects skill symlinks to live.
//
// The catalog is a data table, not branching code: adding a platform is
// a new Platform entry (built-in or from user configuration), never a
// logic change. Resolution is pure: home and cwd are explicit
// parameters so nothing in here reads ambient process state.
package platform

import (
	"path/filepath"

	"github.com/arthur-debert/skillsync/pkg/errors"
)

// Scope selects between per-user and per-project target directories
type Scope string

const (
	// ScopeGlobal roots targets under the user's home directory
	ScopeGlobal Scope = "global"
	// ScopeLocal roots targets under the current working directory
	ScopeLocal Scope = "local"
)

// Platform describes one host tool that consumes skill symlinks.
// GlobalPath is relative to the user's home directory, LocalPath to the
// project root.
type Platform struct {
	ID         string
	Name       string
	GlobalPath string
	LocalPath  string
}

// Catalog is a static table of known platforms plus any user additions
type Catalog struct {
	platforms map[string]Platform
	order     []string
}

// builtins lists the platforms skillsync knows out of the box
var builtins = []Platform{
	{ID: "claude", Name: "Claude Code", GlobalPath: ".claude/skills", LocalPath: ".claude/skills"},
	{ID: "copilot", Name: "GitHub Copilot", GlobalPath: ".copilot/skills", LocalPath: ".github/skills"},
	{ID: "antigravity", Name: "Google Antigravity", GlobalPath: ".gemini/antigravity/skills", LocalPath: ".agent/skills"},
	{ID: "cursor", Name: "Cursor", GlobalPath: ".cursor/skills", LocalPath: ".cursor/skills"},
	{ID: "opencode", Name: "OpenCode", GlobalPath: ".config/opencode/skill", LocalPath: ".opencode/skill"},
	{ID: "codex", Name: "OpenAI Codex", GlobalPath: ".codex/skills", LocalPath: ".codex/skills"},
	{ID: "gemini", Name: "Gemini CLI", GlobalPath: ".gemini/skills", LocalPath: ".gemini/skills"},
	{ID: "windsurf", Name: "Windsurf", GlobalPath: ".codeium/windsurf/skills", LocalPath: ".windsurf/skills"},
	{ID: "qwen", Name: "Qwen Code", GlobalPath: ".qwen/skills", LocalPath: ".qwen/skills"},
	{ID: "qoder", Name: "Qoder", GlobalPath: ".qoder/skills", LocalPath: ".qoder/skills"},
}

// NewCatalog returns a catalog containing the built-in platforms plus
// any extras. An extra whose ID collides with a built-in replaces it,
// which lets user configuration repoint a known platform.
func NewCatalog(extras ...Platform) *Catalog {
	c := &Catalog{platforms: make(map[string]Platform)}
	for _, p := range builtins {
		c.add(p)
	}
	for _, p := range extras {
		c.add(p)
	}
	return c
}

func (c *Catalog) add(p Platform) {
	if _, exists := c.platforms[p.ID]; !exists {
		c.order = append(c.order, p.ID)
	}
	c.platforms[p.ID] = p
}

// Get returns the platform for the given identifier
func (c *Catalog) Get(id string) (Platform, error) {
	p, ok := c.platforms[id]
	if !ok {
		return Platform{}, errors.Newf(errors.ErrUnknownPlatform, "unknown platform %q", id)
	}
	return p, nil
}

// IDs returns all platform identifiers in catalog order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// All returns every platform in catalog order
func (c *Catalog) All() []Platform {
	all := make([]Platform, 0, len(c.order))
	for _, id := range c.order {
		all = append(all, c.platforms[id])
	}
	return all
}

// Resolve maps (platform, scope) to the directory where that platform
// expects skill symlinks. Pure and total over the catalog; no existence
// check is performed.
func (c *Catalog) Resolve(id string, scope Scope, home, cwd string) (string, error) {
	p, err := c.Get(id)
	if err != nil {
		return "", err
	}
	switch scope {
	case ScopeLocal:
		return filepath.Join(cwd, filepath.FromSlash(p.LocalPath)), nil
	case ScopeGlobal:
		return filepath.Join(home, filepath.FromSlash(p.GlobalPath)), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown scope %q", scope)
	}
}

// SkillTarget resolves the full target path for one skill on one platform
func (c *Catalog) SkillTarget(id string, scope Scope, home, cwd, skillName string) (string, error) {
	dir, err := c.Resolve(id, scope, home, cwd)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, skillName), nil
}
