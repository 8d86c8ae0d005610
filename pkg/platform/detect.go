package platform

import (
	"os"
	"path/filepath"
)

// Detect reports which platforms appear to be installed for the given
// home directory. A platform counts as available when the parent of its
// global skills directory exists, e.g. ~/.claude for ~/.claude/skills.
// This is a display heuristic for default selections, never a
// correctness gate: Resolve stays total regardless.
func (c *Catalog) Detect(home string) []Platform {
	var available []Platform
	for _, p := range c.All() {
		skillsDir := filepath.Join(home, filepath.FromSlash(p.GlobalPath))
		if _, err := os.Stat(filepath.Dir(skillsDir)); err == nil {
			available = append(available, p)
		}
	}
	return available
}

// DetectIDs returns just the identifiers of detected platforms
func (c *Catalog) DetectIDs(home string) []string {
	detected := c.Detect(home)
	ids := make([]string, 0, len(detected))
	for _, p := range detected {
		ids = append(ids, p.ID)
	}
	return ids
}
