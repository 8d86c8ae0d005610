package skill

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the conventional manifest inside a skill directory
const ManifestFileName = "SKILL.md"

// Manifest is the YAML frontmatter of SKILL.md. Every field is
// optional; a skill without a manifest is still a valid skill.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	License     string `yaml:"license"`
}

// ReadManifest loads the frontmatter of the skill directory's SKILL.md.
// A missing file or missing frontmatter yields a zero manifest, not an
// error; malformed YAML is reported so list output can flag it.
func ReadManifest(skillDir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(skillDir, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, nil
		}
		return Manifest{}, err
	}
	return parseFrontmatter(data)
}

// ManifestPath returns the skill's SKILL.md path and whether it exists
func ManifestPath(skillDir string) (string, bool) {
	path := filepath.Join(skillDir, ManifestFileName)
	if _, err := os.Stat(path); err != nil {
		return path, false
	}
	return path, true
}

func parseFrontmatter(data []byte) (Manifest, error) {
	var m Manifest

	content := bytes.TrimLeft(data, "\uFEFF\r\n")
	if !bytes.HasPrefix(content, []byte("---")) {
		return m, nil
	}

	rest := content[3:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return m, nil
	}

	block := strings.TrimPrefix(string(rest[:end]), "\r\n")
	block = strings.TrimPrefix(block, "\n")
	if err := yaml.Unmarshal([]byte(block), &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
