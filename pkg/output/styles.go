package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Badge is a semantic category for short status labels
type Badge string

const (
	BadgeSuccess Badge = "success" // linked, updated, up to date
	BadgeError   Badge = "error"   // failed operations
	BadgeWarn    Badge = "warn"    // conflicts, diverged clones
	BadgeQueue   Badge = "queue"   // planned but not yet executed
	BadgeMuted   Badge = "muted"   // absent, skipped, not a clone
)

// BadgeStyle returns the pterm style for a badge category
func BadgeStyle(b Badge) *pterm.Style {
	switch b {
	case BadgeSuccess:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case BadgeError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case BadgeWarn:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case BadgeQueue:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Lipgloss styles for structural elements. Adaptive colors keep output
// legible on both light and dark terminals.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#fafafa"})

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5a56e0", Dark: "#7571f9"})

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6b6b6b", Dark: "#8a8a8a"})

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"})
)

// Bold wraps text in a bold pterm style
func Bold(text string) string {
	return pterm.NewStyle(pterm.Bold).Sprint(text)
}

// Indent indents each line of text by the given number of levels (2 spaces each)
func Indent(text string, levels int) string {
	prefix := strings.Repeat("  ", levels)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
