package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffb000"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c6c80"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0e0e0")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9a9aae"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffb000")).
		Bold(true)

	ErrorText = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff5f5f"))
)

// LoadBar renders share (0..1) of width cells, colored by how heavily the
// axle is loaded relative to an even split.
func LoadBar(share float64, width int, t Theme) string {
	filled := int(share*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := lipgloss.NewStyle().Foreground(t.Primary)
	switch {
	case share > 0.4:
		style = lipgloss.NewStyle().Foreground(t.Warning)
	case share < 0.1:
		style = lipgloss.NewStyle().Foreground(t.Muted)
	}
	return style.Render(bar)
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

// Hints renders key/description pairs as a help line.
func Hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(KeyHint.Render(pairs[i]))
		b.WriteString(Subtle.Render(" " + pairs[i+1] + "  "))
	}
	return strings.TrimRight(b.String(), " ")
}
