// ABOUTME: Progress and breakdown bars for memory displays
// ABOUTME: Renders single-value bars and stacked bars showing how a budget is spent

package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EmptyColor fills the unused part of a bar.
var EmptyColor = lipgloss.Color("#374151")

// CompactProgressBar renders a minimal progress bar for tight spaces
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	empty := width - filled

	filledStr := strings.Repeat("▓", filled)
	emptyStr := strings.Repeat("░", empty)

	return lipgloss.NewStyle().Foreground(color).Render(filledStr) +
		lipgloss.NewStyle().Foreground(EmptyColor).Render(emptyStr)
}

// Segment is one share of a stacked bar.
type Segment struct {
	Label string
	Value float64
	Color lipgloss.Color
}

// StackedBar renders segments side by side in proportion to their share of
// total. Cells left over after rounding are drawn empty. Any segment with a
// positive value gets at least one cell while width allows.
func StackedBar(segments []Segment, total float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if total <= 0 {
		return lipgloss.NewStyle().Foreground(EmptyColor).Render(strings.Repeat("░", width))
	}

	cells := make([]int, len(segments))
	used := 0
	for i, s := range segments {
		if s.Value <= 0 {
			continue
		}
		n := int(math.Round(s.Value / total * float64(width)))
		if n == 0 {
			n = 1
		}
		if used+n > width {
			n = width - used
		}
		cells[i] = n
		used += n
	}

	var sb strings.Builder
	for i, s := range segments {
		if cells[i] > 0 {
			sb.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat("█", cells[i])))
		}
	}
	if used < width {
		sb.WriteString(lipgloss.NewStyle().Foreground(EmptyColor).Render(strings.Repeat("░", width-used)))
	}
	return sb.String()
}
