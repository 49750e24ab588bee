// ABOUTME: Compact metric block widget for report headers
// ABOUTME: Combines icon, value, and caption in a bordered panel

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       22,
		BorderColor: lipgloss.Color("#6B7280"), // Muted gray
		TitleColor:  lipgloss.Color("#0EA5E9"), // Sky
		ValueColor:  lipgloss.Color("#F9FAFB"), // Light
	}
}

// MetricBlock renders a compact metric display block
func MetricBlock(icon icons.Icon, title, value, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 22
	}

	// border + padding
	innerWidth := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	topBorder := borderStyle.Render("┌─ ") +
		titleStyle.Render(titleStr) +
		borderStyle.Render(" "+strings.Repeat("─", max(0, config.Width-5-lipgloss.Width(titleStr)))+"┐")

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	line := func(content string) string {
		pad := max(0, innerWidth-lipgloss.Width(content))
		return borderStyle.Render("│ ") + content + strings.Repeat(" ", pad) + borderStyle.Render(" │")
	}

	bottomBorder := borderStyle.Render("└" + strings.Repeat("─", config.Width-2) + "┘")

	return strings.Join([]string{
		topBorder,
		line(valueStyle.Render(truncate(value, innerWidth))),
		line(subtitleStyle.Render(truncate(subtitle, innerWidth))),
		bottomBorder,
	}, "\n")
}

// truncate shortens a string to maxLen cells with ellipsis if needed
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:min(len(r), maxLen)])
	}
	for lipgloss.Width(string(r))+3 > maxLen && len(r) > 0 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
