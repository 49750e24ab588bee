// ABOUTME: Styled reports for cluster sizing and single-instance footprint results
// ABOUTME: Shared by the wizard's final screen and the cluster/footprint commands on a TTY

package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/icons"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/styles"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/widgets"
)

const minWidth = 60

// Memory breakdown colors.
var (
	connColor  = lipgloss.Color("#A78BFA")
	fixedColor = lipgloss.Color("#6B7280")
	hashColor  = lipgloss.Color("#F59E0B")
	dataColor  = lipgloss.Color("#0EA5E9")
)

var bottleneckText = map[models.Bottleneck]string{
	models.BottleneckThroughput:     "by throughput",
	models.BottleneckFaultTolerance: "by fault tolerance",
	models.BottleneckMemory:         "by memory",
}

// Bytes renders a size in binary units, e.g. "4.0 GiB".
func Bytes(mb float64) string {
	if mb <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(mb * models.MB))
}

// Cluster renders a cluster sizing result.
func Cluster(req models.SizingRequest, res *models.CalculationResult, width int) string {
	if res == nil {
		return "No sizing result"
	}
	if width < minWidth {
		width = minWidth
	}

	alloc := res.Allocation
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Cluster Sizing: %s", icons.App.String(), req.Flavor)))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s qps, %s connections per instance, %s%% failure domain",
		humanize.Commaf(req.QPS), humanize.Comma(int64(req.ConnectionCount)), humanize.Ftoa(req.FailureDomainPercent))))
	sb.WriteString("\n\n")

	cfg := widgets.DefaultMetricBlockConfig()
	cfg.Width = max(18, min(26, (width-6)/4))
	blocks := []string{
		widgets.MetricBlock(icons.Server, "Instances", humanize.Comma(int64(alloc.InstanceCount)), bottleneckText[res.Bottleneck], cfg),
		widgets.MetricBlock(icons.Memory, "RAM / job", Bytes(alloc.RAMGB*1024), "fleet "+Bytes(alloc.RAMGB*1024*float64(alloc.InstanceCount)), cfg),
		widgets.MetricBlock(icons.CPU, "CPU / job", fmt.Sprintf("%g cores", alloc.CPUCores), fmt.Sprintf("fleet %s", humanize.Commaf(alloc.CPUCores*float64(alloc.InstanceCount))), cfg),
		widgets.MetricBlock(icons.Disk, "Disk / job", fmt.Sprintf("%d GB", alloc.DiskGB), "", cfg),
	}
	sb.WriteString(blockRows(blocks, cfg.Width, width))
	sb.WriteString("\n\n")

	sb.WriteString(styles.Subtitle.Render("Instance requirements"))
	sb.WriteString("\n")
	sb.WriteString(row("Bottleneck", string(res.Bottleneck), false))
	sb.WriteString(row("Throughput", humanize.Comma(int64(res.Analysis.InstancesForThroughput)), res.Bottleneck == models.BottleneckThroughput))
	sb.WriteString(row("Fault tolerance", humanize.Comma(int64(res.Analysis.InstancesForFaultTolerance)), res.Bottleneck == models.BottleneckFaultTolerance))
	if alloc.Storage != nil {
		memInstances := "-"
		for _, t := range res.Analysis.Tiers {
			if t.Selected && t.Feasible {
				memInstances = humanize.Comma(int64(t.Instances))
			}
		}
		sb.WriteString(row("Memory", memInstances, res.Bottleneck == models.BottleneckMemory))
	}

	if alloc.Storage != nil {
		sb.WriteString("\n")
		sb.WriteString(memoryLayout(res, width))
		sb.WriteString("\n")
		sb.WriteString(tierTable(res.Analysis.Tiers))
	}

	sb.WriteString(warnings(res.Warnings))

	return lipgloss.NewStyle().Width(width).Render(sb.String())
}

// Footprint renders a single-instance footprint result.
func Footprint(req models.FootprintRequest, res *models.FootprintResult, width int) string {
	if res == nil {
		return "No footprint result"
	}
	if width < minWidth {
		width = minWidth
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Instance Footprint: %s", icons.App.String(), req.Flavor)))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s keys of %d bytes", humanize.Comma(int64(req.KeyCount)), req.ItemSize)))
	sb.WriteString("\n\n")

	sb.WriteString(row("Total memory", Bytes(float64(res.TotalMemoryMB)), true))
	sb.WriteString(row("Hash table", fmt.Sprintf("%s (2^%d buckets)", Bytes(float64(res.HashMemoryMB)), res.HashBucketExponent), false))
	sb.WriteString(row("Segments", Bytes(float64(res.SegmentMemoryMB)), false))
	sb.WriteString(row("Aligned item", fmt.Sprintf("%d B", res.AlignedItemSize), false))
	if res.SegmentCount > 0 {
		sb.WriteString(row("Segment count", humanize.Comma(res.SegmentCount), false))
	}

	barWidth := width - 8
	sb.WriteString("\n  ")
	sb.WriteString(widgets.StackedBar([]widgets.Segment{
		{Label: "hash", Value: float64(res.HashMemoryMB), Color: hashColor},
		{Label: "segments", Value: float64(res.SegmentMemoryMB), Color: dataColor},
	}, float64(res.TotalMemoryMB), barWidth))
	sb.WriteString("\n  ")
	sb.WriteString(legend([]widgets.Segment{
		{Label: "hash", Color: hashColor},
		{Label: "segments", Color: dataColor},
	}))
	sb.WriteString("\n")

	sb.WriteString(warnings(res.Warnings))

	return lipgloss.NewStyle().Width(width).Render(sb.String())
}

func memoryLayout(res *models.CalculationResult, width int) string {
	a := res.Analysis
	s := res.Allocation.Storage
	ramMB := res.Allocation.RAMGB * 1024

	segments := []widgets.Segment{
		{Label: "connections", Value: float64(a.ConnMemoryMB), Color: connColor},
		{Label: "fixed", Value: float64(a.FixedMemoryMB), Color: fixedColor},
		{Label: "hash", Value: float64(s.HashMemoryMB), Color: hashColor},
		{Label: "segments", Value: s.SegmentMemoryMB, Color: dataColor},
	}

	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Memory per job (%s)", Bytes(ramMB))))
	sb.WriteString("\n  ")
	sb.WriteString(widgets.StackedBar(segments, ramMB, width-8))
	sb.WriteString("\n  ")
	sb.WriteString(legend(segments))
	sb.WriteString("\n")
	sb.WriteString(row("Hash table", fmt.Sprintf("%s (2^%d buckets)", Bytes(float64(s.HashMemoryMB)), s.HashBucketExponent), false))
	sb.WriteString(row("Segments", Bytes(s.SegmentMemoryMB), false))
	sb.WriteString(row("Data per job", Bytes(a.DataMemoryMB/float64(max(1, res.Allocation.InstanceCount))), false))
	return sb.String()
}

func tierTable(tiers []models.TierEstimate) string {
	if len(tiers) == 0 {
		return ""
	}

	header := fmt.Sprintf("  %-10s %-10s %-10s", "RAM", "Hash", "Instances")
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render("RAM tiers"))
	sb.WriteString("\n")
	sb.WriteString(styles.LabelStyle.Render(header))
	sb.WriteString("\n")
	for _, t := range tiers {
		instances := humanize.Comma(int64(t.Instances))
		if !t.Feasible {
			instances = "no room"
		}
		line := fmt.Sprintf("  %-10s %-10s %-10s", Bytes(t.RAMGB*1024), Bytes(float64(t.EstimatedHashMB)), instances)
		switch {
		case t.Selected:
			sb.WriteString(styles.StatusOK.Render(line + " ◀ selected"))
		case !t.Feasible:
			sb.WriteString(styles.LabelStyle.Render(line))
		default:
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func warnings(ws []models.SizingWarning) string {
	if len(ws) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(styles.StatusWarning.Render("Warnings"))
	sb.WriteString("\n")
	for _, w := range ws {
		sb.WriteString("  ")
		sb.WriteString(widgets.StatusText(w.Message, widgets.LevelForSeverity(w.Severity)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func row(label, value string, highlight bool) string {
	v := styles.ValueStyle.Render(value)
	if highlight {
		v = styles.StatusOK.Render(value + " ◀")
	}
	return fmt.Sprintf("  %s %s\n", styles.LabelStyle.Render(fmt.Sprintf("%-16s", label)), v)
}

func legend(segments []widgets.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, lipgloss.NewStyle().Foreground(s.Color).Render("█")+" "+s.Label)
	}
	return strings.Join(parts, "  ")
}

// blockRows lays blocks out left to right, wrapping to a new row when the
// next block would not fit in width.
func blockRows(blocks []string, blockWidth, width int) string {
	perRow := max(1, (width+1)/(blockWidth+1))
	var rows []string
	for start := 0; start < len(blocks); start += perRow {
		end := min(len(blocks), start+perRow)
		var cells []string
		for i, b := range blocks[start:end] {
			if i > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, b)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
