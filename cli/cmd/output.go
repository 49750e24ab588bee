// ABOUTME: Output helpers shared by the sizing commands
// ABOUTME: Terminal detection plus plain-text and JSON renderers

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/report"
	"golang.org/x/term"
)

// outputMode selects how results are written.
type outputMode int

const (
	outputPlain outputMode = iota
	outputStyled
	outputJSON
)

// terminal describes stdout.
type terminal struct {
	styled bool
	width  int
}

// detectTerminal reports whether stdout is a color-capable terminal and its width.
func detectTerminal() terminal {
	fd := int(os.Stdout.Fd())
	t := terminal{width: 80}
	if !term.IsTerminal(fd) {
		return t
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		t.width = w
	}
	t.styled = os.Getenv("NO_COLOR") == ""
	return t
}

// resolveOutput combines the --json setting with terminal detection.
func resolveOutput() (outputMode, int) {
	if IsJSONOutput() {
		return outputJSON, 0
	}
	t := detectTerminal()
	if t.styled {
		return outputStyled, t.width
	}
	return outputPlain, t.width
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatClusterPlain renders a sizing result without styling.
func formatClusterPlain(req models.SizingRequest, res *models.CalculationResult) string {
	var sb strings.Builder
	alloc := res.Allocation

	fmt.Fprintf(&sb, "Flavor:           %s\n", req.Flavor)
	fmt.Fprintf(&sb, "Instances:        %s\n", humanize.Comma(int64(alloc.InstanceCount)))
	fmt.Fprintf(&sb, "Bottleneck:       %s\n", res.Bottleneck)
	fmt.Fprintf(&sb, "CPU per job:      %s cores\n", humanize.Ftoa(alloc.CPUCores))
	fmt.Fprintf(&sb, "RAM per job:      %s\n", report.Bytes(alloc.RAMGB*1024))
	fmt.Fprintf(&sb, "Disk per job:     %d GB\n", alloc.DiskGB)
	fmt.Fprintf(&sb, "For throughput:   %s\n", humanize.Comma(int64(res.Analysis.InstancesForThroughput)))
	fmt.Fprintf(&sb, "For fault domain: %s\n", humanize.Comma(int64(res.Analysis.InstancesForFaultTolerance)))

	if s := alloc.Storage; s != nil {
		fmt.Fprintf(&sb, "Hash table:       %s (2^%d buckets)\n", report.Bytes(float64(s.HashMemoryMB)), s.HashBucketExponent)
		fmt.Fprintf(&sb, "Segments:         %s\n", report.Bytes(s.SegmentMemoryMB))
	}

	for _, t := range res.Analysis.Tiers {
		status := "no room"
		if t.Feasible {
			status = humanize.Comma(int64(t.Instances)) + " instances"
		}
		marker := ""
		if t.Selected {
			marker = " (selected)"
		}
		fmt.Fprintf(&sb, "Tier %-12s %s%s\n", humanize.Ftoa(t.RAMGB)+" GB:", status, marker)
	}

	writeWarningsPlain(&sb, res.Warnings)
	return strings.TrimRight(sb.String(), "\n")
}

// formatFootprintPlain renders a footprint result without styling.
func formatFootprintPlain(req models.FootprintRequest, res *models.FootprintResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Keys:              %s\n", humanize.Comma(int64(req.KeyCount)))
	fmt.Fprintf(&sb, "Aligned item size: %d B\n", res.AlignedItemSize)
	fmt.Fprintf(&sb, "Hash table:        %s (2^%d buckets)\n", report.Bytes(float64(res.HashMemoryMB)), res.HashBucketExponent)
	fmt.Fprintf(&sb, "Segments:          %s\n", report.Bytes(float64(res.SegmentMemoryMB)))
	if res.SegmentCount > 0 {
		fmt.Fprintf(&sb, "Segment count:     %s\n", humanize.Comma(res.SegmentCount))
	}
	fmt.Fprintf(&sb, "Total:             %s\n", report.Bytes(float64(res.TotalMemoryMB)))

	writeWarningsPlain(&sb, res.Warnings)
	return strings.TrimRight(sb.String(), "\n")
}

func writeWarningsPlain(sb *strings.Builder, warnings []models.SizingWarning) {
	for _, w := range warnings {
		fmt.Fprintf(sb, "%s: %s\n", strings.ToUpper(w.Severity), w.Message)
	}
}
