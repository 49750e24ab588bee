// ABOUTME: Footprint command for pelikan-sizer CLI
// ABOUTME: Computes the memory footprint of a single cache instance

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/report"
	"github.com/pelikan-io/capacity-calculator/cli/internal/workload"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type footprintOptions struct {
	itemSize      int
	keyCount      int
	hashOccupancy float64
	segmentSize   int64
	flavor        string
	file          string
	local         bool
}

var footprintOpts footprintOptions

var footprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Compute the memory footprint of one instance",
	Long: `Compute hash table and segment memory for a single cache instance.

Exit Codes:
  0  Calculation succeeded
  2  Invalid input or backend error`,
	Example: `  pelikan-sizer footprint --key-count 10000000 --item-size 256
  pelikan-sizer footprint --file workload.yaml --local --json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		req, err := buildFootprintRequest(cmd.Flags(), footprintOpts)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}

		calc, _ := newCalculator(footprintOpts.local)
		mode, width := resolveOutput()
		if exitCode := runFootprint(ctx, os.Stdout, calc, req, mode, width); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	bindFootprintFlags(footprintCmd.Flags(), &footprintOpts)
	rootCmd.AddCommand(footprintCmd)
}

func bindFootprintFlags(f *pflag.FlagSet, opts *footprintOptions) {
	f.IntVar(&opts.itemSize, "item-size", models.DefaultItemSize, "Key plus value size in bytes")
	f.IntVar(&opts.keyCount, "key-count", models.DefaultKeyCount, "Number of keys stored")
	f.Float64Var(&opts.hashOccupancy, "hash-occupancy", models.DefaultHashOccupancy, "Target keys per hash bucket (0 means one key per bucket)")
	f.Int64Var(&opts.segmentSize, "segment-size", models.DefaultSegmentSize, "Segment size in bytes")
	f.StringVar(&opts.flavor, "flavor", string(models.FlavorCache), "Service flavor")
	f.StringVarP(&opts.file, "file", "f", "", "YAML workload file")
	f.BoolVar(&opts.local, "local", false, "Compute in-process instead of calling the backend")
}

// buildFootprintRequest layers defaults, the workload file, and changed flags.
func buildFootprintRequest(flags *pflag.FlagSet, opts footprintOptions) (*models.FootprintRequest, error) {
	req := models.DefaultFootprintRequest()
	if opts.file != "" {
		wl, err := workload.Load(opts.file)
		if err != nil {
			return nil, err
		}
		wl.ApplyFootprint(&req)
	}
	if flags.Changed("flavor") {
		f, err := models.ParseFlavor(opts.flavor)
		if err != nil {
			return nil, err
		}
		req.Flavor = f
	}
	if flags.Changed("item-size") {
		req.ItemSize = opts.itemSize
	}
	if flags.Changed("key-count") {
		req.KeyCount = opts.keyCount
	}
	if flags.Changed("hash-occupancy") {
		req.HashOccupancy = opts.hashOccupancy
	}
	if flags.Changed("segment-size") {
		req.SegmentSize = opts.segmentSize
	}
	return &req, nil
}

// runFootprint computes the footprint and writes it, returning the exit code
func runFootprint(ctx context.Context, w io.Writer, calc calculator, req *models.FootprintRequest, mode outputMode, width int) int {
	res, err := calc.Footprint(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	switch mode {
	case outputJSON:
		if err := writeJSON(w, res); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	case outputStyled:
		fmt.Fprintln(w, report.Footprint(*req, res, width))
	default:
		fmt.Fprintln(w, formatFootprintPlain(*req, res))
	}
	return 0
}
