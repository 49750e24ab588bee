// ABOUTME: Cluster command for pelikan-sizer CLI
// ABOUTME: Sizes a cluster from flags and an optional YAML workload file

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

type clusterOptions struct {
	qps           float64
	itemSize      int
	keyCount      int
	connections   int
	failureDomain float64
	ramGB         []float64
	flavor        string
	tls           bool
	file          string
	local         bool
}

var clusterOpts clusterOptions

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Size a Pelikan cluster",
	Long: `Compute the number and shape of jobs a Pelikan cluster needs.

Values come from the flavor defaults, then the --file workload, then any
flags given on the command line.

Exit Codes:
  0  Sizing succeeded
  2  Invalid input or backend error`,
	Example: `  pelikan-sizer cluster --qps 2000000 --key-count 50000000 --ram-gb 8,16
  pelikan-sizer cluster --flavor stateless-ping --qps 1e8 --local
  pelikan-sizer cluster --file workload.yaml --json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		req, err := buildSizingRequest(cmd.Flags(), clusterOpts)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}

		calc, _ := newCalculator(clusterOpts.local)
		mode, width := resolveOutput()
		if exitCode := runCluster(ctx, os.Stdout, calc, req, mode, width); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	bindClusterFlags(clusterCmd.Flags(), &clusterOpts)
	rootCmd.AddCommand(clusterCmd)
}

func bindClusterFlags(f *pflag.FlagSet, opts *clusterOptions) {
	f.Float64Var(&opts.qps, "qps", models.DefaultQPS, "Peak queries per second")
	f.IntVar(&opts.itemSize, "item-size", models.DefaultItemSize, "Key plus value size in bytes")
	f.IntVar(&opts.keyCount, "key-count", models.DefaultKeyCount, "Number of keys in the dataset")
	f.IntVar(&opts.connections, "connections", models.DefaultConnections, "Client connections per instance")
	f.Float64Var(&opts.failureDomain, "failure-domain", models.DefaultFailureDomain, "Largest share of instances one failure may take out, in percent")
	f.Float64SliceVar(&opts.ramGB, "ram-gb", append([]float64(nil), models.DefaultRAMCandidatesGB...), "Candidate RAM tiers per job in GB")
	f.StringVar(&opts.flavor, "flavor", string(models.FlavorCache), "Service flavor (cache, replicated-cache, stateless-ping)")
	f.BoolVar(&opts.tls, "tls", false, "Clients connect over TLS")
	f.StringVarP(&opts.file, "file", "f", "", "YAML workload file")
	f.BoolVar(&opts.local, "local", false, "Compute in-process instead of calling the backend")
}

// buildSizingRequest layers flavor defaults, the workload file, and changed flags.
func buildSizingRequest(flags *pflag.FlagSet, opts clusterOptions) (*models.SizingRequest, error) {
	req := models.DefaultSizingRequest(models.FlavorCache)
	if opts.file != "" {
		wl, err := workload.Load(opts.file)
		if err != nil {
			return nil, err
		}
		wl.ApplySizing(&req)
	}
	if flags.Changed("flavor") {
		f, err := models.ParseFlavor(opts.flavor)
		if err != nil {
			return nil, err
		}
		req.Flavor = f
	}

	if flags.Changed("qps") {
		req.QPS = opts.qps
	}
	if flags.Changed("item-size") {
		req.ItemSize = opts.itemSize
	}
	if flags.Changed("key-count") {
		req.KeyCount = opts.keyCount
	}
	if flags.Changed("connections") {
		req.ConnectionCount = opts.connections
	}
	if flags.Changed("failure-domain") {
		req.FailureDomainPercent = opts.failureDomain
	}
	if flags.Changed("ram-gb") {
		req.RAMCandidatesGB = append([]float64(nil), opts.ramGB...)
	}
	if flags.Changed("tls") {
		req.TLS = opts.tls
	}
	return &req, nil
}

// runCluster sizes req and writes the result, returning the exit code
func runCluster(ctx context.Context, w io.Writer, calc calculator, req *models.SizingRequest, mode outputMode, width int) int {
	res, err := calc.SizeCluster(ctx, req)
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
		fmt.Fprintln(w, report.Cluster(*req, res, width))
	default:
		fmt.Fprintln(w, formatClusterPlain(*req, res))
	}
	return 0
}
