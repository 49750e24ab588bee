// ABOUTME: Wizard command for pelikan-sizer CLI
// ABOUTME: Launches the interactive sizing TUI

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/cli/internal/client"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui"
	"github.com/pelikan-io/capacity-calculator/cli/internal/tui/debuglog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	wizardLocal bool
	wizardDebug bool
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Size a cluster interactively",
	Long: `Walk through the sizing inputs in a terminal form and view the report.

Press e on the report to edit the last request, n to start over, q to quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stdout, "Error: wizard requires an interactive terminal; use the cluster command instead")
			os.Exit(2)
		}

		logPath := ""
		if wizardDebug {
			logPath = debuglog.DefaultPath()
		}
		closeLog, err := debuglog.Open(logPath)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}
		defer closeLog()

		calc, source := newCalculator(wizardLocal)
		defaults, err := wizardDefaults(ctx, wizardLocal)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v (use --local to size without a backend)\n", err)
			os.Exit(2)
		}

		res, err := tui.Run(calc, defaults, source)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}
		printWizardSummary(os.Stdout, res)
	},
}

func init() {
	wizardCmd.Flags().BoolVar(&wizardLocal, "local", false, "Compute in-process instead of calling the backend")
	wizardCmd.Flags().BoolVar(&wizardDebug, "debug", false, "Write a debug log to the user config directory")
	rootCmd.AddCommand(wizardCmd)
}

// wizardDefaults returns the request the wizard starts from. The backend
// is asked for its defaults unless sizing locally.
func wizardDefaults(ctx context.Context, local bool) (models.SizingRequest, error) {
	if local {
		return models.DefaultSizingRequest(models.FlavorCache), nil
	}
	resp, err := client.New(GetAPIURL()).Defaults(ctx)
	if err != nil {
		return models.SizingRequest{}, err
	}
	if resp.Sizing.Flavor == "" {
		resp.Sizing.Flavor = models.FlavorCache
	}
	return resp.Sizing, nil
}

// printWizardSummary leaves a one-line result on the terminal after the
// alt screen closes.
func printWizardSummary(w io.Writer, res *models.CalculationResult) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "%d instances of %s GB RAM (%s bound)\n",
		res.Allocation.InstanceCount, humanize.Ftoa(res.Allocation.RAMGB), res.Bottleneck)
}
