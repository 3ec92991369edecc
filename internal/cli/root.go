// Package cli defines the aegis-calc command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
)

type rootOptions struct {
	locale   string
	jsonOut  bool
	parallel int
}

// NewRootCmd builds the aegis-calc command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "aegis-calc",
		Short: "MTBF, MTTR and availability calculator",
		Long: `Computes mean time between failures, mean time to repair and availability
from individual durations or aggregate totals.

Durations are decimal hours ("2.5" or "2,5") or colon tokens
("hh:mm:ss", "mm:ss", "ss").`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.locale, "locale", calculator.DefaultLocale, "locale for number formatting")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		newTimeMetricCmd(opts, "mtbf"),
		newTimeMetricCmd(opts, "mttr"),
		newAvailabilityCmd(opts),
		newScenarioCmd(opts),
	)

	return rootCmd
}

// Execute runs the root command with os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) printer() (*calculator.Printer, error) {
	return calculator.NewPrinter(o.locale)
}

// printOutput writes a result and turns a calculation error into the
// command's error
func (o *rootOptions) printOutput(w io.Writer, out calculator.Output) error {
	if o.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else if out.Err == nil {
		fmt.Fprintln(w, out.Text)
		if out.Notes != "" {
			fmt.Fprintln(w, out.Notes)
		}
	}

	return out.Err
}
