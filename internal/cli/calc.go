package cli

import (
	"github.com/spf13/cobra"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/eval"
)

func newTimeMetricCmd(opts *rootOptions, name string) *cobra.Command {
	kind := eval.Kind(name)
	var total, count string

	cmd := &cobra.Command{
		Use:   name + " [durations...]",
		Short: "Compute " + calculator.Label(kind) + " from samples or a total and count",
		Long: `Each argument is one observed duration. When at least one valid duration is
given the sample mean is used and --total/--count are ignored.`,
		Example: "  aegis-calc " + name + " 210 3:00:00 2:45:30\n  aegis-calc " + name + " --total 1000 --count 4",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.printer()
			if err != nil {
				return err
			}

			out := calculator.EvaluateTimeMetric(kind, calculator.TimeMetricSnapshot{
				Total: calculator.Token(total),
				Count: calculator.Token(count),
				Rows:  args,
			}, p)
			return opts.printOutput(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&total, "total", "", calculator.AggregateLabel(kind)+" (hours or hh:mm:ss)")
	cmd.Flags().StringVar(&count, "count", "", "number of events")

	return cmd
}

func newAvailabilityCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Compute steady-state or period availability",
	}

	cmd.AddCommand(newSteadyCmd(opts), newPeriodCmd(opts))
	return cmd
}

func newSteadyCmd(opts *rootOptions) *cobra.Command {
	var mtbf, mttr string

	cmd := &cobra.Command{
		Use:     "steady",
		Short:   "Estimate availability as MTBF / (MTBF + MTTR)",
		Example: "  aegis-calc availability steady --mtbf 200 --mttr 2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.printer()
			if err != nil {
				return err
			}

			out := calculator.EvaluateSteady(calculator.AvailabilitySnapshot{
				MTBF: calculator.Token(mtbf),
				MTTR: calculator.Token(mttr),
			}, p)
			return opts.printOutput(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&mtbf, "mtbf", "", "mean time between failures")
	cmd.Flags().StringVar(&mttr, "mttr", "", "mean time to repair")

	return cmd
}

func newPeriodCmd(opts *rootOptions) *cobra.Command {
	var period, down, failures, mttr string

	cmd := &cobra.Command{
		Use:   "period [downtimes...]",
		Short: "Compute availability over a fixed period",
		Long: `Uses, in order of preference: individual downtimes given as arguments,
the --down total, or --failures multiplied by the --mttr estimate.`,
		Example: "  aegis-calc availability period --period 720 02:30:00 01:15:00\n" +
			"  aegis-calc availability period --period 720 --down 12\n" +
			"  aegis-calc availability period --period 100 --failures 3 --mttr 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.printer()
			if err != nil {
				return err
			}

			out := calculator.EvaluatePeriod(calculator.AvailabilitySnapshot{
				MTTR:     calculator.Token(mttr),
				Period:   calculator.Token(period),
				Down:     calculator.Token(down),
				Failures: calculator.Token(failures),
				Rows:     args,
			}, p)
			return opts.printOutput(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "total period length")
	cmd.Flags().StringVar(&down, "down", "", "total downtime in the period")
	cmd.Flags().StringVar(&failures, "failures", "", "number of failures in the period")
	cmd.Flags().StringVar(&mttr, "mttr", "", "MTTR estimate used with --failures")

	return cmd
}
