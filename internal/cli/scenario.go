package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/scenario"
)

// defaultParallel bounds concurrent scenario evaluations
const defaultParallel = 4

func newScenarioCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Validate or run what-if scenario files",
	}

	validateCmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate scenario YAML files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := scenario.NewValidator()
			if err != nil {
				return fmt.Errorf("failed to initialize validator: %w", err)
			}

			errs := validator.ValidateDirectory(args[0])
			if len(errs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ All scenario files are valid")
				return nil
			}

			printValidationErrors(cmd.ErrOrStderr(), errs)
			return fmt.Errorf("validation failed with %d error(s)", len(errs))
		},
	}

	runCmd := &cobra.Command{
		Use:   "run <dir>",
		Short: "Evaluate every valid scenario in a directory",
		Long: `Evaluates each valid scenario file and prints its results in file order.
Invalid files are reported and make the command fail after the valid ones
have been printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := scenario.NewValidator()
			if err != nil {
				return fmt.Errorf("failed to initialize validator: %w", err)
			}

			p, err := opts.printer()
			if err != nil {
				return err
			}

			scenarios, errs := validator.LoadDirectory(args[0])

			reports, err := evaluateAll(cmd.Context(), scenarios, p, opts.parallel)
			if err != nil {
				return err
			}

			if err := opts.printReports(cmd.OutOrStdout(), reports); err != nil {
				return err
			}

			if len(errs) > 0 {
				printValidationErrors(cmd.ErrOrStderr(), errs)
				return fmt.Errorf("%d scenario file error(s)", len(errs))
			}
			return nil
		},
	}
	runCmd.Flags().IntVar(&opts.parallel, "parallel", defaultParallel, "maximum scenarios evaluated at once")

	cmd.AddCommand(validateCmd, runCmd)
	return cmd
}

// evaluateAll runs scenarios concurrently and returns reports in input order
func evaluateAll(ctx context.Context, scenarios []scenario.ScenarioWithFile, p *calculator.Printer, parallel int) ([]scenario.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if parallel <= 0 {
		parallel = defaultParallel
	}

	reports := make([]scenario.Report, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, sf := range scenarios {
		i, sf := i, sf
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = scenario.Report{
				ID:      sf.Scenario.Metadata.ID,
				File:    sf.File,
				Results: sf.Scenario.Evaluate(p),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (o *rootOptions) printReports(w io.Writer, reports []scenario.Report) error {
	if o.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		fmt.Fprintf(w, "%s (%s)\n", r.ID, filepath.Base(r.File))
		for _, res := range r.Results {
			fmt.Fprintf(w, "  %-7s %s\n", res.Name+":", res.Output.Text)
			if res.Output.Notes != "" {
				fmt.Fprintf(w, "          %s\n", res.Output.Notes)
			}
		}
	}
	return nil
}

// printValidationErrors prints errors grouped by file
func printValidationErrors(w io.Writer, errs []scenario.ValidationError) {
	errorsByFile := make(map[string][]scenario.ValidationError)
	for _, err := range errs {
		errorsByFile[err.File] = append(errorsByFile[err.File], err)
	}

	var files []string
	for file := range errorsByFile {
		files = append(files, file)
	}
	sort.Strings(files)

	fmt.Fprintf(w, "✗ Validation failed with %d error(s):\n\n", len(errs))
	for _, file := range files {
		for _, err := range errorsByFile[file] {
			if err.Path != "" {
				fmt.Fprintf(w, "%s: %s: %s\n", filepath.Base(err.File), err.Path, err.Message)
			} else {
				fmt.Fprintf(w, "%s: %s\n", filepath.Base(err.File), err.Message)
			}
		}
	}
}
