package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"metaobj/pkg/conformance"
)

const faint = color.Faint

func getCmdRun(gs *globalState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenarios",
		Long: `Run the scenarios on a pool of workers, each in a fresh runtime.

The exit code is 1 when any scenario fails.`,
		Example: `  metaobj-conform run --tags proxy
  metaobj-conform run -f '^array/' --workers 1 --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenarios, err := selectScenarios(cmd.Flags())
			if err != nil {
				return err
			}
			workers, err := cmd.Flags().GetInt("workers")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			return gs.runScenarios(cmd.Context(), scenarios, workers, verbose)
		},
	}
	flags := cmd.Flags()
	flags.SortFlags = false
	flags.AddFlagSet(filterFlagSet())
	flags.IntP("workers", "w", 0, "number of workers, 0 means one per CPU")
	flags.BoolP("verbose", "v", false, "show timings for every scenario")
	return cmd
}

func (gs *globalState) runScenarios(ctx context.Context, scenarios []conformance.Scenario, workers int, verbose bool) error {
	report, err := conformance.Run(ctx, scenarios, conformance.Options{
		Workers: workers,
		Config:  gs.config,
		Logger:  gs.logger,
		OnResult: func(res *conformance.Result) {
			gs.logger.WithFields(logrus.Fields{
				"scenario": res.Name,
				"worker":   res.WorkerID,
				"passed":   res.Passed(),
			}).Debug("scenario finished")
		},
	})
	if report != nil {
		gs.printReport(report, verbose)
	}
	if err != nil {
		return err
	}
	if failed := len(report.Failed()); failed > 0 {
		return withExitCodeIfNone(fmt.Errorf("%d of %d scenarios failed", failed, len(report.Results)), exitFailed)
	}
	return nil
}

func (gs *globalState) printReport(report *conformance.Report, verbose bool) {
	for _, res := range report.Results {
		status := gs.paint(color.FgGreen, "PASS")
		if !res.Passed() {
			status = gs.paint(color.FgRed, "FAIL")
		}
		line := status + " " + res.Name
		if verbose {
			line += " " + gs.paint(faint, fmt.Sprintf("(%v, worker %d)", res.Duration, res.WorkerID))
		}
		fmt.Fprintln(gs.stdout, line)
		if res.Err != nil {
			for _, msg := range strings.Split(res.Err.Error(), "\n") {
				fmt.Fprintf(gs.stdout, "     %s\n", msg)
			}
		}
	}

	failed := len(report.Failed())
	summary := fmt.Sprintf("%d passed, %d failed", report.Passed(), failed)
	if failed > 0 {
		summary = gs.paint(color.FgRed, summary)
	} else {
		summary = gs.paint(color.FgGreen, summary)
	}
	fmt.Fprintf(gs.stdout, "\n%d scenarios, %s\n", len(report.Results), summary)
	if verbose {
		fmt.Fprintf(gs.stdout, "duration %v, average %v\n", report.Duration, report.Stats.AverageTime)
	}
}
