package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/render"
	"github.com/warp/schedule-engine/schedule"
)

// Duration bounds for pay-as-you-go plans.
const (
	MinDuration     = 1
	MaxDuration     = 24
	DefaultDuration = 12
)

type scheduleOpts struct {
	program   string
	frequency string
	plan      string
	duration  int
	start     string
	table     bool
	csv       bool
}

func newScheduleCmd(app *App, flags *catalogFlags) *cobra.Command {
	opts := &scheduleOpts{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Render the test timeline for one payment plan",
		Example: `  schedulectl schedule --program "CORE HEALTH" --frequency "Test Monthly" --plan "12-month plan"
  schedulectl schedule --program "CORE HEALTH" --frequency "Test Quarterly" --plan "Pay as you go" --duration 18 --table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load(cmd.Context(), app)
			if err != nil {
				return err
			}
			return runSchedule(cmd, app, cat, opts)
		},
	}

	cmd.Flags().StringVar(&opts.program, "program", "", "program name")
	cmd.Flags().StringVar(&opts.frequency, "frequency", "", "frequency label")
	cmd.Flags().StringVar(&opts.plan, "plan", "", "payment plan label")
	cmd.Flags().IntVar(&opts.duration, "duration", DefaultDuration, "months, pay-as-you-go plans only (1-24)")
	cmd.Flags().StringVar(&opts.start, "start", "", "start date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&opts.table, "table", false, "also print the occurrence table")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "print CSV only")
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("frequency")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runSchedule(cmd *cobra.Command, app *App, cat *catalog.Catalog, opts *scheduleOpts) error {
	program, err := cat.Program(opts.program)
	if err != nil {
		return err
	}
	record, err := cat.Resolve(opts.program, opts.frequency, opts.plan)
	if err != nil {
		return err
	}

	start := app.Today()
	if opts.start != "" {
		start, err = schedule.ParseISODate(opts.start)
		if err != nil {
			return errors.Wrapf(err, "invalid --start %q", opts.start)
		}
	}

	override := 0
	if catalog.IsPayAsYouGo(opts.plan) {
		if opts.duration < MinDuration || opts.duration > MaxDuration {
			return errors.Newf("--duration must be between %d and %d, got %d", MinDuration, MaxDuration, opts.duration)
		}
		override = opts.duration
	}

	res, err := schedule.NewCalculator(app.Options).Compute(record, start, override)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.csv {
		return render.WriteCSV(out, res.Rows())
	}

	fmt.Fprint(out, render.Timeline(render.View{
		Title:   render.Title(opts.program, opts.frequency, opts.plan),
		Display: program.Display,
		Result:  res,
	}))
	if opts.table {
		fmt.Fprintln(out)
		fmt.Fprint(out, render.Table(res.Rows()))
	}
	return nil
}
