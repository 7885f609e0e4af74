package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/render"
)

func newProgramsCmd(app *App, flags *catalogFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List programs, frequencies and payment plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load(cmd.Context(), app)
			if err != nil {
				return err
			}

			var rows [][]string
			cat.Walk(func(p catalog.Program, f catalog.Frequency, plan catalog.PaymentPlan) {
				rows = append(rows, []string{
					p.Name, f.Label, plan.Label,
					plan.Record.PricePerOccurrence.Short(),
					cadenceText(plan.Record.Cadence),
					durationText(plan),
				})
			})

			fmt.Fprint(cmd.OutOrStdout(), render.RenderTable(
				[]string{"Program", "Frequency", "Plan", "Price", "Cadence", "Duration"}, rows))
			return nil
		},
	}
}

func cadenceText(c catalog.Cadence) string {
	switch {
	case c.Unit == catalog.CadenceNone:
		return "-"
	case c.IsOnce():
		return "once"
	default:
		return fmt.Sprintf("every %d %s", c.Every, c.Unit)
	}
}

func durationText(plan catalog.PaymentPlan) string {
	if plan.Record.HasFixedDuration() {
		return fmt.Sprintf("%d months", plan.Record.DurationMonths)
	}
	if plan.PayAsYouGo() {
		return "1-24 months"
	}
	return "-"
}
