package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"rentab/internal/sweep"
	"rentab/pkg/utils"
)

func newSweepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare loan rates and durations",
		Long: `Re-evaluate the scenario for every combination of loan rate and
duration. Rates are "start:end:step" (inclusive) or a comma-separated list.`,
		Example: `  rentab sweep --rates 2.5:4.5:0.25
  rentab sweep --rates 3,3.5,4 --durations 15,20,25 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			s, notary, err := resolveScenario(cmd, app)
			if err != nil {
				return err
			}

			grid, err := sweepGrid(cmd, s.Duration)
			if err != nil {
				return err
			}

			workers, _ := cmd.Flags().GetInt("workers")
			runner := sweep.NewRunner(workers, notary, app.Logger)
			cells, err := runner.Run(cmd.Context(), s, grid)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(cells)
			}
			renderSweep(output, cells)
			return nil
		},
	}

	addScenarioFlags(cmd, app)
	addSweepFlags(cmd, app, "2.5:4.5:0.25")
	return cmd
}

func addSweepFlags(cmd *cobra.Command, app *App, defaultRates string) {
	cmd.Flags().String("rates", defaultRates, "annual rates: start:end:step or comma-separated list")
	cmd.Flags().String("durations", "", "comma-separated loan durations in years (default: scenario duration)")
	cmd.Flags().Int("workers", app.Config.Sweep.Workers, "concurrent evaluations (0 = number of CPUs)")
}

func sweepGrid(cmd *cobra.Command, scenarioDuration int) (sweep.Grid, error) {
	rateInput, _ := cmd.Flags().GetString("rates")
	rates, err := sweep.ParseRates(rateInput)
	if err != nil {
		return sweep.Grid{}, err
	}

	durationInput, _ := cmd.Flags().GetString("durations")
	if durationInput == "" {
		durationInput = strconv.Itoa(scenarioDuration)
	}
	durations, err := sweep.ParseDurations(durationInput)
	if err != nil {
		return sweep.Grid{}, err
	}

	return sweep.Grid{Rates: rates, Durations: durations}, nil
}

func renderSweep(output *Output, cells []sweep.Cell) {
	table := NewTable(output, "RATE", "YEARS", "PAYMENT", "CASH FLOW", "NET YIELD", "IRR", "AFFORDABLE")
	for _, c := range cells {
		if c.Err != nil {
			table.AddRow(utils.FormatPercent(c.Rate), strconv.Itoa(c.Duration), output.Red(c.Error), "", "", "", "")
			continue
		}
		affordable := output.Green("yes")
		if !c.Result.Affordable {
			affordable = output.Red("no")
		}
		table.AddRow(
			utils.FormatPercent(c.Rate),
			strconv.Itoa(c.Duration),
			utils.FormatEuro(c.Result.MonthlyPayment),
			output.CashFlow(c.Result.MonthlyCashFlow),
			output.Percent(c.Result.NetYield),
			output.Percent(c.Result.IRR),
			affordable,
		)
	}
	table.Render()

	if best, ok := sweep.Best(cells); ok {
		output.Println()
		output.Info("Best IRR: %s at %s", utils.FormatPercent(best.Result.IRR), utils.FormatRate(best.Rate, best.Duration))
	} else {
		output.Println()
		output.Warning("No combination could be evaluated (%d tried)", len(cells))
	}
}
