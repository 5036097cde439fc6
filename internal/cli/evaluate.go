package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rentab/internal/logging"
	"rentab/internal/projection"
	"rentab/internal/rentability"
	"rentab/pkg/utils"
)

type evaluationOutput struct {
	Result     rentability.Result    `json:"result"`
	Projection projection.Projection `json:"projection"`
}

func newEvaluateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the profitability of a rental investment",
		Long: `Evaluate a rental investment: performance indicators, loan detail,
rent against monthly outflows and the yearly projection of capital repaid
against personal savings.`,
		Example: `  rentab evaluate
  rentab evaluate --price 180000 --rent 950 --rate 3.2 --duration 25
  rentab evaluate --scenario flat.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			logger := logging.WithOperation(app.Logger, "evaluate")

			s, notary, err := resolveScenario(cmd, app)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Evaluate(notary)
			if err != nil {
				logging.LogEvaluationError(logger, err)
				return err
			}
			logging.LogEvaluation(logger, result, time.Since(start))

			proj := projection.FromResult(result)
			if output.IsJSON() {
				return output.JSON(evaluationOutput{Result: result, Projection: proj})
			}

			renderEvaluation(output, result, proj)
			return nil
		},
	}

	addScenarioFlags(cmd, app)
	return cmd
}

func renderEvaluation(output *Output, r rentability.Result, p projection.Projection) {
	output.Box("Performance indicators", []string{
		fmt.Sprintf("Gross yield        %s", utils.FormatPercent(r.GrossYield)),
		fmt.Sprintf("Net yield          %s", output.Percent(r.NetYield)),
		fmt.Sprintf("Monthly cash flow  %s", output.CashFlow(r.MonthlyCashFlow)),
		fmt.Sprintf("IRR                %s", output.Percent(r.IRR)),
	})
	output.Println()

	output.Bold("Loan")
	loan := NewTable(output, "ITEM", "VALUE")
	loan.AddRow("Loan amount", utils.FormatEuro(r.LoanAmount))
	loan.AddRow("Down payment", utils.FormatEuro(r.DownPayment))
	loan.AddRow("Duration", fmt.Sprintf("%d years", r.Duration))
	loan.AddRow("Annual rate", utils.FormatPercent(r.AnnualRate))
	loan.AddRow("Monthly payment", utils.FormatEuro(r.MonthlyPayment))
	loan.AddRow("Total repaid", utils.FormatEuro(r.TotalLoanCost))
	loan.AddRow("Total interest", utils.FormatEuro(r.TotalInterest))
	loan.AddRow("Max affordable loan", utils.FormatEuro(r.MaxAffordableLoan))
	loan.Render()
	if r.Affordable {
		output.Success("✓ Loan fits within the debt-to-income limit")
	} else {
		output.Warning("⚠ Loan exceeds the debt-to-income limit")
	}
	output.Println()

	m := p.Monthly
	output.Bold("Rent vs monthly outflows")
	monthly := NewTable(output, "ITEM", "AMOUNT")
	monthly.AddRow("Rent", utils.FormatEuro(m.Rent))
	monthly.AddRow("Loan payment", utils.FormatEuro(m.LoanPayment))
	monthly.AddRow("Tax and condo fees", utils.FormatEuro(m.FixedCharges))
	monthly.AddRow("Management", utils.FormatEuro(m.ManagementFee))
	monthly.AddRow("Total outflows", utils.FormatEuro(m.TotalOutflows))
	monthly.AddRow("Balance", output.CashFlow(m.MonthlyBalance))
	monthly.Render()
	output.Println()

	output.Bold("Capital repaid vs personal savings")
	years := NewTable(output, "YEAR", "CAPITAL", "LOAN COST", "SAVINGS")
	for _, pt := range p.Years {
		years.AddRow(
			fmt.Sprintf("%d", pt.Year),
			utils.FormatEuro(pt.CapitalRepaid),
			utils.FormatEuro(pt.LoanCost),
			utils.FormatEuro(pt.SavingsEffort),
		)
	}
	years.Render()
	output.Dim("Resale after %d years: %s", r.HoldingYears, utils.FormatEuro(r.ResaleValue))
}
