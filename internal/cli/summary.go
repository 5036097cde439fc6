package cli

import (
	"github.com/spf13/cobra"

	"rentab/internal/borrower"
	"rentab/internal/loan"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the borrower profile and borrowing capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			s, _, err := resolveScenario(cmd, app)
			if err != nil {
				return err
			}

			profile, err := borrower.NewProfile(s.Age, s.MonthlyRevenue, s.DownPayment)
			if err != nil {
				return err
			}
			calc, err := loan.New(s.AnnualRate, s.Duration, profile)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"age":                 profile.Age(),
					"monthly_revenue":     profile.MonthlyRevenue(),
					"down_payment":        profile.DownPayment(),
					"max_monthly_payment": calc.MaxMonthlyPayment(),
					"max_affordable_loan": calc.MaxAffordableLoan(),
				})
			}

			output.Println(profile.Summary())
			output.Println()
			output.Info("Borrowing capacity at %.2f%% over %d years: %.2f€ (max payment %.2f€/month)",
				calc.AnnualRatePercent(), calc.Years(), calc.MaxAffordableLoan(), calc.MaxMonthlyPayment())
			return nil
		},
	}

	addScenarioFlags(cmd, app)
	return cmd
}

func newLoanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Show the loan summary for the scenario",
		Long: `Show capital, payment, total repaid and interest for the loan financing
the scenario's total acquisition cost, or for --amount when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			s, notary, err := resolveScenario(cmd, app)
			if err != nil {
				return err
			}

			profile, err := borrower.NewProfile(s.Age, s.MonthlyRevenue, s.DownPayment)
			if err != nil {
				return err
			}
			calc, err := loan.New(s.AnnualRate, s.Duration, profile)
			if err != nil {
				return err
			}

			amount := s.EffectivePurchasePrice(notary) + s.WorksCost
			if cmd.Flags().Changed("amount") {
				amount, _ = cmd.Flags().GetFloat64("amount")
			}

			payment, err := calc.MonthlyPayment(amount)
			if err != nil {
				return err
			}
			affordable, err := calc.IsAffordable(amount)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				total, _ := calc.TotalPayment(amount)
				interest, _ := calc.TotalInterest(amount)
				return output.JSON(map[string]interface{}{
					"capital":             amount,
					"annual_rate":         calc.AnnualRatePercent(),
					"duration":            calc.Years(),
					"monthly_payment":     payment,
					"total_payment":       total,
					"total_interest":      interest,
					"max_affordable_loan": calc.MaxAffordableLoan(),
					"affordable":          affordable,
				})
			}

			summary, err := calc.Summary(amount)
			if err != nil {
				return err
			}
			output.Println(summary)
			output.Println()
			if affordable {
				output.Success("✓ Affordable (limit %.2f€)", calc.MaxAffordableLoan())
			} else {
				output.Warning("⚠ Not affordable (limit %.2f€)", calc.MaxAffordableLoan())
			}
			return nil
		},
	}

	addScenarioFlags(cmd, app)
	cmd.Flags().Float64("amount", 0, "loan capital (default: total acquisition cost)")
	return cmd
}

func newScenarioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Print the resolved scenario as YAML",
		Long: `Print the scenario after applying defaults, --scenario and flags. The
output can be saved and passed back with --scenario.`,
		Example: `  rentab scenario --price 180000 --rent 950 > flat.yaml
  rentab evaluate --scenario flat.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)

			s, _, err := resolveScenario(cmd, app)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(s)
			}
			data, err := s.Marshal()
			if err != nil {
				return err
			}
			_, err = output.Write(data)
			return err
		},
	}

	addScenarioFlags(cmd, app)
	return cmd
}
