package cli

import (
	"github.com/spf13/cobra"

	"rentab/internal/scenario"
)

// addScenarioFlags registers the flags that override scenario fields.
// Defaults come from the [defaults] section of the configuration.
func addScenarioFlags(cmd *cobra.Command, app *App) {
	d := app.Config.Defaults
	f := cmd.Flags()

	f.String("scenario", "", "YAML scenario file to start from")
	f.Float64("notary-fees", app.Config.Assumptions.NotaryFeesPercent, "notary fees added when the price excludes them (percent)")

	f.Int("age", d.Age, "borrower age")
	f.Float64("revenue", d.MonthlyRevenue, "borrower monthly revenue")
	f.Float64("down-payment", d.DownPayment, "personal contribution")

	f.Float64("rate", d.AnnualRate, "annual loan rate (percent)")
	f.Int("duration", d.Duration, "loan duration (years)")

	f.Float64("price", d.PurchasePrice, "purchase price")
	f.Bool("notary-included", d.NotaryFeesIncluded, "purchase price already includes notary fees")
	f.Float64("works", d.WorksCost, "works cost")
	f.Float64("rent", d.MonthlyRent, "expected monthly rent")
	f.Float64("property-tax", d.PropertyTax, "annual property tax")
	f.Float64("condo-fees", d.CondoFees, "annual condominium fees")
	f.Float64("management", d.ManagementFeePercent, "management fees (percent of rent)")
	f.Int("holding-years", d.HoldingYears, "holding period in years (0 = loan duration)")
	f.Float64("resale-value", d.ResaleValue, "expected resale value (0 = 2% yearly appreciation)")
}

// resolveScenario layers config defaults, the optional scenario file and
// explicitly set flags, in that order.
func resolveScenario(cmd *cobra.Command, app *App) (scenario.Scenario, float64, error) {
	s := app.Config.Defaults
	f := cmd.Flags()

	if path, _ := f.GetString("scenario"); path != "" {
		loaded, err := scenario.Load(path, s)
		if err != nil {
			return s, 0, err
		}
		s = loaded
		app.Logger.Debug().Str("path", path).Msg("Scenario file loaded")
	}

	setInt := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}

	setInt("age", &s.Age)
	setFloat("revenue", &s.MonthlyRevenue)
	setFloat("down-payment", &s.DownPayment)
	setFloat("rate", &s.AnnualRate)
	setInt("duration", &s.Duration)
	setFloat("price", &s.PurchasePrice)
	if f.Changed("notary-included") {
		s.NotaryFeesIncluded, _ = f.GetBool("notary-included")
	}
	setFloat("works", &s.WorksCost)
	setFloat("rent", &s.MonthlyRent)
	setFloat("property-tax", &s.PropertyTax)
	setFloat("condo-fees", &s.CondoFees)
	setFloat("management", &s.ManagementFeePercent)
	setInt("holding-years", &s.HoldingYears)
	setFloat("resale-value", &s.ResaleValue)

	notary, _ := f.GetFloat64("notary-fees")
	return s, notary, nil
}
