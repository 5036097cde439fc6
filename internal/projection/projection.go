// Package projection rebuilds the yearly chart series from an evaluation result.
package projection

import (
	"math"

	"rentab/internal/finance"
	"rentab/internal/rentability"
)

// Point is one year of the projection.
type Point struct {
	Year int `json:"year"`
	// CapitalRepaid approximates principal repaid as linear over the loan term.
	CapitalRepaid float64 `json:"capital_repaid"`
	// LoanCost is the cumulative amount of installments paid.
	LoanCost float64 `json:"loan_cost"`
	// SavingsEffort is the down payment plus every monthly top-up so far.
	SavingsEffort float64 `json:"savings_effort"`
}

// MonthlyComparison sets rent against every monthly outflow.
type MonthlyComparison struct {
	Rent           float64 `json:"rent"`
	LoanPayment    float64 `json:"loan_payment"`
	FixedCharges   float64 `json:"fixed_charges"`
	ManagementFee  float64 `json:"management_fee"`
	TotalOutflows  float64 `json:"total_outflows"`
	MonthlyBalance float64 `json:"monthly_balance"`
}

// Projection holds every series a shell draws.
type Projection struct {
	Years   []Point           `json:"years"`
	Monthly MonthlyComparison `json:"monthly"`
}

// FromResult builds the projection over years 0..HoldingYears inclusive.
func FromResult(r rentability.Result) Projection {
	points := make([]Point, 0, r.HoldingYears+1)
	for year := 0; year <= r.HoldingYears; year++ {
		points = append(points, Point{
			Year:          year,
			CapitalRepaid: finance.Round2(capitalRepaid(r, year)),
			LoanCost:      finance.Round2(loanCost(r, year)),
			SavingsEffort: finance.Round2(savingsEffort(r, year)),
		})
	}

	fixed := (r.PropertyTax + r.CondoFees) / 12
	total := r.MonthlyOutflows()
	return Projection{
		Years: points,
		Monthly: MonthlyComparison{
			Rent:           r.MonthlyRent,
			LoanPayment:    r.MonthlyPayment,
			FixedCharges:   finance.Round2(fixed),
			ManagementFee:  r.ManagementFee,
			TotalOutflows:  finance.Round2(total),
			MonthlyBalance: finance.Round2(r.MonthlyRent - total),
		},
	}
}

// Installments stop once the loan term is over.
func paidYears(r rentability.Result, year int) float64 {
	if r.Duration <= 0 {
		return 0
	}
	return math.Min(float64(year), float64(r.Duration))
}

func capitalRepaid(r rentability.Result, year int) float64 {
	if r.Duration <= 0 {
		return 0
	}
	return r.LoanAmount * paidYears(r, year) / float64(r.Duration)
}

func loanCost(r rentability.Result, year int) float64 {
	return r.MonthlyPayment * 12 * paidYears(r, year)
}

func savingsEffort(r rentability.Result, year int) float64 {
	if r.MonthlyCashFlow >= 0 {
		return r.DownPayment
	}
	return r.DownPayment + math.Abs(r.MonthlyCashFlow)*12*float64(year)
}
