// Package rentability evaluates the profitability of a financed rental property.
package rentability

import (
	"fmt"
	"math"

	apperrors "rentab/internal/errors"
	"rentab/internal/finance"
	"rentab/internal/loan"
)

// AnnualAppreciation is the yearly value growth assumed when no resale
// value is given.
const AnnualAppreciation = 0.02

// Property describes the investment being evaluated.
type Property struct {
	PurchasePrice     float64
	WorksCost         float64
	MonthlyRent       float64
	AnnualPropertyTax float64
	AnnualCondoFees   float64
	// ManagementFee is a monthly amount, not a percentage.
	ManagementFee float64
	HoldingYears  int
	// ResaleValue of zero selects PurchasePrice * (1+AnnualAppreciation)^HoldingYears.
	ResaleValue float64
}

// TotalAcquisitionCost is the purchase price plus works.
func (p Property) TotalAcquisitionCost() float64 {
	return p.PurchasePrice + p.WorksCost
}

// ExpectedResaleValue returns the explicit resale value or the appreciated price.
func (p Property) ExpectedResaleValue() float64 {
	if p.ResaleValue > 0 {
		return p.ResaleValue
	}
	return p.PurchasePrice * math.Pow(1+AnnualAppreciation, float64(p.HoldingYears))
}

// Validate checks that every formula of the evaluator is well-defined.
func (p Property) Validate() error {
	if err := finite("purchase_price", p.PurchasePrice); err != nil {
		return err
	}
	if p.PurchasePrice <= 0 {
		return apperrors.NewValidationError("purchase_price", p.PurchasePrice, "must be positive")
	}

	amounts := []struct {
		field string
		value float64
	}{
		{"works_cost", p.WorksCost},
		{"monthly_rent", p.MonthlyRent},
		{"property_tax", p.AnnualPropertyTax},
		{"condo_fees", p.AnnualCondoFees},
		{"management_fee", p.ManagementFee},
		{"resale_value", p.ResaleValue},
	}
	for _, a := range amounts {
		if err := finite(a.field, a.value); err != nil {
			return err
		}
		if a.value < 0 {
			return apperrors.NewValidationError(a.field, a.value, "must not be negative")
		}
	}

	if p.HoldingYears < 1 {
		return apperrors.NewValidationError("holding_years", p.HoldingYears, "must be at least 1")
	}
	if p.HoldingYears > loan.MaxYears {
		return apperrors.NewValidationError("holding_years", p.HoldingYears, fmt.Sprintf("must be at most %d", loan.MaxYears))
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperrors.NewValidationError(field, v, "must be a finite number")
	}
	return nil
}

// Evaluator derives cash flow, yields and IRR for a property financed by a loan.
// It is immutable after New and safe for concurrent use.
type Evaluator struct {
	property       Property
	calc           *loan.Calculator
	monthlyPayment float64
}

// New validates the property and binds it to the loan that finances it.
func New(property Property, calc *loan.Calculator) (*Evaluator, error) {
	if calc == nil {
		return nil, apperrors.NewValidationError("loan", nil, "loan calculator is required")
	}
	if err := property.Validate(); err != nil {
		return nil, err
	}

	payment, err := calc.MonthlyPayment(property.TotalAcquisitionCost())
	if err != nil {
		return nil, err
	}

	return &Evaluator{
		property:       property,
		calc:           calc,
		monthlyPayment: payment,
	}, nil
}

// Property returns the evaluated property.
func (e *Evaluator) Property() Property { return e.property }

// Loan returns the loan calculator financing the property.
func (e *Evaluator) Loan() *loan.Calculator { return e.calc }

// MonthlyExpenses is every monthly outflow: taxes, condo fees, management
// and the loan installment.
func (e *Evaluator) MonthlyExpenses() float64 {
	p := e.property
	return p.AnnualPropertyTax/12 + p.AnnualCondoFees/12 + p.ManagementFee + e.monthlyPayment
}

// MonthlyCashFlow is rent minus MonthlyExpenses. Negative means the owner
// tops up from other income.
func (e *Evaluator) MonthlyCashFlow() float64 {
	return e.property.MonthlyRent - e.MonthlyExpenses()
}

// CashFlows returns the monthly sequence used for IRR: the down payment as
// the initial outflow, then one cash flow per held month, with the resale
// proceeds added to the last one.
func (e *Evaluator) CashFlows() []float64 {
	months := e.property.HoldingYears * 12
	cf := e.MonthlyCashFlow()

	flows := make([]float64, months+1)
	flows[0] = -e.calc.Borrower().DownPayment()
	for i := 1; i <= months; i++ {
		flows[i] = cf
	}
	flows[months] += e.property.ExpectedResaleValue()
	return flows
}

// InternalRateOfReturn returns the annualized IRR in percent.
func (e *Evaluator) InternalRateOfReturn() (float64, error) {
	r, err := finance.IRR(e.CashFlows())
	if err != nil {
		return 0, err
	}

	annual := r * 12 * 100
	if math.IsNaN(annual) || math.IsInf(annual, 0) {
		return 0, apperrors.NewComputationError("irr", 0, "solver produced a non-finite rate")
	}
	return annual, nil
}

// GrossYield is annual rent over the purchase price, works excluded.
func (e *Evaluator) GrossYield() float64 {
	return e.property.MonthlyRent * 12 / e.property.PurchasePrice * 100
}

// NetYield is annual cash flow over the total acquisition cost, works included.
func (e *Evaluator) NetYield() float64 {
	return e.MonthlyCashFlow() * 12 / e.property.TotalAcquisitionCost() * 100
}

// Evaluate assembles every indicator into a Result.
func (e *Evaluator) Evaluate() (Result, error) {
	irr, err := e.InternalRateOfReturn()
	if err != nil {
		return Result{}, err
	}

	p := e.property
	amount := p.TotalAcquisitionCost()
	totalCost := e.monthlyPayment * float64(e.calc.NumberOfPayments())
	maxLoan := e.calc.MaxAffordableLoan()

	return Result{
		GrossYield:           finance.Round2(e.GrossYield()),
		NetYield:             finance.Round2(e.NetYield()),
		MonthlyCashFlow:      finance.Round2(e.MonthlyCashFlow()),
		IRR:                  finance.Round2(irr),
		LoanAmount:           finance.Round2(amount),
		MonthlyPayment:       finance.Round2(e.monthlyPayment),
		TotalLoanCost:        finance.Round2(totalCost),
		TotalInterest:        finance.Round2(totalCost - amount),
		MaxAffordableLoan:    finance.Round2(maxLoan),
		Affordable:           amount <= maxLoan,
		AnnualRate:           finance.Round2(e.calc.AnnualRatePercent()),
		Duration:             e.calc.Years(),
		DownPayment:          finance.Round2(e.calc.Borrower().DownPayment()),
		HoldingYears:         p.HoldingYears,
		PurchasePrice:        finance.Round2(p.PurchasePrice),
		WorksCost:            finance.Round2(p.WorksCost),
		TotalAcquisitionCost: finance.Round2(amount),
		ResaleValue:          finance.Round2(p.ExpectedResaleValue()),
		MonthlyRent:          finance.Round2(p.MonthlyRent),
		PropertyTax:          finance.Round2(p.AnnualPropertyTax),
		CondoFees:            finance.Round2(p.AnnualCondoFees),
		ManagementFee:        finance.Round2(p.ManagementFee),
	}, nil
}
