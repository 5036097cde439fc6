// Package loan computes amortized payments and borrowing capacity.
package loan

import (
	"fmt"
	"math"

	"rentab/internal/borrower"
	apperrors "rentab/internal/errors"
)

// MaxDebtToIncomeRatio is the share of monthly revenue a loan payment may take.
const MaxDebtToIncomeRatio = 0.33

// MaxYears bounds loan and holding durations.
const MaxYears = 100

// Calculator amortizes a principal over fixed terms for one borrower.
type Calculator struct {
	annualRatePercent float64
	years             int
	borrower          *borrower.Profile
}

// New validates the loan terms and creates a Calculator.
func New(annualRatePercent float64, years int, profile *borrower.Profile) (*Calculator, error) {
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) {
		return nil, apperrors.NewValidationError("annual_rate", annualRatePercent, "must be a finite number")
	}
	if annualRatePercent < 0 {
		return nil, apperrors.NewValidationError("annual_rate", annualRatePercent, "must not be negative")
	}
	if years < 1 {
		return nil, apperrors.NewValidationError("years", years, "must be at least 1")
	}
	if years > MaxYears {
		return nil, apperrors.NewValidationError("years", years, fmt.Sprintf("must be at most %d", MaxYears))
	}
	if profile == nil {
		return nil, apperrors.NewValidationError("borrower", nil, "profile is required")
	}

	return &Calculator{
		annualRatePercent: annualRatePercent,
		years:             years,
		borrower:          profile,
	}, nil
}

// AnnualRatePercent returns the nominal annual rate in percent.
func (c *Calculator) AnnualRatePercent() float64 { return c.annualRatePercent }

// Years returns the loan duration.
func (c *Calculator) Years() int { return c.years }

// Borrower returns the profile the loan was sized for.
func (c *Calculator) Borrower() *borrower.Profile { return c.borrower }

// MonthlyRate returns the periodic rate.
func (c *Calculator) MonthlyRate() float64 {
	return c.annualRatePercent / 100 / 12
}

// NumberOfPayments returns the number of monthly installments.
func (c *Calculator) NumberOfPayments() int {
	return c.years * 12
}

// annuityFactor is the present value of one unit paid each month over the
// term. It degrades to the payment count when the rate is zero.
func (c *Calculator) annuityFactor() float64 {
	i := c.MonthlyRate()
	n := float64(c.NumberOfPayments())
	if i == 0 {
		return n
	}
	return (1 - math.Pow(1+i, -n)) / i
}

// MaxMonthlyPayment returns the largest installment the borrower's revenue allows.
func (c *Calculator) MaxMonthlyPayment() float64 {
	return c.borrower.MonthlyRevenue() * MaxDebtToIncomeRatio
}

// MaxAffordableLoan returns the largest principal whose installment stays
// within MaxDebtToIncomeRatio of the borrower's revenue.
func (c *Calculator) MaxAffordableLoan() float64 {
	return c.MaxMonthlyPayment() * c.annuityFactor()
}

// IsAffordable reports whether amount is within MaxAffordableLoan.
func (c *Calculator) IsAffordable(amount float64) (bool, error) {
	if err := validateAmount(amount); err != nil {
		return false, err
	}
	return amount <= c.MaxAffordableLoan(), nil
}

// MonthlyPayment returns the fixed installment repaying amount over the term.
func (c *Calculator) MonthlyPayment(amount float64) (float64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}
	return c.monthlyPayment(amount), nil
}

func (c *Calculator) monthlyPayment(amount float64) float64 {
	i := c.MonthlyRate()
	if i == 0 {
		return amount / float64(c.NumberOfPayments())
	}
	return (amount * i) / (1 - math.Pow(1+i, -float64(c.NumberOfPayments())))
}

// TotalPayment returns the sum of all installments for amount.
func (c *Calculator) TotalPayment(amount float64) (float64, error) {
	payment, err := c.MonthlyPayment(amount)
	if err != nil {
		return 0, err
	}
	return payment * float64(c.NumberOfPayments()), nil
}

// TotalInterest returns the cost of credit for amount.
func (c *Calculator) TotalInterest(amount float64) (float64, error) {
	total, err := c.TotalPayment(amount)
	if err != nil {
		return 0, err
	}
	return total - amount, nil
}

// Summary renders the loan terms and costs for amount.
func (c *Calculator) Summary(amount float64) (string, error) {
	payment, err := c.MonthlyPayment(amount)
	if err != nil {
		return "", err
	}
	total := payment * float64(c.NumberOfPayments())

	return fmt.Sprintf(
		"Loan Summary:\nCapital: %.2f€\nAnnual Interest Rate: %.2f%%\nYears: %d\nMonthly Payment: %.2f€\nTotal Payment: %.2f€\nTotal Interest Paid: %.2f€",
		amount, c.annualRatePercent, c.years, payment, total, total-amount,
	), nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperrors.NewValidationError("loan_amount", amount, "must be a finite number")
	}
	if amount < 0 {
		return apperrors.NewValidationError("loan_amount", amount, "must not be negative")
	}
	return nil
}
