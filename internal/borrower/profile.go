// Package borrower holds the borrower's financial attributes.
package borrower

import (
	"fmt"
	"math"

	apperrors "rentab/internal/errors"
)

// Profile is an immutable snapshot of the borrower's finances.
type Profile struct {
	age            int
	monthlyRevenue float64
	downPayment    float64
}

// NewProfile validates and creates a Profile. downPayment is the cash
// contribution ("apport") that is not financed by the loan.
func NewProfile(age int, monthlyRevenue, downPayment float64) (*Profile, error) {
	if age <= 0 {
		return nil, apperrors.NewValidationError("age", age, "must be positive")
	}
	if err := nonNegative("monthly_revenue", monthlyRevenue); err != nil {
		return nil, err
	}
	if err := nonNegative("down_payment", downPayment); err != nil {
		return nil, err
	}

	return &Profile{
		age:            age,
		monthlyRevenue: monthlyRevenue,
		downPayment:    downPayment,
	}, nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperrors.NewValidationError(field, v, "must be a finite number")
	}
	if v < 0 {
		return apperrors.NewValidationError(field, v, "must not be negative")
	}
	return nil
}

// Age returns the borrower's age in years.
func (p *Profile) Age() int { return p.age }

// MonthlyRevenue returns the borrower's monthly revenue.
func (p *Profile) MonthlyRevenue() float64 { return p.monthlyRevenue }

// DownPayment returns the borrower's cash contribution.
func (p *Profile) DownPayment() float64 { return p.downPayment }

// Summary renders the profile as a multi-line block.
func (p *Profile) Summary() string {
	return fmt.Sprintf(
		"Profile Information:\nMonthly Revenue: %.2f€\nAge: %d years\nDown Payment: %.2f€",
		p.monthlyRevenue, p.age, p.downPayment,
	)
}

func (p *Profile) String() string {
	return fmt.Sprintf("Profile(revenue=%.2f€, age=%d, down_payment=%.2f€)", p.monthlyRevenue, p.age, p.downPayment)
}
