// Package scenario converts raw shell inputs into a configured evaluator.
package scenario

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"

	"rentab/internal/borrower"
	apperrors "rentab/internal/errors"
	"rentab/internal/loan"
	"rentab/internal/rentability"
)

// DefaultNotaryFeesPercent is added to the purchase price when the listed
// price excludes notary fees.
const DefaultNotaryFeesPercent = 8.0

// Scenario holds the inputs as a user enters them.
type Scenario struct {
	Age            int     `json:"age" yaml:"age" mapstructure:"age"`
	MonthlyRevenue float64 `json:"monthly_revenue" yaml:"monthly_revenue" mapstructure:"monthly_revenue"`
	DownPayment    float64 `json:"down_payment" yaml:"down_payment" mapstructure:"down_payment"`

	AnnualRate float64 `json:"annual_rate" yaml:"annual_rate" mapstructure:"annual_rate"`
	Duration   int     `json:"duration" yaml:"duration" mapstructure:"duration"`

	PurchasePrice        float64 `json:"purchase_price" yaml:"purchase_price" mapstructure:"purchase_price"`
	NotaryFeesIncluded   bool    `json:"notary_fees_included" yaml:"notary_fees_included" mapstructure:"notary_fees_included"`
	WorksCost            float64 `json:"works_cost" yaml:"works_cost" mapstructure:"works_cost"`
	MonthlyRent          float64 `json:"monthly_rent" yaml:"monthly_rent" mapstructure:"monthly_rent"`
	PropertyTax          float64 `json:"property_tax" yaml:"property_tax" mapstructure:"property_tax"`
	CondoFees            float64 `json:"condo_fees" yaml:"condo_fees" mapstructure:"condo_fees"`
	ManagementFeePercent float64 `json:"management_fee_percent" yaml:"management_fee_percent" mapstructure:"management_fee_percent"`

	// HoldingYears of zero holds the property for the loan duration.
	HoldingYears int `json:"holding_years,omitempty" yaml:"holding_years,omitempty" mapstructure:"holding_years"`
	// ResaleValue of zero uses the appreciation model.
	ResaleValue float64 `json:"resale_value,omitempty" yaml:"resale_value,omitempty" mapstructure:"resale_value"`
}

// Default returns the inputs a blank form starts with.
func Default() Scenario {
	return Scenario{
		Age:                  30,
		MonthlyRevenue:       4000,
		DownPayment:          10000,
		AnnualRate:           3.5,
		Duration:             20,
		PurchasePrice:        140000,
		NotaryFeesIncluded:   true,
		WorksCost:            0,
		MonthlyRent:          850,
		PropertyTax:          1000,
		CondoFees:            500,
		ManagementFeePercent: 0,
	}
}

// Load reads a YAML scenario file on top of base. Keys missing from the
// file keep the value from base.
func Load(path string, base Scenario) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, apperrors.Wrapf(apperrors.ErrScenarioNotFound, "%s", path)
		}
		return base, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	s := base
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return base, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return s, nil
}

// Marshal renders the scenario as YAML, the format Load reads.
func (s Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// EffectiveHoldingYears returns HoldingYears, defaulting to the loan duration.
func (s Scenario) EffectiveHoldingYears() int {
	if s.HoldingYears > 0 {
		return s.HoldingYears
	}
	return s.Duration
}

// EffectivePurchasePrice adds notary fees to the price when they are not
// already included.
func (s Scenario) EffectivePurchasePrice(notaryFeesPercent float64) float64 {
	if s.NotaryFeesIncluded {
		return s.PurchasePrice
	}
	return s.PurchasePrice * (1 + notaryFeesPercent/100)
}

// ManagementFeeAmount converts the management percentage into a monthly amount.
func (s Scenario) ManagementFeeAmount() float64 {
	return s.ManagementFeePercent / 100 * s.MonthlyRent
}

// Validate checks the inputs that only exist at the shell level. The
// financial inputs are validated by the components they feed.
func (s Scenario) Validate() error {
	if math.IsNaN(s.ManagementFeePercent) || s.ManagementFeePercent < 0 || s.ManagementFeePercent > 100 {
		return apperrors.NewValidationError("management_fee_percent", s.ManagementFeePercent, "must be between 0 and 100")
	}
	if s.HoldingYears < 0 {
		return apperrors.NewValidationError("holding_years", s.HoldingYears, "must not be negative")
	}
	return nil
}

// Build wires profile, loan and property into an evaluator.
func (s Scenario) Build(notaryFeesPercent float64) (*rentability.Evaluator, error) {
	if math.IsNaN(notaryFeesPercent) || notaryFeesPercent < 0 {
		return nil, apperrors.NewValidationError("notary_fees_percent", notaryFeesPercent, "must not be negative")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	profile, err := borrower.NewProfile(s.Age, s.MonthlyRevenue, s.DownPayment)
	if err != nil {
		return nil, apperrors.Wrap(err, "borrower profile")
	}

	calc, err := loan.New(s.AnnualRate, s.Duration, profile)
	if err != nil {
		return nil, apperrors.Wrap(err, "loan terms")
	}

	eval, err := rentability.New(rentability.Property{
		PurchasePrice:     s.EffectivePurchasePrice(notaryFeesPercent),
		WorksCost:         s.WorksCost,
		MonthlyRent:       s.MonthlyRent,
		AnnualPropertyTax: s.PropertyTax,
		AnnualCondoFees:   s.CondoFees,
		ManagementFee:     s.ManagementFeeAmount(),
		HoldingYears:      s.EffectiveHoldingYears(),
		ResaleValue:       s.ResaleValue,
	}, calc)
	if err != nil {
		return nil, apperrors.Wrap(err, "property")
	}
	return eval, nil
}

// Evaluate builds the evaluator and runs it.
func (s Scenario) Evaluate(notaryFeesPercent float64) (rentability.Result, error) {
	eval, err := s.Build(notaryFeesPercent)
	if err != nil {
		return rentability.Result{}, err
	}
	result, err := eval.Evaluate()
	if err != nil {
		return rentability.Result{}, apperrors.Wrap(err, "evaluation")
	}
	return result, nil
}
