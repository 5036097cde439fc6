package rentability

// Result is the set of indicators produced by one evaluation. Amounts are
// in currency units, yields and rates in percent, all rounded to 2 decimals.
type Result struct {
	GrossYield      float64 `json:"gross_yield" yaml:"gross_yield"`
	NetYield        float64 `json:"net_yield" yaml:"net_yield"`
	MonthlyCashFlow float64 `json:"monthly_cash_flow" yaml:"monthly_cash_flow"`
	IRR             float64 `json:"irr" yaml:"irr"`

	LoanAmount        float64 `json:"loan_amount" yaml:"loan_amount"`
	MonthlyPayment    float64 `json:"monthly_payment" yaml:"monthly_payment"`
	TotalLoanCost     float64 `json:"total_loan_cost" yaml:"total_loan_cost"`
	TotalInterest     float64 `json:"total_interest" yaml:"total_interest"`
	MaxAffordableLoan float64 `json:"max_affordable_loan" yaml:"max_affordable_loan"`
	Affordable        bool    `json:"affordable" yaml:"affordable"`
	AnnualRate        float64 `json:"annual_rate" yaml:"annual_rate"`
	Duration          int     `json:"duration" yaml:"duration"`
	DownPayment       float64 `json:"down_payment" yaml:"down_payment"`

	HoldingYears         int     `json:"holding_years" yaml:"holding_years"`
	PurchasePrice        float64 `json:"purchase_price" yaml:"purchase_price"`
	WorksCost            float64 `json:"works_cost" yaml:"works_cost"`
	TotalAcquisitionCost float64 `json:"total_acquisition_cost" yaml:"total_acquisition_cost"`
	ResaleValue          float64 `json:"resale_value" yaml:"resale_value"`

	// Raw inputs echoed for chart reconstruction.
	MonthlyRent   float64 `json:"monthly_rent" yaml:"monthly_rent"`
	PropertyTax   float64 `json:"property_tax" yaml:"property_tax"`
	CondoFees     float64 `json:"condo_fees" yaml:"condo_fees"`
	ManagementFee float64 `json:"management_fee" yaml:"management_fee"`
}

// MonthlyOutflows is the total of payment, fixed charges and management.
func (r Result) MonthlyOutflows() float64 {
	return r.MonthlyPayment + (r.PropertyTax+r.CondoFees)/12 + r.ManagementFee
}
