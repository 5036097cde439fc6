package projection

import (
	"testing"

	"rentab/internal/rentability"
)

func sampleResult() rentability.Result {
	return rentability.Result{
		MonthlyCashFlow: -86.94,
		LoanAmount:      140000,
		MonthlyPayment:  811.94,
		Duration:        20,
		DownPayment:     10000,
		HoldingYears:    20,
		MonthlyRent:     850,
		PropertyTax:     1000,
		CondoFees:       500,
	}
}

func TestFromResult_Years(t *testing.T) {
	p := FromResult(sampleResult())

	if len(p.Years) != 21 {
		t.Fatalf("expected 21 points (0..20), got %d", len(p.Years))
	}

	first, last := p.Years[0], p.Years[20]
	if first.CapitalRepaid != 0 || first.LoanCost != 0 || first.SavingsEffort != 10000 {
		t.Errorf("unexpected year 0: %+v", first)
	}
	if last.CapitalRepaid != 140000 {
		t.Errorf("expected full capital repaid at term, got %.2f", last.CapitalRepaid)
	}
	if last.LoanCost != 194865.6 {
		t.Errorf("expected loan cost 194865.60, got %.2f", last.LoanCost)
	}
	if last.SavingsEffort != 30865.6 {
		t.Errorf("expected savings effort 30865.60, got %.2f", last.SavingsEffort)
	}

	mid := p.Years[10]
	if mid.CapitalRepaid != 70000 {
		t.Errorf("expected half capital at year 10, got %.2f", mid.CapitalRepaid)
	}
}

func TestFromResult_PositiveCashFlowKeepsSavingsFlat(t *testing.T) {
	r := sampleResult()
	r.MonthlyCashFlow = 120

	for _, pt := range FromResult(r).Years {
		if pt.SavingsEffort != 10000 {
			t.Fatalf("year %d: expected flat savings effort, got %.2f", pt.Year, pt.SavingsEffort)
		}
	}
}

func TestFromResult_HoldingBeyondLoanTerm(t *testing.T) {
	r := sampleResult()
	r.Duration = 10
	r.HoldingYears = 15

	p := FromResult(r)
	if len(p.Years) != 16 {
		t.Fatalf("expected 16 points, got %d", len(p.Years))
	}
	if p.Years[15].CapitalRepaid != 140000 {
		t.Errorf("capital repaid must cap at the loan amount, got %.2f", p.Years[15].CapitalRepaid)
	}
	if p.Years[15].LoanCost != p.Years[10].LoanCost {
		t.Errorf("loan cost must stop growing after the term: %.2f vs %.2f", p.Years[15].LoanCost, p.Years[10].LoanCost)
	}
}

func TestFromResult_Monthly(t *testing.T) {
	r := sampleResult()
	r.ManagementFee = 85

	m := FromResult(r).Monthly
	if m.FixedCharges != 125 {
		t.Errorf("expected fixed charges 125, got %.2f", m.FixedCharges)
	}
	if m.TotalOutflows != 1021.94 {
		t.Errorf("expected outflows 1021.94, got %.2f", m.TotalOutflows)
	}
	if m.MonthlyBalance != -171.94 {
		t.Errorf("expected balance -171.94, got %.2f", m.MonthlyBalance)
	}
}
