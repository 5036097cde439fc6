package loan

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"rentab/internal/borrower"
	apperrors "rentab/internal/errors"
)

func newProfile(t *testing.T, revenue float64) *borrower.Profile {
	t.Helper()
	p, err := borrower.NewProfile(30, revenue, 10000)
	if err != nil {
		t.Fatalf("creating profile: %v", err)
	}
	return p
}

func TestMonthlyPayment_ScenarioA(t *testing.T) {
	calc, err := New(3.5, 20, newProfile(t, 4000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := calc.MonthlyPayment(140000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(payment-811.93) > 0.5 {
		t.Errorf("expected ~811.93, got %.4f", payment)
	}
}

func TestMaxAffordableLoan_ScenarioB(t *testing.T) {
	calc, err := New(3.5, 20, newProfile(t, 4000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(calc.MaxMonthlyPayment()-1320) > 1e-9 {
		t.Fatalf("expected max payment 1320, got %.6f", calc.MaxMonthlyPayment())
	}

	i := 3.5 / 100 / 12
	want := 1320 * (1 - math.Pow(1+i, -240)) / i
	got := calc.MaxAffordableLoan()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %.4f, got %.4f", want, got)
	}
	if math.Abs(got-227602.01) > 1 {
		t.Errorf("expected ~227602.01, got %.2f", got)
	}
}

func TestZeroRate(t *testing.T) {
	calc, err := New(0, 10, newProfile(t, 3000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, _ := calc.MonthlyPayment(120000)
	if math.Abs(payment-1000) > 1e-6 {
		t.Errorf("expected 1000, got %.6f", payment)
	}

	want := 3000 * MaxDebtToIncomeRatio * 120
	if math.Abs(calc.MaxAffordableLoan()-want) > 1e-6 {
		t.Errorf("expected %.2f, got %.2f", want, calc.MaxAffordableLoan())
	}

	interest, _ := calc.TotalInterest(120000)
	if math.Abs(interest) > 1e-6 {
		t.Errorf("expected no interest at zero rate, got %.6f", interest)
	}
}

func TestTotals(t *testing.T) {
	calc, _ := New(3.58, 20, newProfile(t, 4000))

	payment, _ := calc.MonthlyPayment(180000)
	total, err := calc.TotalPayment(180000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != payment*float64(20*12) {
		t.Errorf("total payment %.6f != payment*n %.6f", total, payment*240)
	}

	interest, _ := calc.TotalInterest(180000)
	if math.Abs(interest-(total-180000)) > 1e-9 {
		t.Errorf("expected interest %.2f, got %.2f", total-180000, interest)
	}
}

func TestNew_Invalid(t *testing.T) {
	profile := newProfile(t, 4000)

	tests := []struct {
		name    string
		rate    float64
		years   int
		profile *borrower.Profile
	}{
		{"zero years", 3.5, 0, profile},
		{"negative years", 3.5, -5, profile},
		{"years over max", 3.5, MaxYears + 1, profile},
		{"overflowing years", 3.5, math.MaxInt / 6, profile},
		{"negative rate", -0.1, 20, profile},
		{"NaN rate", math.NaN(), 20, profile},
		{"nil profile", 3.5, 20, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rate, tt.years, tt.profile)
			if !apperrors.IsInvalidArgument(err) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestNegativeAmount(t *testing.T) {
	calc, _ := New(3.5, 20, newProfile(t, 4000))

	if _, err := calc.MonthlyPayment(-1); !apperrors.IsInvalidArgument(err) {
		t.Errorf("MonthlyPayment: expected invalid argument, got %v", err)
	}
	if _, err := calc.TotalPayment(math.NaN()); !apperrors.IsInvalidArgument(err) {
		t.Errorf("TotalPayment: expected invalid argument, got %v", err)
	}
	if _, err := calc.TotalInterest(-100); !apperrors.IsInvalidArgument(err) {
		t.Errorf("TotalInterest: expected invalid argument, got %v", err)
	}
	if _, err := calc.IsAffordable(-100); !apperrors.IsInvalidArgument(err) {
		t.Errorf("IsAffordable: expected invalid argument, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	calc, _ := New(3.5, 20, newProfile(t, 4000))

	summary, err := calc.Summary(140000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Capital: 140000.00€", "Annual Interest Rate: 3.50%", "Years: 20", "Monthly Payment: 811.94€"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestProperty_LoanLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	revenueGen := gen.Float64Range(500, 20000)
	rateGen := gen.Float64Range(0, 12)
	yearsGen := gen.IntRange(1, 35)

	properties.Property("amounts up to the max are affordable, max+1 is not", prop.ForAll(
		func(revenue, rate float64, years int, frac float64) bool {
			profile, _ := borrower.NewProfile(40, revenue, 0)
			calc, err := New(rate, years, profile)
			if err != nil {
				return false
			}
			limit := calc.MaxAffordableLoan()

			within, _ := calc.IsAffordable(limit * frac)
			atMax, _ := calc.IsAffordable(limit)
			above, _ := calc.IsAffordable(limit + 1)
			return within && atMax && !above
		},
		revenueGen, rateGen, yearsGen, gen.Float64Range(0, 1),
	))

	properties.Property("total payment equals monthly payment times years*12", prop.ForAll(
		func(rate float64, years int, amount float64) bool {
			profile, _ := borrower.NewProfile(40, 4000, 0)
			calc, _ := New(rate, years, profile)

			payment, _ := calc.MonthlyPayment(amount)
			total, _ := calc.TotalPayment(amount)
			return total == payment*float64(years*12)
		},
		rateGen, yearsGen, gen.Float64Range(0, 1_000_000),
	))

	properties.Property("zero rate payment is amount over payment count", prop.ForAll(
		func(years int, amount float64) bool {
			profile, _ := borrower.NewProfile(40, 4000, 0)
			calc, _ := New(0, years, profile)

			payment, _ := calc.MonthlyPayment(amount)
			return math.Abs(payment-amount/float64(years*12)) < 1e-6
		},
		yearsGen, gen.Float64Range(0, 1_000_000),
	))

	properties.Property("payment strictly increases with the rate", prop.ForAll(
		func(rate, delta float64, years int, amount float64) bool {
			profile, _ := borrower.NewProfile(40, 4000, 0)
			low, _ := New(rate, years, profile)
			high, _ := New(rate+delta, years, profile)

			lowPayment, _ := low.MonthlyPayment(amount)
			highPayment, _ := high.MonthlyPayment(amount)
			return highPayment > lowPayment
		},
		rateGen, gen.Float64Range(0.01, 5), yearsGen, gen.Float64Range(1000, 1_000_000),
	))

	properties.TestingRun(t)
}
