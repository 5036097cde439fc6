// Package finance provides the numerical primitives shared by the loan and
// rentability calculators: discounting, a bounded IRR solver and rounding.
package finance

import (
	"math"

	"github.com/shopspring/decimal"

	apperrors "rentab/internal/errors"
)

const (
	// MaxIterations caps both the Newton and the bisection phase of IRR.
	MaxIterations = 1000
	// Tolerance is the convergence threshold on NPV, relative to the
	// largest absolute cash flow of the sequence.
	Tolerance = 1e-7

	initialGuess = 0.01
	minStep      = 1e-15
)

// Rates probed when Newton fails, ordered outward from zero so the first
// sign change found is the one closest to zero.
var (
	upperProbes = []float64{0, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	lowerProbes = []float64{0, -0.01, -0.05, -0.1, -0.25, -0.5, -0.75, -0.9, -0.99}
)

// NPV returns the net present value of flows discounted at rate per period.
// flows[0] is undiscounted.
func NPV(rate float64, flows []float64) float64 {
	v, _ := npvAndDerivative(rate, flows)
	return v
}

func npvAndDerivative(rate float64, flows []float64) (float64, float64) {
	var npv, deriv float64
	base := 1 + rate
	discount := 1.0
	for t, f := range flows {
		npv += f * discount
		deriv -= float64(t) * f * discount / base
		discount /= base
	}
	return npv, deriv
}

// IRR returns the periodic rate at which the NPV of flows is zero.
// It runs Newton-Raphson first and falls back to bisection over a bracket
// found by probing; both phases are bounded by MaxIterations.
func IRR(flows []float64) (float64, error) {
	if len(flows) < 2 {
		return 0, apperrors.NewComputationError("irr", 0, "at least two cash flows are required")
	}

	var hasPositive, hasNegative bool
	scale := 0.0
	for _, f := range flows {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, apperrors.NewComputationError("irr", 0, "cash flows must be finite")
		}
		if f > 0 {
			hasPositive = true
		} else if f < 0 {
			hasNegative = true
		}
		scale = math.Max(scale, math.Abs(f))
	}
	if !hasPositive || !hasNegative {
		return 0, apperrors.NewComputationError("irr", 0, "cash flows must contain both an outflow and an inflow")
	}

	if r, ok := newton(flows, scale); ok {
		return r, nil
	}
	return bisect(flows, scale)
}

func converged(npv, scale float64) bool {
	return math.Abs(npv)/scale < Tolerance
}

func newton(flows []float64, scale float64) (float64, bool) {
	r := initialGuess
	for i := 0; i < MaxIterations; i++ {
		v, d := npvAndDerivative(r, flows)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		if converged(v, scale) {
			return r, true
		}
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, false
		}

		next := r - v/d
		if math.IsNaN(next) || next <= -1 {
			return 0, false
		}
		if math.Abs(next-r) < minStep {
			v, _ = npvAndDerivative(next, flows)
			return next, converged(v, scale)
		}
		r = next
	}
	return 0, false
}

func bisect(flows []float64, scale float64) (float64, error) {
	lo, hi, ok := bracket(flows)
	if !ok {
		return 0, apperrors.NewComputationError("irr", 0, "no rate in (-0.99, 10] sets the NPV to zero")
	}

	fLo := NPV(lo, flows)
	for i := 0; i < MaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, flows)
		if converged(fMid, scale) || (hi-lo)/2 < minStep {
			return mid, nil
		}
		if (fLo < 0) == (fMid < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return 0, apperrors.NewComputationError("irr", MaxIterations, "bisection did not converge")
}

func bracket(flows []float64) (float64, float64, bool) {
	for _, probes := range [][]float64{upperProbes, lowerProbes} {
		prevRate := probes[0]
		prev := NPV(prevRate, flows)
		for _, rate := range probes[1:] {
			v := NPV(rate, flows)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				break
			}
			if (prev < 0) != (v < 0) {
				return math.Min(prevRate, rate), math.Max(prevRate, rate), true
			}
			prevRate, prev = rate, v
		}
	}
	return 0, 0, false
}

// Round2 rounds v to two decimals, half away from zero. Non-finite values
// are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
