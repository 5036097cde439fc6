// Package sweep re-evaluates a scenario across a grid of loan rates and
// durations.
package sweep

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	apperrors "rentab/internal/errors"
	"rentab/internal/rentability"
	"rentab/internal/scenario"
)

// maxGridSize bounds the number of evaluations a single sweep may request.
const maxGridSize = 10000

// Grid lists the rates (percent) and durations (years) to combine.
type Grid struct {
	Rates     []float64
	Durations []int
}

// Size returns the number of cells in the grid.
func (g Grid) Size() int {
	return len(g.Rates) * len(g.Durations)
}

// Cell is the outcome of one grid evaluation. Err is set when the
// combination could not be evaluated; the rest of the grid is unaffected.
type Cell struct {
	Rate     float64            `json:"rate"`
	Duration int                `json:"duration"`
	Result   rentability.Result `json:"result"`
	Err      error              `json:"-"`
	Error    string             `json:"error,omitempty"`
}

// ParseRates parses "start:end:step" (inclusive) or a comma-separated list.
func ParseRates(input string) ([]float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperrors.NewValidationError("rates", input, "must not be empty")
	}

	if !strings.Contains(input, ":") {
		var rates []float64
		for _, part := range strings.Split(input, ",") {
			r, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil || r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
				return nil, apperrors.NewValidationError("rates", part, "must be a non-negative number")
			}
			rates = append(rates, r)
		}
		return rates, nil
	}

	parts := strings.Split(input, ":")
	if len(parts) != 3 {
		return nil, apperrors.NewValidationError("rates", input, "range must be start:end:step")
	}

	var bounds [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.NewValidationError("rates", part, "must be a number")
		}
		bounds[i] = v
	}

	start, end, step := bounds[0], bounds[1], bounds[2]
	if start < 0 || end < start {
		return nil, apperrors.NewValidationError("rates", input, "range must satisfy 0 <= start <= end")
	}
	if step <= 0 {
		return nil, apperrors.NewValidationError("rates", input, "step must be positive")
	}

	count := int(math.Floor((end-start)/step+1e-9)) + 1
	if count > maxGridSize {
		return nil, apperrors.NewValidationError("rates", input, fmt.Sprintf("range yields more than %d rates", maxGridSize))
	}

	rates := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		// Index-based stepping keeps 2.5 + 8*0.25 exactly at 4.5.
		rates = append(rates, math.Round((start+float64(i)*step)*1e6)/1e6)
	}
	return rates, nil
}

// ParseDurations parses a comma-separated list of loan durations in years.
func ParseDurations(input string) ([]int, error) {
	var durations []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 1 {
			return nil, apperrors.NewValidationError("durations", part, "must be a positive integer")
		}
		durations = append(durations, d)
	}
	if len(durations) == 0 {
		return nil, apperrors.NewValidationError("durations", input, "must not be empty")
	}
	return durations, nil
}

// Runner evaluates grids on a worker pool.
type Runner struct {
	workers int
	notary  float64
	logger  zerolog.Logger
}

// NewRunner creates a runner; workers of 0 uses one per CPU.
func NewRunner(workers int, notaryFeesPercent float64, logger zerolog.Logger) *Runner {
	return &Runner{
		workers: workers,
		notary:  notaryFeesPercent,
		logger:  logger,
	}
}

// Run evaluates base once per grid cell, overriding rate and duration.
// Cells are returned ordered by duration then rate.
func (r *Runner) Run(ctx context.Context, base scenario.Scenario, grid Grid) ([]Cell, error) {
	if grid.Size() == 0 {
		return nil, apperrors.NewValidationError("grid", grid.Size(), "must contain at least one rate and one duration")
	}
	if grid.Size() > maxGridSize {
		return nil, apperrors.NewValidationError("grid", grid.Size(), fmt.Sprintf("must not exceed %d cells", maxGridSize))
	}

	pool := NewWorkerPool(r.workers)
	pool.Start()
	defer pool.Stop()

	cells := make([]Cell, grid.Size())
	for di, duration := range grid.Durations {
		for ri, rate := range grid.Rates {
			idx := di*len(grid.Rates) + ri
			s := base
			s.AnnualRate = rate
			s.Duration = duration

			err := pool.Submit(ctx, func() {
				cells[idx] = r.evaluate(s)
			})
			if err != nil {
				return nil, apperrors.Wrap(err, "submitting sweep cell")
			}
		}
	}

	// Stop waits for queued cells, so the counters below are final.
	pool.Stop()
	stats := pool.Stats()
	r.logger.Debug().
		Int("workers", stats.Workers).
		Uint64("tasks", stats.TasksDone).
		Msg("Sweep completed")

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].Duration != cells[j].Duration {
			return cells[i].Duration < cells[j].Duration
		}
		return cells[i].Rate < cells[j].Rate
	})
	return cells, nil
}

func (r *Runner) evaluate(s scenario.Scenario) Cell {
	cell := Cell{Rate: s.AnnualRate, Duration: s.Duration}
	result, err := s.Evaluate(r.notary)
	if err != nil {
		cell.Err = err
		cell.Error = err.Error()
		return cell
	}
	cell.Result = result
	return cell
}

// Best returns the successful cell with the highest IRR.
func Best(cells []Cell) (Cell, bool) {
	var best Cell
	found := false
	for _, c := range cells {
		if c.Err != nil {
			continue
		}
		if !found || c.Result.IRR > best.Result.IRR {
			best = c
			found = true
		}
	}
	return best, found
}
