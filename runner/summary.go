package runner

import (
	"math"

	"github.com/rustyeddy/dealersim/sim"
)

// PeriodSummary describes the cross-replication distribution of the price
// at one period.
type PeriodSummary struct {
	Period int
	N      int
	Mean   float64
	StdDev float64 // sample standard deviation, 0 for N < 2
	Min    float64
	Max    float64
}

// Summarize groups results by period. Periods with no results are omitted.
func Summarize(results []sim.Result) []PeriodSummary {
	maxPeriod := -1
	for _, r := range results {
		if r.Period > maxPeriod {
			maxPeriod = r.Period
		}
	}
	if maxPeriod < 0 {
		return nil
	}

	// Welford
	type acc struct {
		n        int
		mean, m2 float64
		min, max float64
	}
	accs := make([]acc, maxPeriod+1)
	for _, r := range results {
		if r.Period < 0 {
			continue
		}
		a := &accs[r.Period]
		if a.n == 0 {
			a.min, a.max = r.Price, r.Price
		}
		a.n++
		d := r.Price - a.mean
		a.mean += d / float64(a.n)
		a.m2 += d * (r.Price - a.mean)
		a.min = math.Min(a.min, r.Price)
		a.max = math.Max(a.max, r.Price)
	}

	out := make([]PeriodSummary, 0, len(accs))
	for p, a := range accs {
		if a.n == 0 {
			continue
		}
		s := PeriodSummary{Period: p, N: a.n, Mean: a.mean, Min: a.min, Max: a.max}
		if a.n > 1 {
			s.StdDev = math.Sqrt(a.m2 / float64(a.n-1))
		}
		out = append(out, s)
	}
	return out
}
