// Package sim runs the dealer: it polls agents every period, accumulates
// their net flow and derives the price from it.
package sim

// Result is the price at the end of one period of one replication. Period 0
// is the initial price.
type Result struct {
	Sim    int
	Period int
	Price  float64
}

// Replication returns the results of replication sim from a slice produced
// by RunSimulation with the given period count.
func Replication(results []Result, sim, numPeriods int) []Result {
	n := numPeriods + 1
	start := sim * n
	if start < 0 || start+n > len(results) {
		return nil
	}
	return results[start : start+n]
}
