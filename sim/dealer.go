package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/dealersim/agents"
)

// InitialPrice is the price every replication starts from.
const InitialPrice = 1.0

// ErrNegativeCount is returned when a simulation or period count is negative.
var ErrNegativeCount = errors.New("sim: counts must be non-negative")

// Dealer collects order flow from its agents and moves the price through an
// exponential impact law.
//
// The dealer holds references to agents it does not own. Agents may be shared
// with other dealers provided the dealers run one at a time; every replication
// resets the agents it polls.
type Dealer struct {
	priceScale float64
	agents     []agents.Agent
}

// NewDealer returns a dealer with no agents that prices cumulative net flow
// with exp(priceScale * net).
func NewDealer(priceScale float64) *Dealer {
	return &Dealer{priceScale: priceScale}
}

func (d *Dealer) PriceScale() float64 { return d.priceScale }

// AddAgent appends a to the polling order. Duplicates are kept; an agent
// added twice is polled twice per period.
func (d *Dealer) AddAgent(a agents.Agent) {
	d.agents = append(d.agents, a)
}

// Agents returns the agents in polling order.
func (d *Dealer) Agents() []agents.Agent {
	out := make([]agents.Agent, len(d.agents))
	copy(out, d.agents)
	return out
}

// Clone returns a dealer with the same price scale and a deep copy of every
// agent, safe to run concurrently with d.
func (d *Dealer) Clone() *Dealer {
	c := &Dealer{priceScale: d.priceScale, agents: make([]agents.Agent, len(d.agents))}
	for i, a := range d.agents {
		c.agents[i] = a.Clone()
	}
	return c
}

// GetPrice maps cumulative net flow to a price: exp(priceScale * net).
func (d *Dealer) GetPrice(net float64) float64 {
	return math.Exp(d.priceScale * net)
}

// RunSimulation runs numSimulations replications of numPeriods periods each
// and returns numSimulations*(numPeriods+1) results ordered by replication
// then period. All draws come from rnd in a fixed order: for each period,
// one participation draw per agent in polling order, plus whatever the
// agent's Tick draws when it participates.
func (d *Dealer) RunSimulation(rnd agents.Normal, numSimulations, numPeriods int) ([]Result, error) {
	if numSimulations < 0 || numPeriods < 0 {
		return nil, fmt.Errorf("%w: simulations=%d periods=%d", ErrNegativeCount, numSimulations, numPeriods)
	}

	results := make([]Result, 0, numSimulations*(numPeriods+1))
	for i := 0; i < numSimulations; i++ {
		results = d.RunReplication(results, rnd, i, numPeriods)
	}
	return results, nil
}

// RunReplication resets the agents, runs one replication with index sim and
// appends its numPeriods+1 results to dst.
func (d *Dealer) RunReplication(dst []Result, rnd agents.Normal, sim, numPeriods int) []Result {
	for _, a := range d.agents {
		a.Reset()
	}

	price := InitialPrice
	net := 0.0
	dst = append(dst, Result{Sim: sim, Period: 0, Price: price})

	for k := 0; k < numPeriods; k++ {
		for _, a := range d.agents {
			// participation is gated on a standard normal draw, not a uniform
			if u := rnd.NormFloat64(); u < a.TradeProb() {
				net += a.Tick(price, rnd)
			}
		}
		// net is never reset, so flow has a permanent impact
		price = d.GetPrice(net)
		dst = append(dst, Result{Sim: sim, Period: k + 1, Price: price})
	}
	return dst
}
