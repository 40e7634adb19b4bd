package config

import (
	"fmt"

	"github.com/rustyeddy/dealersim/agents"
	"github.com/rustyeddy/dealersim/rng"
)

// BuildAgents constructs every agent group. Probabilities drawn from a range
// come from a stream seeded by AgentSeed, separate from the simulation
// streams, so changing Seed does not change the population.
func (c *Config) BuildAgents() (map[string][]agents.Agent, error) {
	rnd := rng.New(c.AgentSeed, 0)
	out := make(map[string][]agents.Agent, len(c.Agents))

	for _, g := range c.Agents {
		kind, err := agents.ParseKind(g.Kind)
		if err != nil {
			return nil, fmt.Errorf("agent group %q: %w", g.Name, err)
		}

		group := make([]agents.Agent, 0, g.Count)
		for i := 0; i < g.Count; i++ {
			prob := g.TradeProb
			if g.HasProbRange() {
				prob = g.TradeProbMin + (g.TradeProbMax-g.TradeProbMin)*rnd.Float64()
			}

			var a agents.Agent
			switch kind {
			case agents.KindValue:
				a, err = agents.NewValueAgent(prob, g.TradeScale)
			case agents.KindMomentum:
				a, err = agents.NewMomentumAgent(prob, g.TradeScale, g.EntryPrice, g.ExitPrice)
			case agents.KindNoise:
				a, err = agents.NewNoiseAgent(g.TradeScale)
			}
			if err != nil {
				return nil, fmt.Errorf("agent group %q[%d]: %w", g.Name, i, err)
			}
			group = append(group, a)
		}
		out[g.Name] = group
	}
	return out, nil
}
