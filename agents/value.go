package agents

import "math"

// ValueAgent trades against deviations of the price from 1. Its flow is
// zero at price 1, positive below and negative above.
type ValueAgent struct {
	base
}

// NewValueAgent returns a value agent, or a *ConfigError when tradeProb is
// outside [0, 1] or tradeScale is not finite.
func NewValueAgent(tradeProb, tradeScale float64) (*ValueAgent, error) {
	b, err := newBase(tradeProb, tradeScale)
	if err != nil {
		return nil, err
	}
	return &ValueAgent{base: b}, nil
}

func (a *ValueAgent) Kind() Kind { return KindValue }

// Tick returns tradeScale * (-0.5 + 1/(2 + ln(price))). The price is not
// checked; a non-positive price or ln(price) == -2 yields NaN or Inf.
func (a *ValueAgent) Tick(price float64, _ Normal) float64 {
	return a.tradeScale * (-0.5 + 1/(2+math.Log(price)))
}

func (a *ValueAgent) Reset() {}

func (a *ValueAgent) Clone() Agent {
	c := *a
	return &c
}
