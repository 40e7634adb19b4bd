package agents

// NoiseAgent submits a normally distributed flow every period, ignoring
// the price.
//
// Its trade probability is fixed at 1, yet the dealer still draws a
// participation variate for it before Tick draws its own flow variate. A
// noise agent therefore consumes two values from the stream per period,
// and a participation draw of 1 or more (about 16% of periods) skips it.
type NoiseAgent struct {
	base
}

// NewNoiseAgent returns a noise agent trading with probability 1. A
// non-finite tradeScale yields a *ConfigError.
func NewNoiseAgent(tradeScale float64) (*NoiseAgent, error) {
	b, err := newBase(1.0, tradeScale)
	if err != nil {
		return nil, err
	}
	return &NoiseAgent{base: b}, nil
}

func (a *NoiseAgent) Kind() Kind { return KindNoise }

func (a *NoiseAgent) Tick(_ float64, rnd Normal) float64 {
	return rnd.NormFloat64() * a.tradeScale
}

func (a *NoiseAgent) Reset() {}

func (a *NoiseAgent) Clone() Agent {
	c := *a
	return &c
}
