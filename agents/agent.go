// Package agents implements the trading agents that submit order flow to a
// dealer each period.
package agents

import (
	"fmt"
	"strings"
)

// Normal is the random capability agents and the dealer draw from. It must
// return standard normal variates and be deterministic for a given seed.
// *rand.Rand from math/rand/v2 satisfies it.
type Normal interface {
	NormFloat64() float64
}

// Kind names one of the closed set of agent variants.
type Kind string

const (
	KindValue    Kind = "value"
	KindMomentum Kind = "momentum"
	KindNoise    Kind = "noise"
)

// ParseKind accepts a kind name in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindValue, KindMomentum, KindNoise:
		return k, nil
	default:
		return "", fmt.Errorf("unknown agent kind %q (supported: value, momentum, noise)", s)
	}
}

// Agent produces a per-period order flow contribution given the current
// price. Tick may mutate internal state and may draw from rnd. Reset restores
// the state an agent had when it was constructed.
//
// Agent values are not safe for concurrent use. The same agent may be added
// to several dealers as long as those dealers run one after another; every
// replication begins by resetting its agents.
type Agent interface {
	Kind() Kind
	TradeProb() float64
	TradeScale() float64
	Tick(price float64, rnd Normal) float64
	Reset()

	// Clone returns an independent copy in its reset state.
	Clone() Agent
}

// base carries the parameters shared by every variant.
type base struct {
	tradeProb  float64
	tradeScale float64
}

func (b base) TradeProb() float64  { return b.tradeProb }
func (b base) TradeScale() float64 { return b.tradeScale }

func newBase(tradeProb, tradeScale float64) (base, error) {
	if err := checkProb(tradeProb); err != nil {
		return base{}, err
	}
	if err := checkFinite("trade_scale", tradeScale); err != nil {
		return base{}, err
	}
	return base{tradeProb: tradeProb, tradeScale: tradeScale}, nil
}
