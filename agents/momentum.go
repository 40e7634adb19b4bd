package agents

import "fmt"

// MomentumState is the position of a MomentumAgent in its life cycle. States
// only ever advance; Exited is terminal until Reset.
type MomentumState int

const (
	Idle MomentumState = iota
	Armed
	ExitShort
	Exited
)

func (s MomentumState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case ExitShort:
		return "exit-short"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("MomentumState(%d)", int(s))
	}
}

// momentumTransition fires when cond holds for the agent's current state.
type momentumTransition struct {
	next MomentumState
	cond func(a *MomentumAgent, price float64) bool
}

// momentumTransitions is indexed by the current state. Exited has no entry.
var momentumTransitions = map[MomentumState]momentumTransition{
	Idle:      {next: Armed, cond: func(a *MomentumAgent, p float64) bool { return p > a.entryPrice }},
	Armed:     {next: ExitShort, cond: func(a *MomentumAgent, p float64) bool { return p > a.exitPrice }},
	ExitShort: {next: Exited, cond: func(a *MomentumAgent, p float64) bool { return p < a.entryPrice }},
}

// flowMultiple is the signed multiple of tradeScale submitted in each state.
var flowMultiple = map[MomentumState]float64{
	Idle:      0,
	Armed:     1,
	ExitShort: -3,
	Exited:    0,
}

// MomentumAgent buys once the price rises above entryPrice, dumps three
// times its size once the price clears exitPrice, and goes quiet after the
// price falls back below entryPrice.
type MomentumAgent struct {
	base
	entryPrice float64
	exitPrice  float64
	state      MomentumState
}

// NewMomentumAgent rejects entryPrice > exitPrice. Equal prices are allowed;
// the agent then arms and starts exiting on consecutive ticks above that
// level.
func NewMomentumAgent(tradeProb, tradeScale, entryPrice, exitPrice float64) (*MomentumAgent, error) {
	b, err := newBase(tradeProb, tradeScale)
	if err != nil {
		return nil, err
	}
	if err := checkFinite("entry_price", entryPrice); err != nil {
		return nil, err
	}
	if err := checkFinite("exit_price", exitPrice); err != nil {
		return nil, err
	}
	if entryPrice > exitPrice {
		return nil, &ConfigError{Field: "entry_price", Value: entryPrice, Reason: fmt.Sprintf("must not exceed exit_price %v", exitPrice)}
	}
	return &MomentumAgent{base: b, entryPrice: entryPrice, exitPrice: exitPrice}, nil
}

func (a *MomentumAgent) Kind() Kind           { return KindMomentum }
func (a *MomentumAgent) State() MomentumState { return a.state }
func (a *MomentumAgent) EntryPrice() float64  { return a.entryPrice }
func (a *MomentumAgent) ExitPrice() float64   { return a.exitPrice }

// Tick applies at most one transition, then returns the flow for the
// resulting state. Comparisons are strict.
func (a *MomentumAgent) Tick(price float64, _ Normal) float64 {
	if tr, ok := momentumTransitions[a.state]; ok && tr.cond(a, price) {
		a.state = tr.next
	}
	return flowMultiple[a.state] * a.tradeScale
}

func (a *MomentumAgent) Reset() { a.state = Idle }

func (a *MomentumAgent) Clone() Agent {
	c := *a
	c.state = Idle
	return &c
}
