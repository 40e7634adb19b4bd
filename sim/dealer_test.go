package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/rustyeddy/dealersim/agents"
	"github.com/rustyeddy/dealersim/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays a fixed list of draws, then returns 0.
type scripted struct {
	vals []float64
	n    int
}

func (s *scripted) NormFloat64() float64 {
	if s.n >= len(s.vals) {
		s.n++
		return 0
	}
	v := s.vals[s.n]
	s.n++
	return v
}

// recorder is a test agent that logs what the dealer does to it.
type recorder struct {
	prob   float64
	flow   float64
	resets int
	prices []float64
}

func (r *recorder) Kind() agents.Kind   { return "recorder" }
func (r *recorder) TradeProb() float64  { return r.prob }
func (r *recorder) TradeScale() float64 { return r.flow }
func (r *recorder) Reset()              { r.resets++ }
func (r *recorder) Clone() agents.Agent { c := *r; c.prices = nil; return &c }
func (r *recorder) Tick(price float64, _ agents.Normal) float64 {
	r.prices = append(r.prices, price)
	return r.flow
}

func mustNoise(t *testing.T, scale float64) *agents.NoiseAgent {
	t.Helper()
	a, err := agents.NewNoiseAgent(scale)
	require.NoError(t, err)
	return a
}

func TestGetPrice(t *testing.T) {
	d := NewDealer(0.7)
	assert.Equal(t, 1.0, d.GetPrice(0))
	assert.InDelta(t, math.Exp(0.7*2.5), d.GetPrice(2.5), 1e-12)

	prev := d.GetPrice(-50)
	for net := -49.5; net <= 50; net += 0.5 {
		p := d.GetPrice(net)
		assert.Greater(t, p, prev)
		assert.Greater(t, p, 0.0)
		prev = p
	}
}

func TestRunSimulationShape(t *testing.T) {
	d := NewDealer(1.0)
	d.AddAgent(mustNoise(t, 0.01))
	v, err := agents.NewValueAgent(0.3, 0.02)
	require.NoError(t, err)
	d.AddAgent(v)

	const sims, periods = 4, 7
	res, err := d.RunSimulation(rng.New(1, 1), sims, periods)
	require.NoError(t, err)
	require.Len(t, res, sims*(periods+1))

	for i := 0; i < sims; i++ {
		rep := Replication(res, i, periods)
		require.Len(t, rep, periods+1)
		assert.Equal(t, Result{Sim: i, Period: 0, Price: 1.0}, rep[0])
		for k, r := range rep {
			assert.Equal(t, i, r.Sim)
			assert.Equal(t, k, r.Period)
			assert.Greater(t, r.Price, 0.0)
		}
	}
}

func TestRunSimulationZeroFlowIsConstant(t *testing.T) {
	d := NewDealer(1.0)
	d.AddAgent(mustNoise(t, 0))

	res, err := d.RunSimulation(rng.New(1234, 0), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{0, 0, 1.0},
		{0, 1, 1.0},
		{0, 2, 1.0},
		{0, 3, 1.0},
	}, res)
}

func TestRunSimulationNoAgents(t *testing.T) {
	d := NewDealer(2.0)
	res, err := d.RunSimulation(rng.New(1, 2), 2, 5)
	require.NoError(t, err)
	require.Len(t, res, 12)
	for _, r := range res {
		assert.Equal(t, 1.0, r.Price)
	}
}

func TestRunSimulationEmptyCounts(t *testing.T) {
	d := NewDealer(1.0)
	res, err := d.RunSimulation(rng.New(1, 2), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = d.RunSimulation(rng.New(1, 2), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []Result{{0, 0, 1}, {1, 0, 1}, {2, 0, 1}}, res)
}

func TestRunSimulationNegativeCounts(t *testing.T) {
	d := NewDealer(1.0)
	_, err := d.RunSimulation(rng.New(1, 2), -1, 10)
	assert.True(t, errors.Is(err, ErrNegativeCount))
	_, err = d.RunSimulation(rng.New(1, 2), 1, -10)
	assert.True(t, errors.Is(err, ErrNegativeCount))
}

func TestRunSimulationDeterministic(t *testing.T) {
	build := func() *Dealer {
		d := NewDealer(1.0)
		for i := 0; i < 10; i++ {
			d.AddAgent(mustNoise(t, 0.001))
		}
		m, err := agents.NewMomentumAgent(0.3, 0.01, 1.01, 1.2)
		require.NoError(t, err)
		d.AddAgent(m)
		return d
	}

	a, err := build().RunSimulation(rng.New(1234, 0), 20, 50)
	require.NoError(t, err)
	b, err := build().RunSimulation(rng.New(1234, 0), 20, 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := build().RunSimulation(rng.New(4321, 0), 20, 50)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCumulativeNetFlow(t *testing.T) {
	r := &recorder{prob: 1, flow: 0.1}
	d := NewDealer(2.0)
	d.AddAgent(r)

	// participation draws of 0 always pass prob 1
	res, err := d.RunSimulation(&scripted{}, 1, 4)
	require.NoError(t, err)

	for k := 1; k <= 4; k++ {
		assert.InDelta(t, math.Exp(2.0*0.1*float64(k)), res[k].Price, 1e-12, "period %d", k)
	}
	// each tick sees the price from the previous period
	require.Len(t, r.prices, 4)
	assert.Equal(t, 1.0, r.prices[0])
	for k := 1; k < 4; k++ {
		assert.Equal(t, res[k].Price, r.prices[k])
	}
}

func TestParticipationGate(t *testing.T) {
	never := &recorder{prob: 0, flow: 1}
	always := &recorder{prob: 1, flow: 1}
	d := NewDealer(1.0)
	d.AddAgent(never)
	d.AddAgent(always)

	// period 1: 0.5 >= 0 skips never, 0.99 < 1 admits always
	// period 2: -0.1 < 0 admits never (a zero probability is not a hard off),
	//           1.0 >= 1 skips always
	_, err := d.RunSimulation(&scripted{vals: []float64{0.5, 0.99, -0.1, 1.0}}, 1, 2)
	require.NoError(t, err)

	assert.Len(t, never.prices, 1)
	assert.Len(t, always.prices, 1)
}

func TestNoiseAgentDrawsTwice(t *testing.T) {
	d := NewDealer(1.0)
	d.AddAgent(mustNoise(t, 1))

	s := &scripted{vals: []float64{0.0, 0.25, 2.0, 0.0, 0.5}}
	res, err := d.RunSimulation(s, 1, 3)
	require.NoError(t, err)

	// p1: gate 0.0 passes, flow 0.25
	// p2: gate 2.0 fails, no flow draw
	// p3: gate 0.0 passes, flow 0.5
	assert.InDelta(t, math.Exp(0.25), res[1].Price, 1e-12)
	assert.InDelta(t, math.Exp(0.25), res[2].Price, 1e-12)
	assert.InDelta(t, math.Exp(0.75), res[3].Price, 1e-12)
	assert.Equal(t, 5, s.n)
}

func TestMomentumThroughDealer(t *testing.T) {
	m, err := agents.NewMomentumAgent(1, 1, 1.0, 1.0)
	require.NoError(t, err)

	d := NewDealer(1.0)
	d.AddAgent(mustNoise(t, 1))
	d.AddAgent(m)

	// noise gate, noise flow, momentum gate per period; only the first
	// noise flow is non-zero
	res, err := d.RunSimulation(&scripted{vals: []float64{0, 0.5}}, 1, 4)
	require.NoError(t, err)

	// p1: momentum sees 1.0, not above entry, stays idle
	assert.InDelta(t, math.Exp(0.5), res[1].Price, 1e-12)
	// p2: arms above 1.0, buys 1
	assert.InDelta(t, math.Exp(1.5), res[2].Price, 1e-12)
	// p3: still above exit 1.0, sells 3
	assert.InDelta(t, math.Exp(-1.5), res[3].Price, 1e-12)
	// p4: below entry, exits with no flow
	assert.InDelta(t, math.Exp(-1.5), res[4].Price, 1e-12)
	assert.Equal(t, agents.Exited, m.State())
}

func TestResetBetweenReplications(t *testing.T) {
	m, err := agents.NewMomentumAgent(1, 1, 1.0, 1.0)
	require.NoError(t, err)
	r := &recorder{prob: 1}

	d := NewDealer(1.0)
	d.AddAgent(mustNoise(t, 1))
	d.AddAgent(m)
	d.AddAgent(r)

	// replication 0 drives the momentum agent to Exited; replication 1
	// only sees zero draws so the price stays at 1.0
	s := &scripted{vals: []float64{0, 0.5}}
	res, err := d.RunSimulation(s, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, r.resets)

	rep1 := Replication(res, 1, 4)
	for _, x := range rep1 {
		assert.Equal(t, 1.0, x.Price)
	}
	assert.Equal(t, agents.Idle, m.State())

	// the same exited agent is re-armed after reset by a fresh run
	res, err = d.RunSimulation(&scripted{vals: []float64{0, 0.5}}, 1, 4)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(1.5), res[2].Price, 1e-12)
}

func TestSharedAgentsAcrossDealers(t *testing.T) {
	noise := mustNoise(t, 0.01)
	m, err := agents.NewMomentumAgent(0.9, 0.05, 1.0, 1.0)
	require.NoError(t, err)

	first := NewDealer(1.0)
	first.AddAgent(noise)
	first.AddAgent(m)

	second := NewDealer(1.0)
	second.AddAgent(noise)
	second.AddAgent(m)

	a, err := first.RunSimulation(rng.New(7, 7), 3, 30)
	require.NoError(t, err)
	_, err = second.RunSimulation(rng.New(8, 8), 3, 30)
	require.NoError(t, err)

	again, err := first.RunSimulation(rng.New(7, 7), 3, 30)
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestCloneMatchesOriginal(t *testing.T) {
	d := NewDealer(1.5)
	d.AddAgent(mustNoise(t, 0.02))
	m, err := agents.NewMomentumAgent(0.4, 0.03, 1.02, 1.5)
	require.NoError(t, err)
	d.AddAgent(m)

	c := d.Clone()
	assert.Equal(t, d.PriceScale(), c.PriceScale())
	require.Len(t, c.Agents(), 2)
	assert.NotSame(t, d.Agents()[1], c.Agents()[1])

	a, err := d.RunSimulation(rng.New(3, 3), 5, 40)
	require.NoError(t, err)
	b, err := c.RunSimulation(rng.New(3, 3), 5, 40)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAddAgentKeepsDuplicates(t *testing.T) {
	r := &recorder{prob: 1}
	d := NewDealer(1.0)
	d.AddAgent(r)
	d.AddAgent(r)
	assert.Len(t, d.Agents(), 2)

	_, err := d.RunSimulation(&scripted{}, 1, 3)
	require.NoError(t, err)
	assert.Len(t, r.prices, 6)
	// resets once per appearance
	assert.Equal(t, 2, r.resets)
}

func TestReplicationOutOfRange(t *testing.T) {
	res := []Result{{0, 0, 1}, {0, 1, 1}}
	assert.Nil(t, Replication(res, 1, 1))
	assert.Nil(t, Replication(res, -1, 1))
	assert.Len(t, Replication(res, 0, 1), 2)
}
