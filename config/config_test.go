package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/dealersim/agents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.Equal(t, 1000, cfg.Simulations)
	assert.Equal(t, 100, cfg.Periods)
	assert.Len(t, cfg.Experiments, 4)
	assert.NoError(t, cfg.Validate())

	noise, ok := cfg.Group("noise")
	require.True(t, ok)
	assert.InDelta(t, 0.001, noise.TradeScale, 1e-15)

	_, ok = cfg.Group("missing")
	assert.False(t, ok)
}

// valid returns a minimal config that passes validation.
func valid() *Config {
	return &Config{
		Simulations: 1,
		Periods:     1,
		Agents: []AgentGroup{
			{Name: "n", Kind: "noise", Count: 1, TradeScale: 0.1},
		},
		Experiments: []ExperimentConfig{{Name: "e", PriceScale: 1, Groups: []string{"n"}}},
		Journal:     JournalConfig{Type: "none"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"negative simulations", func(c *Config) { c.Simulations = -1 }, "simulations must not be negative"},
		{"negative periods", func(c *Config) { c.Periods = -1 }, "periods must not be negative"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers must not be negative"},
		{"unnamed group", func(c *Config) { c.Agents[0].Name = "" }, "agents[0].name is required"},
		{"duplicate group", func(c *Config) { c.Agents = append(c.Agents, c.Agents[0]) }, "duplicate agent group"},
		{"bad kind", func(c *Config) { c.Agents[0].Kind = "whale" }, "unknown agent kind"},
		{"zero count", func(c *Config) { c.Agents[0].Count = 0 }, "count must be positive"},
		{"nan scale", func(c *Config) { c.Agents[0].TradeScale = math.NaN() }, "trade_scale must be finite"},
		{"value prob", func(c *Config) {
			c.Agents[0] = AgentGroup{Name: "n", Kind: "value", Count: 1, TradeProb: 1.5}
		}, "trade_prob must be between 0 and 1"},
		{"value prob range inverted", func(c *Config) {
			c.Agents[0] = AgentGroup{Name: "n", Kind: "value", Count: 1, TradeProbMin: 0.6, TradeProbMax: 0.5}
		}, "trade_prob_min/max"},
		{"momentum entry above exit", func(c *Config) {
			c.Agents[0] = AgentGroup{Name: "n", Kind: "momentum", Count: 1, TradeProb: 0.5, EntryPrice: 2, ExitPrice: 1}
		}, "entry_price must not exceed exit_price"},
		{"noise ignores prob", func(c *Config) { c.Agents[0].TradeProb = 7 }, ""},
		{"no experiments", func(c *Config) { c.Experiments = nil }, "at least one experiment"},
		{"unnamed experiment", func(c *Config) { c.Experiments[0].Name = "" }, "experiments[0].name is required"},
		{"experiment path", func(c *Config) { c.Experiments[0].Name = "../x" }, "path separators"},
		{"duplicate experiment", func(c *Config) {
			c.Experiments = append(c.Experiments, c.Experiments[0])
		}, "duplicate experiment"},
		{"infinite price scale", func(c *Config) { c.Experiments[0].PriceScale = math.Inf(1) }, "price_scale must be finite"},
		{"unknown group", func(c *Config) { c.Experiments[0].Groups = []string{"ghost"} }, `unknown agent group "ghost"`},
		{"no groups", func(c *Config) { c.Experiments[0].Groups = nil }, ""},
		{"empty journal type", func(c *Config) { c.Journal.Type = "" }, ""},
		{"bad journal", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type must be"},
		{"csv without dir", func(c *Config) { c.Journal.Type = "csv" }, "journal dir required"},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }, "journal db_path required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadWithoutJournalBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.yaml")
	yml := `simulations: 2
periods: 3
agents:
  - name: noise
    kind: noise
    count: 4
    trade_scale: 0.01
experiments:
  - name: just_noise
    price_scale: 1
    groups: [noise]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Journal.Type)
	assert.Equal(t, 2, cfg.Simulations)
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	doc := `
seed: 99
simulations: 3
periods: 5
agents:
  - name: m
    kind: momentum
    count: 2
    trade_scale: 0.01
    trade_prob: 0.4
    entry_price: 1.05
    exit_price: 2
experiments:
  - name: only_momentum
    price_scale: 0.5
    groups: [m]
journal:
  type: sqlite
  db_path: ./x.sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, 1.05, cfg.Agents[0].EntryPrice)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, 0.5, cfg.Experiments[0].PriceScale)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("experiments: []\njournal: {type: none}\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestBuildAgentsDefault(t *testing.T) {
	cfg := Default()
	groups, err := cfg.BuildAgents()
	require.NoError(t, err)

	require.Len(t, groups["noise"], 100)
	for _, a := range groups["noise"] {
		assert.Equal(t, agents.KindNoise, a.Kind())
		assert.Equal(t, 1.0, a.TradeProb())
	}

	require.Len(t, groups["momentum"], 25)
	for _, a := range groups["momentum"] {
		m, ok := a.(*agents.MomentumAgent)
		require.True(t, ok)
		assert.GreaterOrEqual(t, m.TradeProb(), 0.1)
		assert.Less(t, m.TradeProb(), 0.5)
		assert.Equal(t, 1.1, m.EntryPrice())
		assert.Equal(t, 10.0, m.ExitPrice())
	}

	v, v2 := groups["value"][0], groups["value_2x"][0]
	assert.InDelta(t, 2*v.TradeScale(), v2.TradeScale(), 1e-15)
}

func TestBuildAgentsDeterministic(t *testing.T) {
	probs := func(seed uint64) []float64 {
		cfg := Default()
		cfg.AgentSeed = seed
		groups, err := cfg.BuildAgents()
		require.NoError(t, err)
		var out []float64
		for _, a := range groups["value"] {
			out = append(out, a.TradeProb())
		}
		return out
	}
	assert.Equal(t, probs(1), probs(1))
	assert.NotEqual(t, probs(1), probs(2))
}

func TestBuildAgentsFixedProb(t *testing.T) {
	cfg := valid()
	cfg.Agents[0] = AgentGroup{Name: "n", Kind: "value", Count: 3, TradeProb: 0.25, TradeScale: 1}
	groups, err := cfg.BuildAgents()
	require.NoError(t, err)
	for _, a := range groups["n"] {
		assert.Equal(t, 0.25, a.TradeProb())
	}
}
