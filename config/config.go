package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/dealersim/agents"
	"gopkg.in/yaml.v3"
)

// Config describes the agent population, the experiments that poll it and
// where their price paths are journaled.
type Config struct {
	Seed        uint64             `json:"seed" yaml:"seed"`
	AgentSeed   uint64             `json:"agent_seed" yaml:"agent_seed"`
	Simulations int                `json:"simulations" yaml:"simulations"`
	Periods     int                `json:"periods" yaml:"periods"`
	Workers     int                `json:"workers" yaml:"workers"`
	Agents      []AgentGroup       `json:"agents" yaml:"agents"`
	Experiments []ExperimentConfig `json:"experiments" yaml:"experiments"`
	Journal     JournalConfig      `json:"journal" yaml:"journal"`
}

// AgentGroup is a named batch of identically configured agents. A group is
// built once and its agents are shared by every experiment listing it.
type AgentGroup struct {
	Name       string  `json:"name" yaml:"name"`
	Kind       string  `json:"kind" yaml:"kind"`
	Count      int     `json:"count" yaml:"count"`
	TradeScale float64 `json:"trade_scale" yaml:"trade_scale"`

	// Either a fixed probability, or a range each agent draws its own
	// probability from uniformly. Ignored for noise agents.
	TradeProb    float64 `json:"trade_prob,omitempty" yaml:"trade_prob,omitempty"`
	TradeProbMin float64 `json:"trade_prob_min,omitempty" yaml:"trade_prob_min,omitempty"`
	TradeProbMax float64 `json:"trade_prob_max,omitempty" yaml:"trade_prob_max,omitempty"`

	// momentum only
	EntryPrice float64 `json:"entry_price,omitempty" yaml:"entry_price,omitempty"`
	ExitPrice  float64 `json:"exit_price,omitempty" yaml:"exit_price,omitempty"`
}

// HasProbRange reports whether agents draw their trade probability.
func (g AgentGroup) HasProbRange() bool {
	return g.TradeProbMin != 0 || g.TradeProbMax != 0
}

// ExperimentConfig is one dealer polling the listed groups in order.
type ExperimentConfig struct {
	Name       string   `json:"name" yaml:"name"`
	PriceScale float64  `json:"price_scale" yaml:"price_scale"`
	Groups     []string `json:"groups" yaml:"groups"`
}

// JournalConfig selects where results go.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "csv", "sqlite" or "none" (also "")
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile reads an experiment file, YAML or JSON, and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiment file: %w", err)
	}

	cfg := &Config{}
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse %s as YAML or JSON: %w", path, jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes c as YAML when path ends in .yaml or .yml and as indented
// JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	marshal := func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		marshal = yaml.Marshal
	}

	data, err := marshal(c)
	if err != nil {
		return fmt.Errorf("encode experiments: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write experiment file: %w", err)
	}
	return nil
}

// Group returns the agent group with the given name.
func (c *Config) Group(name string) (AgentGroup, bool) {
	for _, g := range c.Agents {
		if g.Name == name {
			return g, true
		}
	}
	return AgentGroup{}, false
}

// Validate rejects negative counts, unknown or duplicate groups, experiment
// names unusable as file names and incomplete journal settings.
func (c *Config) Validate() error {
	if c.Simulations < 0 {
		return fmt.Errorf("simulations must not be negative")
	}
	if c.Periods < 0 {
		return fmt.Errorf("periods must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}

	names := map[string]bool{}
	for i, g := range c.Agents {
		if g.Name == "" {
			return fmt.Errorf("agents[%d].name is required", i)
		}
		if names[g.Name] {
			return fmt.Errorf("duplicate agent group %q", g.Name)
		}
		names[g.Name] = true
		if err := g.validate(); err != nil {
			return fmt.Errorf("agent group %q: %w", g.Name, err)
		}
	}

	if len(c.Experiments) == 0 {
		return fmt.Errorf("at least one experiment is required")
	}
	exps := map[string]bool{}
	for i, e := range c.Experiments {
		if e.Name == "" {
			return fmt.Errorf("experiments[%d].name is required", i)
		}
		if strings.ContainsAny(e.Name, `/\`) {
			return fmt.Errorf("experiment %q: name must not contain path separators", e.Name)
		}
		if exps[e.Name] {
			return fmt.Errorf("duplicate experiment %q", e.Name)
		}
		exps[e.Name] = true
		if math.IsNaN(e.PriceScale) || math.IsInf(e.PriceScale, 0) {
			return fmt.Errorf("experiment %q: price_scale must be finite", e.Name)
		}
		for _, g := range e.Groups {
			if !names[g] {
				return fmt.Errorf("experiment %q: unknown agent group %q", e.Name, g)
			}
		}
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal dir required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
		// an omitted journal block discards results
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

func (g AgentGroup) validate() error {
	kind, err := agents.ParseKind(g.Kind)
	if err != nil {
		return err
	}
	if g.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if math.IsNaN(g.TradeScale) || math.IsInf(g.TradeScale, 0) {
		return fmt.Errorf("trade_scale must be finite")
	}
	if kind == agents.KindNoise {
		return nil
	}

	if g.HasProbRange() {
		if g.TradeProbMin < 0 || g.TradeProbMax > 1 || g.TradeProbMin > g.TradeProbMax {
			return fmt.Errorf("trade_prob_min/max must satisfy 0 <= min <= max <= 1")
		}
	} else if g.TradeProb < 0 || g.TradeProb > 1 {
		return fmt.Errorf("trade_prob must be between 0 and 1")
	}

	if kind == agents.KindMomentum && g.EntryPrice > g.ExitPrice {
		return fmt.Errorf("entry_price must not exceed exit_price")
	}
	return nil
}

// Default reproduces the four classic experiments: noise traders alone, then
// joined by value traders, by momentum traders, and by both.
func Default() *Config {
	noiseScale := 0.1 / math.Sqrt(100.0) / 10.0
	valueScale := 0.03 / math.Sqrt(75.0)
	momentumScale := 0.1 / math.Sqrt(50.0)

	return &Config{
		Seed:        1234,
		AgentSeed:   42,
		Simulations: 1000,
		Periods:     100,
		Workers:     1,
		Agents: []AgentGroup{
			{Name: "noise", Kind: "noise", Count: 100, TradeScale: noiseScale},
			{Name: "value", Kind: "value", Count: 25, TradeScale: valueScale, TradeProbMin: 0.1, TradeProbMax: 0.5},
			{Name: "value_2x", Kind: "value", Count: 25, TradeScale: valueScale * 2.0, TradeProbMin: 0.1, TradeProbMax: 0.5},
			{Name: "value_half", Kind: "value", Count: 25, TradeScale: valueScale * 0.5, TradeProbMin: 0.1, TradeProbMax: 0.5},
			{Name: "momentum", Kind: "momentum", Count: 25, TradeScale: momentumScale, TradeProbMin: 0.1, TradeProbMax: 0.5, EntryPrice: 1.1, ExitPrice: 10.0},
		},
		Experiments: []ExperimentConfig{
			{Name: "just_noise", PriceScale: 1.0, Groups: []string{"noise"}},
			{Name: "noise_and_value", PriceScale: 1.0, Groups: []string{"noise", "value", "value_2x", "value_half"}},
			{Name: "noise_and_momentum", PriceScale: 1.0, Groups: []string{"noise", "momentum"}},
			{Name: "all_agents", PriceScale: 1.0, Groups: []string{"noise", "momentum", "value", "value_2x", "value_half"}},
		},
		Journal: JournalConfig{
			Type:   "csv",
			Dir:    "./out",
			DBPath: "./dealersim.sqlite",
		},
	}
}
