package agents

import (
	"fmt"
	"math"
)

// ConfigError reports an agent parameter rejected at construction time.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("agent config: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func checkProb(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return &ConfigError{Field: "trade_prob", Value: p, Reason: "must be between 0 and 1"}
	}
	return nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ConfigError{Field: field, Value: v, Reason: "must be finite"}
	}
	return nil
}
