package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStep = 0.01
	DefaultSpan = 1.0
)

type Config struct {
	Model     string             `yaml:"model"`
	Method    string             `yaml:"method"`
	Step      float64            `yaml:"step"`
	Span      float64            `yaml:"span"`
	InitState []float64          `yaml:"init_state"`
	Params    map[string]float64 `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     "decay",
		Method:    "rk4",
		Step:      DefaultStep,
		Span:      DefaultSpan,
		InitState: []float64{1.0},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields the integrator cannot defend itself against
// once the run is assembled. The span may be any finite value; a
// non-positive span is a defined no-op, not an error.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: model must be set")
	}
	if c.Method == "" {
		return fmt.Errorf("config: method must be set")
	}
	if c.Step <= 0 || math.IsNaN(c.Step) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("config: step must be positive and finite, got %v", c.Step)
	}
	if math.IsNaN(c.Span) || math.IsInf(c.Span, 0) {
		return fmt.Errorf("config: span must be finite, got %v", c.Span)
	}
	if len(c.InitState) == 0 {
		return fmt.Errorf("config: init_state must not be empty")
	}
	return nil
}
