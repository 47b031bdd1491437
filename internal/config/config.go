package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRoomSize    = 10.0
	DefaultMaxIter     = 100000
	DefaultDt          = 0.01
	DefaultClock       = ClockFixed
	DefaultSelfPair    = "skip"
	DefaultG           = 6.6743e-11
	DefaultSampleEvery = 100
	DefaultWorkers     = 1
)

const (
	ClockFixed = "fixed"
	ClockWall  = "wall"
)

type Config struct {
	RoomSize      float64  `yaml:"room_size"`
	MaxIter       int64    `yaml:"max_iter"`
	Dt            float64  `yaml:"dt"`
	Clock         string   `yaml:"clock"`
	Seed          int64    `yaml:"seed"`
	Workers       int      `yaml:"workers"`
	SelfPair      string   `yaml:"self_pair"`
	G             float64  `yaml:"g"`
	ValidateState bool     `yaml:"validate"`
	SampleEvery   int64    `yaml:"sample_every"`
	PrintDt       bool     `yaml:"print_dt"`
	Metrics       []string `yaml:"metrics,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		RoomSize:    DefaultRoomSize,
		MaxIter:     DefaultMaxIter,
		Dt:          DefaultDt,
		Clock:       DefaultClock,
		Workers:     DefaultWorkers,
		SelfPair:    DefaultSelfPair,
		G:           DefaultG,
		SampleEvery: DefaultSampleEvery,
		PrintDt:     true,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the keys present in the file at path onto cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings the run loop cannot fall back from. Room
// size and iteration count are never rejected.
func (c *Config) Validate() error {
	switch c.Clock {
	case ClockFixed:
		if c.Dt <= 0 {
			return fmt.Errorf("dt must be positive with a fixed clock, got %f", c.Dt)
		}
	case ClockWall:
	default:
		return fmt.Errorf("unknown clock: %s (want %s or %s)", c.Clock, ClockFixed, ClockWall)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must not be negative, got %d", c.SampleEvery)
	}
	return nil
}

// Deterministic reports whether two runs of this config must match bit for bit.
func (c *Config) Deterministic() bool {
	return c.Clock == ClockFixed && c.Seed != 0
}
