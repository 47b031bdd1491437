package dynamo

import (
	"fmt"

	"github.com/san-kum/nbodysim/internal/particles"
)

// Phase is the run loop state.
type Phase int

const (
	Running Phase = iota
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Stepper interface {
	Step(s *particles.Store, dt float64)
}

type Clock interface {
	Delta() float64
}

type Observer interface {
	OnStep(tick int64, dt float64, s *particles.Store)
	OnTerminate(ticks int64)
}

type Metric interface {
	Name() string
	Observe(s *particles.Store, t float64)
	Value() float64
	Reset()
}

type Config struct {
	MaxTicks int64
	// SampleEvery controls how often metrics observe the store, in ticks.
	SampleEvery   int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		MaxTicks:    100000,
		SampleEvery: 1,
	}
}

type Result struct {
	Ticks    int64
	SimTime  float64
	Metrics  map[string]float64
	Canceled bool
}
