package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/particles"
	"github.com/san-kum/nbodysim/internal/physics"
)

// Spread reports the latest RMS distance of the particles from the origin.
type Spread struct {
	last float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string                            { return "rms_radius" }
func (s *Spread) Observe(st *particles.Store, t float64) { s.last = physics.RMSRadius(st) }
func (s *Spread) Value() float64                          { return s.last }
func (s *Spread) Reset()                                  { s.last = 0 }

// PeakSpeed is the fastest any particle moved at any sample.
type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(s *particles.Store, t float64) {
	p.peak = math.Max(p.peak, physics.MaxSpeed(s))
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// Momentum reports the magnitude of the total linear momentum.
type Momentum struct {
	last float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(s *particles.Store, t float64) {
	px, py := physics.Momentum(s)
	m.last = math.Hypot(px, py)
}

func (m *Momentum) Value() float64 { return m.last }
func (m *Momentum) Reset()         { m.last = 0 }
