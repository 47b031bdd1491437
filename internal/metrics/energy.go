package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/particles"
	"github.com/san-kum/nbodysim/internal/physics"
)

// Energy is the mean total (kinetic + pair potential) energy over all samples.
type Energy struct {
	name        string
	g           float64
	samples     int
	totalEnergy float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{
		name: "energy",
		g:    g,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *particles.Store, t float64) {
	e.totalEnergy += physics.KineticEnergy(s) + physics.PotentialEnergy(s, e.g)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of total energy from the
// first sample.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *particles.Store, t float64) {
	energy := physics.KineticEnergy(s) + physics.PotentialEnergy(s, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// Kinetic reports the most recent kinetic energy.
type Kinetic struct {
	last float64
}

func NewKinetic() *Kinetic { return &Kinetic{} }

func (k *Kinetic) Name() string                          { return "kinetic" }
func (k *Kinetic) Observe(s *particles.Store, t float64) { k.last = physics.KineticEnergy(s) }
func (k *Kinetic) Value() float64                        { return k.last }
func (k *Kinetic) Reset()                                { k.last = 0 }
