package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/particles"
)

// G is the gravitational constant in SI units.
const G = 6.6743e-11

// SelfPairPolicy decides what the force pass does when a particle meets
// itself in the pair loop.
type SelfPairPolicy int

const (
	// SkipSelf leaves the i == j term out. Default.
	SkipSelf SelfPairPolicy = iota
	// Literal keeps the i == j term. Its 0/0 turns the particle's velocity
	// into NaN on the first tick.
	Literal
)

func (p SelfPairPolicy) String() string {
	switch p {
	case SkipSelf:
		return "skip"
	case Literal:
		return "literal"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func ParseSelfPairPolicy(name string) (SelfPairPolicy, error) {
	switch name {
	case "", "skip":
		return SkipSelf, nil
	case "literal":
		return Literal, nil
	default:
		return SkipSelf, fmt.Errorf("unknown self-pair policy: %s", name)
	}
}

// Gravity is the brute-force pairwise stepper. Each tick it settles every
// velocity against the pre-tick positions, then moves every particle.
//
// The per-pair update on particle i from particle j is
//
//	dx, dy = x[i]-x[j], y[i]-y[j]
//	r2 = dx*dx + dy*dy
//	f = G / r2
//	v[i] += f*dx/r*dt
//
// which pushes i away from j. The sign is kept as is.
type Gravity struct {
	G        float64
	SelfPair SelfPairPolicy
	// Workers other than 1 splits the force pass by particle index range;
	// zero or less means one worker per CPU.
	Workers  int
	MinChunk int

	bufX, bufY [][]float64
}

func NewGravity() *Gravity {
	return &Gravity{
		G:        G,
		SelfPair: SkipSelf,
		Workers:  1,
		MinChunk: 32,
	}
}

func (g *Gravity) Step(s *particles.Store, dt float64) {
	if dynamo.Workers(g.Workers) > 1 {
		g.accelerateParallel(s, dt)
	} else {
		g.accumulate(s, dt, 0, s.Len(), s.VX, s.VY)
	}
	Drift(s, dt)
}

// accumulate adds the pair terms for particles [start, end) into vx, vy,
// which hold those particles' velocities at offset i-start. j runs in
// index order so every caller sums the same terms in the same sequence.
func (g *Gravity) accumulate(s *particles.Store, dt float64, start, end int, vx, vy []float64) {
	n := s.Len()
	skip := g.SelfPair == SkipSelf

	for i := start; i < end; i++ {
		xi, yi := s.X[i], s.Y[i]
		ax, ay := vx[i-start], vy[i-start]

		for j := 0; j < n; j++ {
			if skip && i == j {
				continue
			}

			// explicit conversions stop the compiler fusing into FMA
			dx := xi - s.X[j]
			dy := yi - s.Y[j]
			r2 := float64(dx*dx) + float64(dy*dy)
			r := math.Sqrt(r2)

			f := g.G / r2
			ax += float64(f * dx / r * dt)
			ay += float64(f * dy / r * dt)
		}

		vx[i-start] = ax
		vy[i-start] = ay
	}
}

func (g *Gravity) accelerateParallel(s *particles.Store, dt float64) {
	n := s.Len()
	workers := dynamo.Workers(g.Workers)
	if len(g.bufX) < workers {
		g.bufX = make([][]float64, workers)
		g.bufY = make([][]float64, workers)
	}

	type span struct{ start, end int }
	spans := make([]span, workers)

	used := dynamo.ParallelFor(n, workers, g.MinChunk, func(w, start, end int) {
		size := end - start
		if cap(g.bufX[w]) < size {
			g.bufX[w] = make([]float64, size)
			g.bufY[w] = make([]float64, size)
		}
		bx, by := g.bufX[w][:size], g.bufY[w][:size]
		copy(bx, s.VX[start:end])
		copy(by, s.VY[start:end])

		g.accumulate(s, dt, start, end, bx, by)
		spans[w] = span{start, end}
	})

	for w := 0; w < used; w++ {
		sp := spans[w]
		copy(s.VX[sp.start:sp.end], g.bufX[w][:sp.end-sp.start])
		copy(s.VY[sp.start:sp.end], g.bufY[w][:sp.end-sp.start])
	}
}

// Drift advances every position by its velocity over dt.
func Drift(s *particles.Store, dt float64) {
	for i := range s.X {
		s.X[i] += float64(s.VX[i] * dt)
		s.Y[i] += float64(s.VY[i] * dt)
	}
}
