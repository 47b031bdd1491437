package physics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/particles"
)

// Every particle carries unit mass.

func KineticEnergy(s *particles.Store) float64 {
	ke := 0.0
	for i := range s.VX {
		ke += 0.5 * (s.VX[i]*s.VX[i] + s.VY[i]*s.VY[i])
	}
	return ke
}

// PotentialEnergy matches the repulsive pair law used by Gravity: each
// distinct pair contributes +g/r. Coincident pairs are skipped.
func PotentialEnergy(s *particles.Store, g float64) float64 {
	n := s.Len()
	pe := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := s.X[i] - s.X[j]
			dy := s.Y[i] - s.Y[j]
			r := math.Sqrt(dx*dx + dy*dy)
			if r > 0 {
				pe += g / r
			}
		}
	}
	return pe
}

func Momentum(s *particles.Store) (px, py float64) {
	for i := range s.VX {
		px += s.VX[i]
		py += s.VY[i]
	}
	return
}

func AngularMomentum(s *particles.Store) float64 {
	L := 0.0
	for i := range s.X {
		L += s.X[i]*s.VY[i] - s.Y[i]*s.VX[i]
	}
	return L
}

// RMSRadius is the root mean square distance of the particles from the origin.
func RMSRadius(s *particles.Store) float64 {
	n := s.Len()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := range s.X {
		sum += s.X[i]*s.X[i] + s.Y[i]*s.Y[i]
	}
	return math.Sqrt(sum / float64(n))
}

func MaxSpeed(s *particles.Store) float64 {
	max := 0.0
	for i := range s.VX {
		v := math.Hypot(s.VX[i], s.VY[i])
		if v > max {
			max = v
		}
	}
	return max
}
