package particles

import "math"

// Store holds the mutable physical state of a fixed set of particles as
// parallel arrays. Index i names the same particle for the lifetime of the
// store.
type Store struct {
	X, Y   []float64
	VX, VY []float64
}

func New(n int) *Store {
	if n < 0 {
		n = 0
	}
	return &Store{
		X:  make([]float64, n),
		Y:  make([]float64, n),
		VX: make([]float64, n),
		VY: make([]float64, n),
	}
}

func (s *Store) Len() int { return len(s.X) }

func (s *Store) Position(i int) (x, y float64) { return s.X[i], s.Y[i] }

func (s *Store) Velocity(i int) (vx, vy float64) { return s.VX[i], s.VY[i] }

func (s *Store) Clone() *Store {
	c := New(s.Len())
	copy(c.X, s.X)
	copy(c.Y, s.Y)
	copy(c.VX, s.VX)
	copy(c.VY, s.VY)
	return c
}

// Equal reports whether both stores hold bit-identical values.
func (s *Store) Equal(other *Store) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, pair := range [][2][]float64{{s.X, other.X}, {s.Y, other.Y}, {s.VX, other.VX}, {s.VY, other.VY}} {
		for i := range pair[0] {
			if math.Float64bits(pair[0][i]) != math.Float64bits(pair[1][i]) {
				return false
			}
		}
	}
	return true
}

// Valid reports false if any coordinate is NaN or infinite.
func (s *Store) Valid() bool {
	for _, arr := range [][]float64{s.X, s.Y, s.VX, s.VY} {
		for _, v := range arr {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
