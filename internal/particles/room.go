package particles

import (
	"math"
	"math/rand"
)

// Room is a rectangle centered at the origin. It bounds initial placement
// only; particles are free to leave it once the simulation runs.
type Room struct {
	HalfX float64 `yaml:"half_x" json:"half_x"`
	HalfY float64 `yaml:"half_y" json:"half_y"`
}

// RoomFromSize builds a square room with the given side length.
func RoomFromSize(size float64) Room {
	return Room{HalfX: size / 2.0, HalfY: size / 2.0}
}

// MaxParticles caps the particle count of a room.
const MaxParticles = math.MaxInt32

// Count is the number of particles the room holds: (2hx)*(2hy) truncated
// toward zero. Rooms with a non-positive extent hold none, and so do rooms
// that are TooLarge.
func (r Room) Count() int {
	if r.HalfX <= 0 || r.HalfY <= 0 || r.TooLarge() {
		return 0
	}
	n := (r.HalfX * 2.0) * (r.HalfY * 2.0)
	if math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// TooLarge reports whether the room would hold more than MaxParticles.
func (r Room) TooLarge() bool {
	if r.HalfX <= 0 || r.HalfY <= 0 {
		return false
	}
	return (r.HalfX*2.0)*(r.HalfY*2.0) > MaxParticles
}

// Contains reports whether (x, y) lies in [-hx, hx) x [-hy, hy).
func (r Room) Contains(x, y float64) bool {
	return x >= -r.HalfX && x < r.HalfX && y >= -r.HalfY && y < r.HalfY
}

// Populate creates Count() particles placed uniformly inside the room with
// zero velocity. Draw order is x then y per particle, so a given seed always
// yields the same layout.
func Populate(room Room, rng *rand.Rand) *Store {
	n := room.Count()
	s := New(n)
	for i := 0; i < n; i++ {
		s.X[i] = uniform(rng, room.HalfX)
		s.Y[i] = uniform(rng, room.HalfY)
	}
	return s
}

func uniform(rng *rand.Rand, half float64) float64 {
	v := -half + rng.Float64()*2*half
	if v >= half {
		v = math.Nextafter(half, math.Inf(-1))
	}
	return v
}
