package metrics

import (
	"github.com/san-kum/nbodysim/internal/particles"
)

// Containment is the fraction of particles still inside the starting room
// at the latest sample. An empty store counts as fully contained.
type Containment struct {
	name    string
	room    particles.Room
	inside  int
	total   int
	samples int
}

func NewContainment(room particles.Room) *Containment {
	return &Containment{
		name: "containment",
		room: room,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s *particles.Store, t float64) {
	c.samples++
	c.total = s.Len()
	c.inside = 0
	for i := range s.X {
		if c.room.Contains(s.X[i], s.Y[i]) {
			c.inside++
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 || c.total == 0 {
		return 1.0
	}
	return float64(c.inside) / float64(c.total)
}

func (c *Containment) Reset() {
	c.inside = 0
	c.total = 0
	c.samples = 0
}
