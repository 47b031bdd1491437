package dynamo

import "time"

// FixedClock hands out the same dt every tick.
type FixedClock struct {
	Dt float64
}

func NewFixedClock(dt float64) *FixedClock {
	return &FixedClock{Dt: dt}
}

func (c *FixedClock) Delta() float64 { return c.Dt }

// WallClock reports the real time elapsed since the previous tick, in
// seconds. The first tick sees zero. Runs driven by it are not reproducible.
type WallClock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

func (c *WallClock) Delta() float64 {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
		return 0
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt
}
