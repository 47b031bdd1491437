package dynamo

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/particles"
)

var _ = Describe("Clocks", func() {
	It("returns a constant dt from a fixed clock", func() {
		c := NewFixedClock(0.02)
		Expect(c.Delta()).To(Equal(0.02))
		Expect(c.Delta()).To(Equal(0.02))
	})

	It("reports wall time between ticks", func() {
		base := time.Unix(100, 0)
		offsets := []time.Duration{0, 250 * time.Millisecond, 1250 * time.Millisecond}
		i := 0
		c := NewWallClock()
		c.now = func() time.Time {
			t := base.Add(offsets[i])
			i++
			return t
		}

		Expect(c.Delta()).To(Equal(0.0))
		Expect(c.Delta()).To(BeNumerically("~", 0.25, 1e-9))
		Expect(c.Delta()).To(BeNumerically("~", 1.0, 1e-9))
	})
})

var _ = Describe("DeltaPrinter", func() {
	It("prints one dt per tick", func() {
		var buf bytes.Buffer
		loop := NewLoop(&countingStepper{}, particles.New(1), NewFixedClock(0.5), Config{MaxTicks: 3})
		loop.AddObserver(DeltaPrinter{W: &buf})

		for {
			phase, _ := loop.Tick()
			if phase == Terminated {
				break
			}
		}
		Expect(buf.String()).To(Equal("0.5\n0.5\n0.5\n"))
	})
})

var _ = Describe("ParallelFor", func() {
	It("covers every index exactly once", func() {
		hits := make([]int, 103)
		used := ParallelFor(len(hits), 4, 8, func(worker, start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		Expect(used).To(Equal(4))
		for i, h := range hits {
			Expect(h).To(Equal(1), "index %d", i)
		}
	})

	It("runs small ranges inline", func() {
		calls := 0
		used := ParallelFor(5, 8, 16, func(worker, start, end int) {
			calls++
			Expect(worker).To(Equal(0))
			Expect(start).To(Equal(0))
			Expect(end).To(Equal(5))
		})
		Expect(used).To(Equal(1))
		Expect(calls).To(Equal(1))
	})

	It("resolves non-positive worker counts to the CPU count", func() {
		Expect(Workers(0)).To(BeNumerically(">=", 1))
		Expect(Workers(3)).To(Equal(3))
	})
})
