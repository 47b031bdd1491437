package dynamo

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/particles"
)

type countingStepper struct {
	calls int
	dts   []float64
}

func (c *countingStepper) Step(s *particles.Store, dt float64) {
	c.calls++
	c.dts = append(c.dts, dt)
	for i := range s.X {
		s.X[i] += dt
	}
}

type poisonStepper struct{ after int }

func (p *poisonStepper) Step(s *particles.Store, dt float64) {
	p.after--
	if p.after <= 0 {
		s.VX[0] = math.NaN()
	}
}

type terminationRecorder struct {
	steps      []int64
	terminated int
	finalTicks int64
}

func (r *terminationRecorder) OnStep(tick int64, dt float64, s *particles.Store) {
	r.steps = append(r.steps, tick)
}

func (r *terminationRecorder) OnTerminate(ticks int64) {
	r.terminated++
	r.finalTicks = ticks
}

type countMetric struct {
	observed int
	resets   int
}

func (m *countMetric) Name() string                          { return "count" }
func (m *countMetric) Observe(s *particles.Store, t float64) { m.observed++ }
func (m *countMetric) Value() float64                        { return float64(m.observed) }
func (m *countMetric) Reset() {
	m.observed = 0
	m.resets++
}

var _ = Describe("Loop", func() {
	var (
		stepper  *countingStepper
		store    *particles.Store
		recorder *terminationRecorder
	)

	BeforeEach(func() {
		stepper = &countingStepper{}
		store = particles.New(2)
		recorder = &terminationRecorder{}
	})

	Describe("Tick", func() {
		It("executes exactly max ticks steps and then terminates once", func() {
			loop := NewLoop(stepper, store, NewFixedClock(0.5), Config{MaxTicks: 5})
			loop.AddObserver(recorder)

			for i := 0; i < 5; i++ {
				phase, err := loop.Tick()
				Expect(err).NotTo(HaveOccurred())
				Expect(phase).To(Equal(Running))
			}
			Expect(stepper.calls).To(Equal(5))
			Expect(recorder.terminated).To(BeZero())
			Expect(loop.Done()).NotTo(BeClosed())

			phase, err := loop.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(phase).To(Equal(Terminated))
			Expect(stepper.calls).To(Equal(5))
			Expect(recorder.terminated).To(Equal(1))
			Expect(recorder.finalTicks).To(Equal(int64(5)))
			Expect(loop.Done()).To(BeClosed())
		})

		It("stays terminated without stepping or signalling again", func() {
			loop := NewLoop(stepper, store, NewFixedClock(0.5), Config{MaxTicks: 2})
			loop.AddObserver(recorder)

			for i := 0; i < 10; i++ {
				_, _ = loop.Tick()
			}
			Expect(stepper.calls).To(Equal(2))
			Expect(recorder.terminated).To(Equal(1))
			Expect(loop.Phase()).To(Equal(Terminated))
		})

		It("terminates immediately with a zero budget", func() {
			loop := NewLoop(stepper, store, NewFixedClock(0.5), Config{MaxTicks: 0})
			loop.AddObserver(recorder)

			phase, err := loop.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(phase).To(Equal(Terminated))
			Expect(stepper.calls).To(BeZero())
			Expect(recorder.terminated).To(Equal(1))
		})

		It("passes the clock's dt to the stepper and observers", func() {
			loop := NewLoop(stepper, store, NewFixedClock(0.25), Config{MaxTicks: 3})
			loop.AddObserver(recorder)

			_, _ = loop.Tick()
			_, _ = loop.Tick()
			Expect(stepper.dts).To(Equal([]float64{0.25, 0.25}))
			Expect(recorder.steps).To(Equal([]int64{1, 2}))
			Expect(loop.SimTime()).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("stops with ErrInvalidState when validation is on", func() {
			loop := NewLoop(&poisonStepper{after: 3}, store, NewFixedClock(1), Config{MaxTicks: 10, ValidateState: true})
			loop.AddObserver(recorder)

			var err error
			phase := Running
			for phase == Running && err == nil {
				phase, err = loop.Tick()
			}
			Expect(errors.Is(err, ErrInvalidState)).To(BeTrue())

			var loopErr *LoopError
			Expect(errors.As(err, &loopErr)).To(BeTrue())
			Expect(loopErr.Tick).To(Equal(int64(3)))
			Expect(phase).To(Equal(Terminated))
			Expect(recorder.terminated).To(Equal(1))
		})

		It("lets NaN through when validation is off", func() {
			loop := NewLoop(&poisonStepper{after: 1}, store, NewFixedClock(1), Config{MaxTicks: 3})
			result, err := loop.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Ticks).To(Equal(int64(3)))
			Expect(loop.Store().Valid()).To(BeFalse())
		})
	})

	Describe("Run", func() {
		It("runs the whole budget and reports the result", func() {
			loop := NewLoop(stepper, store, NewFixedClock(0.1), Config{MaxTicks: 5})
			loop.AddObserver(recorder)

			result, err := loop.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Ticks).To(Equal(int64(5)))
			Expect(result.Canceled).To(BeFalse())
			Expect(result.SimTime).To(BeNumerically("~", 0.5, 1e-12))
			Expect(stepper.calls).To(Equal(5))
			Expect(recorder.terminated).To(Equal(1))
		})

		It("handles an empty store", func() {
			loop := NewLoop(stepper, particles.New(0), NewFixedClock(0.1), Config{MaxTicks: 4})
			result, err := loop.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Ticks).To(Equal(int64(4)))
		})

		It("samples metrics on the configured cadence", func() {
			metric := &countMetric{}
			loop := NewLoop(stepper, store, NewFixedClock(0.1), Config{MaxTicks: 10, SampleEvery: 4})
			loop.AddMetric(metric)

			result, err := loop.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(metric.resets).To(Equal(1))
			// initial sample, ticks 4 and 8, and the final tick
			Expect(result.Metrics["count"]).To(Equal(4.0))
		})

		It("stops between ticks when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			loop := NewLoop(stepper, store, NewFixedClock(0.1), Config{MaxTicks: 1000})
			loop.AddObserver(ObserverFunc(func(tick int64, dt float64, s *particles.Store) {
				if tick == 3 {
					cancel()
				}
			}))

			result, err := loop.Run(ctx)
			Expect(errors.Is(err, ErrCanceled)).To(BeTrue())
			Expect(result.Ticks).To(Equal(int64(3)))
			Expect(result.Canceled).To(BeTrue())
			Expect(loop.Done()).NotTo(BeClosed())
		})

		It("treats a negative budget as an empty one", func() {
			loop := NewLoop(stepper, store, NewFixedClock(0.1), Config{MaxTicks: -1})
			loop.AddObserver(recorder)

			result, err := loop.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Ticks).To(BeZero())
			Expect(stepper.calls).To(BeZero())
			Expect(recorder.terminated).To(Equal(1))
		})

		It("rejects a loop without a clock", func() {
			loop := NewLoop(stepper, store, nil, Config{MaxTicks: 1})
			_, err := loop.Run(context.Background())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
		})
	})
})
