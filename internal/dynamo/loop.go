package dynamo

import (
	"context"
	"fmt"

	"github.com/san-kum/nbodysim/internal/particles"
)

// Loop owns a particle store and advances it tick by tick until the tick
// budget is spent.
type Loop struct {
	stepper   Stepper
	store     *particles.Store
	clock     Clock
	cfg       Config
	counter   int64
	simTime   float64
	phase     Phase
	done      chan struct{}
	metrics   []Metric
	observers []Observer
}

func NewLoop(stepper Stepper, store *particles.Store, clock Clock, cfg Config) *Loop {
	if cfg.SampleEvery < 1 {
		cfg.SampleEvery = 1
	}
	return &Loop{
		stepper:   stepper,
		store:     store,
		clock:     clock,
		cfg:       cfg,
		phase:     Running,
		done:      make(chan struct{}),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) Store() *particles.Store { return l.store }
func (l *Loop) Phase() Phase            { return l.phase }
func (l *Loop) Ticks() int64            { return l.counter }
func (l *Loop) SimTime() float64        { return l.simTime }

// Done is closed when the loop terminates.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Tick runs at most one step. While the counter is below MaxTicks it
// increments the counter, steps the store and returns Running. Once the
// budget is spent it terminates and returns Terminated from then on.
func (l *Loop) Tick() (Phase, error) {
	if l.phase == Terminated {
		return Terminated, nil
	}
	if l.counter >= l.cfg.MaxTicks {
		l.terminate()
		return Terminated, nil
	}

	l.counter++
	dt := l.clock.Delta()
	l.stepper.Step(l.store, dt)
	l.simTime += dt

	for _, obs := range l.observers {
		obs.OnStep(l.counter, dt, l.store)
	}
	if l.counter%l.cfg.SampleEvery == 0 || l.counter == l.cfg.MaxTicks {
		for _, m := range l.metrics {
			m.Observe(l.store, l.simTime)
		}
	}

	if l.cfg.ValidateState && !l.store.Valid() {
		err := &LoopError{Tick: l.counter, Time: l.simTime, Wrapped: ErrInvalidState}
		l.terminate()
		return Terminated, err
	}

	return Running, nil
}

func (l *Loop) terminate() {
	l.phase = Terminated
	close(l.done)
	for _, obs := range l.observers {
		obs.OnTerminate(l.counter)
	}
}

// Run ticks until the loop terminates or ctx is canceled. Cancellation is
// checked between ticks only.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	if l.stepper == nil || l.clock == nil || l.store == nil {
		return nil, fmt.Errorf("%w: loop needs a stepper, a clock and a store", ErrInvalidConfig)
	}

	for _, m := range l.metrics {
		m.Reset()
		m.Observe(l.store, l.simTime)
	}

	var runErr error
ticks:
	for {
		select {
		case <-ctx.Done():
			runErr = &LoopError{Tick: l.counter, Time: l.simTime, Wrapped: fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())}
			break ticks
		default:
		}

		phase, err := l.Tick()
		if err != nil {
			runErr = err
			break
		}
		if phase == Terminated {
			break
		}
	}

	result := &Result{
		Ticks:    l.counter,
		SimTime:  l.simTime,
		Metrics:  make(map[string]float64, len(l.metrics)),
		Canceled: l.phase != Terminated,
	}
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}
