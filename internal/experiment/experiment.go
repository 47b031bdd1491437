package experiment

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/particles"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/storage"
)

// Experiment is one fully assembled simulation run.
type Experiment struct {
	cfg        config.Config
	room       particles.Room
	seed       int64
	randSource *rand.Rand
	gravity    *physics.Gravity
	loop       *dynamo.Loop
	recorders  []*metrics.Recorder
	elapsed    time.Duration
}

// New validates cfg, seeds the generator, populates the room and wires the
// run loop. When cfg.PrintDt is set every tick's dt is written to out; a nil
// out silences it.
func New(cfg *config.Config, out io.Writer) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}

	policy, err := physics.ParseSelfPairPolicy(cfg.SelfPair)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}

	registry := NewRegistry()
	clock, err := registry.GetClock(cfg)
	if err != nil {
		return nil, err
	}

	room := particles.RoomFromSize(cfg.RoomSize)
	if room.TooLarge() {
		return nil, fmt.Errorf("%w: room size %g holds more than %d particles", dynamo.ErrInvalidConfig, cfg.RoomSize, particles.MaxParticles)
	}

	e := &Experiment{
		cfg:  *cfg,
		room: room,
		seed: cfg.Seed,
	}
	if e.seed == 0 {
		e.seed = time.Now().UnixNano()
	}
	e.randSource = rand.New(rand.NewSource(e.seed))

	e.gravity = physics.NewGravity()
	e.gravity.G = cfg.G
	e.gravity.SelfPair = policy
	e.gravity.Workers = cfg.Workers
	if cfg.Workers == 0 {
		e.gravity.Workers = dynamo.Workers(0)
	}

	store := particles.Populate(e.room, e.randSource)
	e.loop = dynamo.NewLoop(e.gravity, store, clock, dynamo.Config{
		MaxTicks:      cfg.MaxIter,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: cfg.ValidateState,
	})

	ms, err := registry.Metrics(cfg, e.room)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		rec := metrics.Record(m)
		e.recorders = append(e.recorders, rec)
		e.loop.AddMetric(rec)
	}

	if cfg.PrintDt && out != nil {
		e.loop.AddObserver(dynamo.DeltaPrinter{W: out})
	}

	return e, nil
}

func (e *Experiment) AddObserver(o dynamo.Observer) { e.loop.AddObserver(o) }

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	start := time.Now()
	result, err := e.loop.Run(ctx)
	e.elapsed = time.Since(start)
	return result, err
}

// Loop returns the underlying run loop for stepping by hand.
func (e *Experiment) Loop() *dynamo.Loop             { return e.loop }
func (e *Experiment) Store() *particles.Store        { return e.loop.Store() }
func (e *Experiment) Room() particles.Room           { return e.room }
func (e *Experiment) Seed() int64                    { return e.seed }
func (e *Experiment) Config() config.Config          { return e.cfg }
func (e *Experiment) Gravity() *physics.Gravity      { return e.gravity }
func (e *Experiment) Elapsed() time.Duration         { return e.elapsed }
func (e *Experiment) Recorders() []*metrics.Recorder { return e.recorders }

func (e *Experiment) Series() []storage.Series {
	series := make([]storage.Series, len(e.recorders))
	for i, r := range e.recorders {
		samples := make([]metrics.Sample, len(r.Samples()))
		copy(samples, r.Samples())
		series[i] = storage.Series{Name: r.Name(), Samples: samples}
	}
	return series
}

func (e *Experiment) Metadata(result *dynamo.Result) storage.RunMetadata {
	meta := storage.RunMetadata{
		Seed:      e.seed,
		RoomSize:  e.cfg.RoomSize,
		Particles: e.loop.Store().Len(),
		MaxIter:   e.cfg.MaxIter,
		Dt:        e.cfg.Dt,
		Clock:     e.cfg.Clock,
		Workers:   e.gravity.Workers,
		SelfPair:  e.gravity.SelfPair.String(),
		G:         e.gravity.G,
		Elapsed:   e.elapsed.Seconds(),
	}
	if result != nil {
		meta.Ticks = result.Ticks
		meta.SimTime = result.SimTime
		meta.Metrics = result.Metrics
	}
	return meta
}

// Save persists the run's metadata, final state and metric series.
func (e *Experiment) Save(st *storage.Store, result *dynamo.Result) (string, error) {
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(e.Metadata(result), e.loop.Store(), e.Series())
}
