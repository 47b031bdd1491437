package metrics

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/particles"
)

type Sample struct {
	Time  float64
	Value float64
}

// Recorder wraps a metric and keeps the value seen after every observation.
type Recorder struct {
	dynamo.Metric
	samples []Sample
}

func Record(m dynamo.Metric) *Recorder {
	return &Recorder{Metric: m, samples: make([]Sample, 0, 64)}
}

func (r *Recorder) Observe(s *particles.Store, t float64) {
	r.Metric.Observe(s, t)
	r.samples = append(r.samples, Sample{Time: t, Value: r.Metric.Value()})
}

func (r *Recorder) Reset() {
	r.Metric.Reset()
	r.samples = r.samples[:0]
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Defaults is the standard metric set for a run inside room.
func Defaults(g float64, room particles.Room) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(g),
		NewEnergyDrift(g),
		NewKinetic(),
		NewMomentum(),
		NewSpread(),
		NewPeakSpeed(),
		NewContainment(room),
	}
}
