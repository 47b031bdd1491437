package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/particles"
)

type Registry struct {
	clocks  map[string]func(cfg *config.Config) dynamo.Clock
	metrics map[string]func(cfg *config.Config, room particles.Room) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		clocks:  make(map[string]func(*config.Config) dynamo.Clock),
		metrics: make(map[string]func(*config.Config, particles.Room) dynamo.Metric),
	}

	r.clocks[config.ClockFixed] = func(cfg *config.Config) dynamo.Clock { return dynamo.NewFixedClock(cfg.Dt) }
	r.clocks[config.ClockWall] = func(cfg *config.Config) dynamo.Clock { return dynamo.NewWallClock() }

	r.metrics["energy"] = func(cfg *config.Config, _ particles.Room) dynamo.Metric { return metrics.NewEnergy(cfg.G) }
	r.metrics["energy_drift"] = func(cfg *config.Config, _ particles.Room) dynamo.Metric { return metrics.NewEnergyDrift(cfg.G) }
	r.metrics["kinetic"] = func(*config.Config, particles.Room) dynamo.Metric { return metrics.NewKinetic() }
	r.metrics["momentum"] = func(*config.Config, particles.Room) dynamo.Metric { return metrics.NewMomentum() }
	r.metrics["rms_radius"] = func(*config.Config, particles.Room) dynamo.Metric { return metrics.NewSpread() }
	r.metrics["peak_speed"] = func(*config.Config, particles.Room) dynamo.Metric { return metrics.NewPeakSpeed() }
	r.metrics["containment"] = func(_ *config.Config, room particles.Room) dynamo.Metric { return metrics.NewContainment(room) }

	return r
}

func (r *Registry) GetClock(cfg *config.Config) (dynamo.Clock, error) {
	fn, ok := r.clocks[cfg.Clock]
	if !ok {
		return nil, fmt.Errorf("unknown clock: %s", cfg.Clock)
	}
	return fn(cfg), nil
}

func (r *Registry) GetMetric(name string, cfg *config.Config, room particles.Room) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, r.ListMetrics())
	}
	return fn(cfg, room), nil
}

// Metrics builds the metrics named in cfg, or every registered one when
// cfg names none.
func (r *Registry) Metrics(cfg *config.Config, room particles.Room) ([]dynamo.Metric, error) {
	names := cfg.Metrics
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, cfg, room)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListClocks() []string {
	names := make([]string, 0, len(r.clocks))
	for name := range r.clocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
