package experiment

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Ensemble runs the same configuration under consecutive seeds, one
// goroutine per run.
type Ensemble struct {
	cfg       config.Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: *cfg, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed, in seed order. The first error from any
// run is returned and the results are dropped.
func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)
			cfgCopy.PrintDt = false

			exp, err := New(&cfgCopy, nil)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Stat summarizes one metric across an ensemble.
type Stat struct {
	Name      string
	Mean, Std float64
	Min, Max  float64
	Count     int
}

// Summarize folds the final metric values of results into per-metric
// statistics, sorted by name.
func Summarize(results []*dynamo.Result) []Stat {
	values := make(map[string][]float64)
	for _, r := range results {
		if r == nil {
			continue
		}
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	stats := make([]Stat, 0, len(values))
	for name, vs := range values {
		st := Stat{Name: name, Min: vs[0], Max: vs[0], Count: len(vs)}
		sum := 0.0
		for _, v := range vs {
			sum += v
			st.Min = math.Min(st.Min, v)
			st.Max = math.Max(st.Max, v)
		}
		st.Mean = sum / float64(len(vs))

		sq := 0.0
		for _, v := range vs {
			sq += (v - st.Mean) * (v - st.Mean)
		}
		st.Std = math.Sqrt(sq / float64(len(vs)))
		stats = append(stats, st)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}
