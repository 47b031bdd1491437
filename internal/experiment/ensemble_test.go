package experiment

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

var _ = Describe("Ensemble", func() {
	It("runs one simulation per seed", func() {
		cfg := quickConfig()
		cfg.Metrics = []string{"kinetic", "containment"}

		results, err := NewEnsemble(cfg, 3, 10).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Ticks).To(Equal(cfg.MaxIter))
			Expect(r.Metrics).To(HaveKey("kinetic"))
		}
	})

	It("matches a single run with the same seed", func() {
		cfg := quickConfig()
		results, err := NewEnsemble(cfg, 2, cfg.Seed).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		exp, err := New(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		single, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(results[0].Metrics).To(Equal(single.Metrics))
	})

	It("surfaces configuration errors", func() {
		cfg := quickConfig()
		cfg.Clock = "sundial"

		_, err := NewEnsemble(cfg, 2, 1).Run(context.Background())
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("summarizes metrics across runs", func() {
		stats := Summarize([]*dynamo.Result{
			{Metrics: map[string]float64{"b": 1, "a": 2}},
			{Metrics: map[string]float64{"b": 3, "a": 2}},
			nil,
		})

		Expect(stats).To(HaveLen(2))
		Expect(stats[0].Name).To(Equal("a"))
		Expect(stats[0].Std).To(BeZero())
		Expect(stats[1].Mean).To(Equal(2.0))
		Expect(stats[1].Std).To(Equal(1.0))
		Expect(stats[1].Min).To(Equal(1.0))
		Expect(stats[1].Max).To(Equal(3.0))
		Expect(stats[1].Count).To(Equal(2))
	})
})
