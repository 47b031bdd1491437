package experiment

import (
	"bytes"
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/storage"
)

func quickConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.RoomSize = 4
	cfg.MaxIter = 25
	cfg.Seed = 1234
	cfg.G = 1e-3
	cfg.SampleEvery = 5
	cfg.PrintDt = false
	return cfg
}

var _ = Describe("Experiment", func() {
	It("populates the default room with 100 particles", func() {
		cfg := config.DefaultConfig()
		cfg.Seed = 5
		exp, err := New(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Store().Len()).To(Equal(100))

		room := exp.Room()
		for i := 0; i < exp.Store().Len(); i++ {
			x, y := exp.Store().Position(i)
			Expect(room.Contains(x, y)).To(BeTrue())
			vx, vy := exp.Store().Velocity(i)
			Expect(vx).To(BeZero())
			Expect(vy).To(BeZero())
		}
	})

	It("produces bit-identical runs for the same seed", func() {
		a, err := New(quickConfig(), nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := New(quickConfig(), nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = a.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		_, err = b.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Store().Equal(b.Store())).To(BeTrue())
		Expect(a.Store().Valid()).To(BeTrue())
	})

	It("matches the serial run when the force pass is split", func() {
		serialCfg := quickConfig()
		serialCfg.RoomSize = 12
		parallelCfg := quickConfig()
		parallelCfg.RoomSize = 12
		parallelCfg.Workers = 4

		serial, err := New(serialCfg, nil)
		Expect(err).NotTo(HaveOccurred())
		parallel, err := New(parallelCfg, nil)
		Expect(err).NotTo(HaveOccurred())
		parallel.Gravity().MinChunk = 8

		_, err = serial.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		_, err = parallel.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(serial.Store().Equal(parallel.Store())).To(BeTrue())
	})

	It("prints dt once per tick", func() {
		cfg := quickConfig()
		cfg.MaxIter = 5
		cfg.PrintDt = true
		var out bytes.Buffer

		exp, err := New(cfg, &out)
		Expect(err).NotTo(HaveOccurred())
		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ticks).To(Equal(int64(5)))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(5))
		Expect(lines).To(HaveEach("0.01"))
	})

	It("runs an empty room to completion", func() {
		cfg := quickConfig()
		cfg.RoomSize = -3
		exp, err := New(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Store().Len()).To(BeZero())

		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ticks).To(Equal(int64(25)))
		Expect(exp.Loop().Phase()).To(Equal(dynamo.Terminated))
	})

	It("picks a seed when none is configured", func() {
		cfg := quickConfig()
		cfg.Seed = 0
		exp, err := New(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Seed()).NotTo(BeZero())
	})

	It("records a sample series for each metric", func() {
		exp, err := New(quickConfig(), nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		series := exp.Series()
		Expect(series).To(HaveLen(len(NewRegistry().ListMetrics())))
		for _, s := range series {
			// t=0 plus ticks 5, 10, 15, 20, 25
			Expect(s.Samples).To(HaveLen(6), s.Name)
		}
	})

	It("only builds the metrics it is asked for", func() {
		cfg := quickConfig()
		cfg.Metrics = []string{"momentum", "kinetic"}
		exp, err := New(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Recorders()).To(HaveLen(2))
		Expect(exp.Recorders()[0].Name()).To(Equal("momentum"))
	})

	It("keeps momentum balanced under the symmetric pair law", func() {
		exp, err := New(quickConfig(), nil)
		Expect(err).NotTo(HaveOccurred())
		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics["momentum"]).To(BeNumerically("<", 1e-9))
	})

	It("poisons the store in literal self-pair mode and stops when validating", func() {
		cfg := quickConfig()
		cfg.SelfPair = "literal"
		cfg.ValidateState = true
		exp, err := New(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		result, err := exp.Run(context.Background())
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		Expect(result.Ticks).To(Equal(int64(1)))
	})

	It("rejects configurations it cannot run", func() {
		cfg := quickConfig()
		cfg.Clock = "sundial"
		_, err := New(cfg, nil)
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())

		cfg = quickConfig()
		cfg.SelfPair = "sometimes"
		_, err = New(cfg, nil)
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())

		cfg = quickConfig()
		cfg.RoomSize = 1e5
		_, err = New(cfg, nil)
		Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("more than")))

		cfg = quickConfig()
		cfg.Metrics = []string{"temperature"}
		_, err = New(cfg, nil)
		Expect(err).To(MatchError(ContainSubstring("unknown metric")))
	})

	It("saves what it ran", func() {
		exp, err := New(quickConfig(), nil)
		Expect(err).NotTo(HaveOccurred())
		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		st := storage.New(GinkgoT().TempDir())
		runID, err := exp.Save(st, result)
		Expect(err).NotTo(HaveOccurred())

		meta, err := st.Load(runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Seed).To(Equal(int64(1234)))
		Expect(meta.Particles).To(Equal(16))
		Expect(meta.Ticks).To(Equal(int64(25)))
		Expect(meta.SelfPair).To(Equal("skip"))

		final, err := st.LoadFinal(runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(final.Equal(exp.Store())).To(BeTrue())
	})
})

var _ = Describe("Registry", func() {
	It("knows both clocks", func() {
		Expect(NewRegistry().ListClocks()).To(Equal([]string{"fixed", "wall"}))
	})

	It("builds a fixed clock with the configured dt", func() {
		cfg := quickConfig()
		cfg.Dt = 0.125
		clock, err := NewRegistry().GetClock(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(clock.Delta()).To(Equal(0.125))
	})
})
