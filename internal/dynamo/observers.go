package dynamo

import (
	"fmt"
	"io"

	"github.com/san-kum/nbodysim/internal/particles"
)

// DeltaPrinter writes each tick's dt on its own line.
type DeltaPrinter struct {
	W io.Writer
}

func (p DeltaPrinter) OnStep(tick int64, dt float64, s *particles.Store) {
	fmt.Fprintln(p.W, dt)
}

func (p DeltaPrinter) OnTerminate(ticks int64) {}

// ObserverFunc adapts a plain function to an Observer that ignores termination.
type ObserverFunc func(tick int64, dt float64, s *particles.Store)

func (f ObserverFunc) OnStep(tick int64, dt float64, s *particles.Store) { f(tick, dt, s) }
func (f ObserverFunc) OnTerminate(ticks int64)                          {}
