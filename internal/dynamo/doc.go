// Package dynamo provides the tick-driven run loop for particle simulations.
//
// The package defines the pieces a simulation run is assembled from:
//
//   - [Stepper]: advances a [particles.Store] by one tick of length dt
//   - [Clock]: supplies dt for each tick ([FixedClock] or [WallClock])
//   - [Observer]: receives per-tick and termination notifications
//   - [Metric]: reduces the particle state to a scalar
//   - [Loop]: the bounded counter state machine that drives it all
//
// # Example
//
//	store := particles.Populate(room, rng)
//	loop := dynamo.NewLoop(physics.NewGravity(), store, dynamo.NewFixedClock(0.01), cfg)
//	result, err := loop.Run(ctx)
//
// # Termination
//
// A loop starts in [Running]. Each call to [Loop.Tick] executes one step
// while the counter is below MaxTicks. The first call after the budget is
// spent moves the loop to [Terminated], closes [Loop.Done] and notifies
// observers; that happens exactly once and no further steps run.
//
// # Thread Safety
//
// A Loop and the store it owns are NOT thread-safe. Steppers may fan out
// internally (see [ParallelFor]) but must finish before Step returns.
package dynamo
