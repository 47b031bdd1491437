// Package physics provides the pairwise force step for particle stores.
//
// [Gravity] implements [dynamo.Stepper]: an O(N^2) force pass over every
// ordered pair against a snapshot of the positions, followed by a drift of
// every particle. The force pass can be split across goroutines by index
// range; each worker sums into its own buffer in the same order as the
// serial pass, so both paths give bit-identical results.
//
// The helpers in energy.go ([KineticEnergy], [PotentialEnergy],
// [Momentum], [RMSRadius], [MaxSpeed]) back the run metrics.
//
//	g := physics.NewGravity()
//	g.Workers = 8
//	g.Step(store, 0.01)
package physics
