// Package field implements the particle network simulator.
//
// A [Simulator] owns a fixed set of [Particle] values and advances them once
// per frame-clock tick:
//
//   - integrate: Pos += Vel, no time-step scaling
//   - reflect: negate the velocity component of an axis whose bound was crossed
//   - attract: pull particles inside the pointer radius toward the pointer
//   - render: circles every RenderEvery ticks, links every LinkEvery frames
//
// The simulator talks to three collaborators: a [Clock] that invokes the tick
// handler once per display refresh, a [Pointer] that reports the latest input
// position, and a [Surface] that draws.
//
// # Example
//
//	clk := clock.NewDriven()
//	sim := field.New(surface.NewRecorder(), clk, pointer.NewTracker(), field.DefaultConfig())
//	if err := sim.Start(800, 600, 50); err != nil {
//		return err
//	}
//	defer sim.Stop()
//	clk.Advance()
//
// # Thread Safety
//
// Tick, resize, draw and snapshot calls are serialized by the simulator, so a
// clock may fire from its own goroutine while input handlers run elsewhere.
package field
