// Package erosion implements the cellular hydraulic-erosion engine.
//
// The engine advances a [terrain.Terrain] one tick at a time:
//
//   - [NewTerrain]: sloped plane carved with a sinusoidal riverbed
//   - [Stepper.Step]: rainfall, flow routing, transfers, erosion and
//     deposition, then smoothing
//   - [Smooth]: low-pass filter applied to the height field
//   - [RaiseGround]: single-cell height raise driven by pointer input
//
// # Example
//
//	p := erosion.DefaultParams()
//	t, _ := erosion.NewTerrain(p, erosion.NewSource(42))
//	s, _ := erosion.NewStepper(p)
//	for i := 0; i < 100; i++ {
//		t, _ = s.Step(t, 0.01)
//	}
//
// # Determinism
//
// Step is a pure function of its input snapshot, rain rate and [Params]. Flow
// is routed against the pre-tick snapshot and neighbors are always visited
// up, down, left, right, so equal head drops are resolved in that order.
//
// # Thread Safety
//
// A Stepper may be shared between goroutines; scratch buffers come from a pool.
// Serializing snapshot replacement is the caller's job (see package lab).
package erosion
