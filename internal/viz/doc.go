// Package viz provides terminal output for axle-load and traction results.
//
// Static charts are drawn with asciigraph:
//
//   - [PlotPairs]: front and rear pair loads across a CG sweep
//   - [PlotAxle]: one axle across a sweep
//   - [PlotTraction], [PlotPower]: per-gear traction and power balance
//
// [Explorer] is a Bubble Tea program for moving the CG interactively.
//
// # Key Bindings
//
//	h/l   - Move the CG by one step
//	H/L   - Move the CG by ten steps
//	+/-   - Double or halve the step
//	m     - Cycle load model
//	t     - Cycle color theme
//	r     - Reset to the configured CG
//	q     - Quit
package viz
