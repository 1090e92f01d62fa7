// Package viz provides a terminal UI for watching a heat field evolve.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulator with trend charts
//   - [Canvas]: half-block colour canvas, two tiles per terminal cell
//   - [App]: scene picker that launches a [Model]
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial field
//	+/-   - Raise/lower conductivity
//	T     - Cycle themes and colour maps
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// Recordings are painted into an in-memory image and written to
// heatgrid.gif in the current directory when recording stops.
package viz
