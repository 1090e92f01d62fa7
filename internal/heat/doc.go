// Package heat provides the tile field and explicit-Euler diffusion stepper.
//
// A [Field] is a fixed rectangle of [Tile] values. Conductor tiles carry a
// temperature that the [Stepper] integrates forward one tick at a time;
// Insulator tiles neither hold nor exchange heat.
//
//   - [Build]: construct a field from layout rows ('#' insulator, hex digit conductor)
//   - [Field]: row-major tile storage plus the stepper's scratch buffer
//   - [Stepper]: 4-neighbour mean-difference Laplacian, Jacobi sweep
//
// # Example
//
//	f, err := heat.Build([]string{
//	    "#####",
//	    "#f00#",
//	    "#####",
//	})
//	st := heat.NewStepper(1.0, 0.1)
//	st.Advance(f, 100)
//
// # Thread Safety
//
// A Field is not safe for concurrent use. Render a frame, then step; never
// both at once.
package heat
