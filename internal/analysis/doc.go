// Package analysis characterises how a field approaches equilibrium.
//
// The stepper's residual (the largest per-tick change) decays roughly
// geometrically once the transient has passed:
//
//	r(n) ≈ r0 * exp(-rate * n)
//
// [FitDecay] estimates rate from a residual trace and [Decay.TicksTo]
// extrapolates how long a run needs to reach a tolerance:
//
//	trace := analysis.NewResidualTrace(stepper)
//	s.AddObserver(trace)
//	// ... run ...
//	d, ok := analysis.FitDecay(trace.Ticks, trace.Residuals)
package analysis
