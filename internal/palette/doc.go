// Package palette maps normalised temperatures onto colours.
//
// A [ColorMap] blends linearly between neighbouring stops; a [Gradient]
// snaps to the stop owning each slice of [0,1]. Named maps are available
// through [Get]: catppuccin, bars, viridis, inferno and heat.
package palette
