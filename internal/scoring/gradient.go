package scoring

// Breakpoint is one (input, score) control point of a piecewise-linear
// gradient curve. Breakpoint lists must be sorted ascending by X.
type Breakpoint struct {
	X float64
	Y float64
}

// GradientScore maps v through a piecewise-linear curve defined by
// breakpoints. Values at or below the first X clamp to the first Y,
// values at or above the last X clamp to the last Y, anything between
// interpolates linearly inside the bracketing pair. An empty
// breakpoint list scores 0.
func GradientScore(v float64, points []Breakpoint) float64 {
	if len(points) == 0 {
		return 0
	}

	if v <= points[0].X {
		return points[0].Y
	}
	if v >= points[len(points)-1].X {
		return points[len(points)-1].Y
	}

	for i := 1; i < len(points); i++ {
		p0, p1 := points[i-1], points[i]
		if v <= p1.X {
			return p0.Y + (v-p0.X)/(p1.X-p0.X)*(p1.Y-p0.Y)
		}
	}

	// Unreachable with a sorted breakpoint list
	return points[len(points)-1].Y
}
