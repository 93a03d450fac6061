package geometry

import "math"

// Point is a position in surface-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Near reports whether a and b are strictly closer than threshold.
func Near(a, b Point, threshold float64) bool {
	return Dist(a, b) < threshold
}

// NearAny reports whether probe is strictly within threshold of any
// point in the sequence.
func NearAny(probe Point, points []Point, threshold float64) bool {
	for _, p := range points {
		if Near(probe, p, threshold) {
			return true
		}
	}
	return false
}
