package geo

import (
	"math"

	"strollpath/internal/types"
)

// MaxPathPoints bounds the number of coordinates persisted per route.
const MaxPathPoints = 500

// Simplify resamples path down to at most maxPoints coordinates, keeping the
// first and last point exactly. Interior slots take the nearest input index
// on an even grid; this is not curve-aware.
//
// A path that already fits is returned unchanged. maxPoints <= 0 selects MaxPathPoints.
func Simplify(path []types.Coordinate, maxPoints int) []types.Coordinate {
	if maxPoints <= 0 {
		maxPoints = MaxPathPoints
	}
	n := len(path)
	if n <= maxPoints {
		return path
	}
	if maxPoints < 2 {
		return []types.Coordinate{path[0], path[n-1]}
	}

	out := make([]types.Coordinate, 0, maxPoints)
	out = append(out, path[0])
	interior := maxPoints - 2
	step := float64(n-2) / float64(interior)
	for i := 1; i <= interior; i++ {
		idx := int(math.Round(float64(i) * step))
		out = append(out, path[idx])
	}
	out = append(out, path[n-1])
	return out
}
