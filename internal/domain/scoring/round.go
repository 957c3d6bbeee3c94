package scoring

import "math"

// epsilon absorbs binary error so values meant to be exactly .5 round up.
const epsilon = 1e-9

// Round rounds half up: 62.5 -> 63, -0.5 -> 0.
func Round(x float64) int {
	return int(math.Floor(x + 0.5 + epsilon))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func capAt(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}
