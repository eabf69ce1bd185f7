package transport

import "math"

func clampLevel(level float64) float64 {
	return min(max(level, 0), 1)
}

// levelToVolume maps a 0..1 level onto beep's base-2 volume scale:
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
