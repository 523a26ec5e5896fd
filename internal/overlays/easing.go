package overlays

import "math"

// EaseOutBack overshoots slightly before settling at 1.
func EaseOutBack(t float64) float64 {
	return 1 + 2.70158*math.Pow(t-1, 3) + 1.70158*math.Pow(t-1, 2)
}

// EaseOutElastic springs past 1 and oscillates into place.
func EaseOutElastic(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*(2*math.Pi)/3) + 1
}

// EaseInOutSine is a symmetric sine ease.
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// Progress returns elapsed/window clamped to [0, 1].
func Progress(elapsed, window float64) float64 {
	if window <= 0 {
		return 1
	}
	p := elapsed / window
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
