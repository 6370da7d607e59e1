// Package motion holds the easing and damping model shared by every animated
// field. The particle field and the instanced ornaments both read progress
// through these functions so the two representations never drift apart.
package motion

// Clamp01 restricts v to [0, 1]. NaN maps to 0.
func Clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EaseOutQuart reshapes progress with 1 - (1-p)^4: slow start, fast finish
// when driving scatter -> tree interpolation.
// Input outside [0, 1] is clamped (and panics in debug builds).
func EaseOutQuart(p float32) float32 {
	if debugAsserts && (p < 0 || p > 1 || p != p) {
		panic("motion: EaseOutQuart input outside [0,1]")
	}
	q := 1 - Clamp01(p)
	return 1 - q*q*q*q
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
