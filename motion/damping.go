package motion

import "github.com/chewxy/math32"

// DefaultRate is the smoothing rate used by the scene unless configured otherwise.
const DefaultRate float32 = 1.5

// DampFactor returns the fraction of the remaining distance covered in dt
// seconds at the given rate: 1 - exp(-rate*dt). Always in [0, 1).
func DampFactor(rate, dt float32) float32 {
	if debugAsserts && dt < 0 {
		panic("motion: negative dt")
	}
	// Also rejects NaN
	if !(dt > 0) || !(rate > 0) {
		return 0
	}
	return 1 - math32.Exp(-rate*dt)
}

// Damp moves current toward target with frame-rate independent exponential
// smoothing. It never overshoots for rate > 0 and dt >= 0.
func Damp(current, target, rate, dt float32) float32 {
	return current + (target-current)*DampFactor(rate, dt)
}
