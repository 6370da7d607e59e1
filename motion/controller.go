package motion

// Controller owns the damped progress of one field. The value is written once
// per frame by Advance; every element update in that frame reads the result.
type Controller struct {
	current float32
	target  float32
	rate    float32
}

// NewController creates a controller starting at initial progress.
func NewController(rate, initial float32) *Controller {
	if !(rate > 0) {
		rate = DefaultRate
	}
	initial = Clamp01(initial)
	return &Controller{
		current: initial,
		target:  initial,
		rate:    rate,
	}
}

// Advance damps the current progress toward target over dt seconds and
// returns the new value.
func (c *Controller) Advance(target, dt float32) float32 {
	c.target = Clamp01(target)
	c.current = Damp(c.current, c.target, c.rate, dt)
	return c.current
}

// Progress returns the damped progress in [0, 1].
func (c *Controller) Progress() float32 {
	return c.current
}

// Eased returns the eased progress used for spatial interpolation.
func (c *Controller) Eased() float32 {
	return EaseOutQuart(c.current)
}

// Target returns the last target passed to Advance.
func (c *Controller) Target() float32 {
	return c.target
}

// Rate returns the smoothing rate.
func (c *Controller) Rate() float32 {
	return c.rate
}

// Reset jumps to progress v without damping.
func (c *Controller) Reset(v float32) {
	c.current = Clamp01(v)
	c.target = c.current
}
