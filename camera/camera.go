// Package camera provides an orbit camera around the tree.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/config"
)

// referenceFPS is the frame rate the per-frame damping factor is tuned for.
const referenceFPS = 60

// Camera orbits a target on a sphere. Angles follow the Y-up convention:
// Polar is measured from +Y, Azimuth around Y starting at +Z.
type Camera struct {
	Target mgl32.Vec3

	Distance float32
	Polar    float32
	Azimuth  float32

	// Vertical field of view in degrees
	FovY float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Constraints
	MinDistance, MaxDistance float32
	MinPolar, MaxPolar       float32

	// AutoRotateSpeed of 1 is one revolution per minute
	AutoRotateSpeed float32
	// DampingFactor is the share of pending user rotation applied per 60 Hz frame
	DampingFactor float32

	pendingAzimuth float32
	pendingPolar   float32
}

// New creates a camera from configuration, placed at (0, height, distance)
// looking at the origin.
func New(cfg *config.Config) *Camera {
	cc := cfg.Camera
	c := &Camera{
		FovY:            float32(cc.FovY),
		ViewportW:       float32(cfg.Screen.Width),
		ViewportH:       float32(cfg.Screen.Height),
		MinDistance:     float32(cc.MinDistance),
		MaxDistance:     float32(cc.MaxDistance),
		MinPolar:        0,
		MaxPolar:        float32(cc.MaxPolar),
		AutoRotateSpeed: float32(cc.AutoRotateSpeed),
		DampingFactor:   float32(cc.DampingFactor),
	}
	c.SetPosition(mgl32.Vec3{0, float32(cc.Height), float32(cc.Distance)})
	return c
}

// SetPosition places the camera at p, keeping the current target.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	off := p.Sub(c.Target)
	c.Distance = off.Len()
	if c.Distance == 0 {
		c.Polar, c.Azimuth = math32.Pi/2, 0
		return
	}
	c.Polar = math32.Acos(clamp(off.Y()/c.Distance, -1, 1))
	c.Azimuth = math32.Atan2(off.X(), off.Z())
	c.clampOrbit()
}

// Position returns the camera position in world coordinates.
func (c *Camera) Position() mgl32.Vec3 {
	sinP := math32.Sin(c.Polar)
	return c.Target.Add(mgl32.Vec3{
		c.Distance * sinP * math32.Sin(c.Azimuth),
		c.Distance * math32.Cos(c.Polar),
		c.Distance * sinP * math32.Cos(c.Azimuth),
	})
}

// Rotate queues a user orbit by the given angles in radians. The rotation is
// applied gradually by Update.
func (c *Camera) Rotate(dAzimuth, dPolar float32) {
	c.pendingAzimuth += dAzimuth
	c.pendingPolar += dPolar
}

// ZoomBy multiplies the orbit distance by factor, clamped to limits.
func (c *Camera) ZoomBy(factor float32) {
	if !(factor > 0) {
		return
	}
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Update applies damped user rotation and, if autoRotate is set, the
// continuous orbit for dt seconds.
func (c *Camera) Update(dt float32, autoRotate bool) {
	if !(dt > 0) {
		return
	}
	if autoRotate {
		c.Azimuth -= 2 * math32.Pi / 60 * c.AutoRotateSpeed * dt
	}

	k := float32(1)
	if c.DampingFactor > 0 && c.DampingFactor < 1 {
		k = 1 - math32.Pow(1-c.DampingFactor, dt*referenceFPS)
	}
	c.Azimuth += c.pendingAzimuth * k
	c.Polar += c.pendingPolar * k
	c.pendingAzimuth *= 1 - k
	c.pendingPolar *= 1 - k

	c.Azimuth = wrapAngle(c.Azimuth)
	c.clampOrbit()
}

func (c *Camera) clampOrbit() {
	// Keep off the poles so the view basis stays defined
	const eps = 1e-4
	c.Polar = clamp(c.Polar, c.MinPolar+eps, c.MaxPolar)
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the current viewport.
func (c *Camera) Projection() mgl32.Mat4 {
	aspect := float32(1)
	if c.ViewportH > 0 {
		aspect = c.ViewportW / c.ViewportH
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, 0.1, 1000)
}

// Project converts a world position to screen pixels. depth is the distance
// along the view axis; ok is false for points at or behind the eye.
func (c *Camera) Project(p mgl32.Vec3) (sx, sy, depth float32, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return 0, 0, 0, false
	}
	ndcX := clip.X() / w
	ndcY := clip.Y() / w
	sx = (ndcX + 1) / 2 * c.ViewportW
	sy = (1 - ndcY) / 2 * c.ViewportH
	return sx, sy, w, true
}

// wrapAngle wraps an angle to [-Pi, Pi].
func wrapAngle(a float32) float32 {
	for a > math32.Pi {
		a -= 2 * math32.Pi
	}
	for a < -math32.Pi {
		a += 2 * math32.Pi
	}
	return a
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
