package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/motion"
)

// Star is the topper above the tree apex. It bobs and spins continuously and
// scales in only while the scene targets the tree.
type Star struct {
	outline  []mgl32.Vec2
	vertices []mgl32.Vec3

	apex      float32
	bobAmp    float32
	bobFreq   float32
	spinSpeed float32
	scaleRate float32
	showAt    float32
	intensity float32

	scale    float32
	position mgl32.Vec3
	spin     float32
}

// NewStar builds the star geometry. initialTarget sets the starting scale so
// a scene that opens assembled shows the star immediately.
func NewStar(cfg *config.Config, initialTarget float32) *Star {
	sc := cfg.Star
	outline := StarOutline(sc.Points, float32(sc.OuterRadius), float32(sc.InnerRadius))
	s := &Star{
		outline:   outline,
		vertices:  ExtrudeOutline(outline, float32(sc.Depth)),
		apex:      cfg.Derived.TreeHeight32/2 + float32(sc.HoverOffset),
		bobAmp:    float32(sc.BobAmplitude),
		bobFreq:   float32(sc.BobFrequency),
		spinSpeed: float32(sc.SpinSpeed),
		scaleRate: float32(sc.ScaleRate),
		showAt:    float32(sc.ShowThreshold),
		intensity: float32(sc.LightIntensity),
	}
	s.scale = s.targetScale(initialTarget)
	s.Update(initialTarget, 0, 0)
	return s
}

func (s *Star) targetScale(target float32) float32 {
	if target > s.showAt {
		return 1
	}
	return 0
}

// Update moves the star for scene time and damps its scale toward the
// visibility implied by target.
func (s *Star) Update(target, time, dt float32) {
	s.position = mgl32.Vec3{0, s.apex + math32.Sin(time*s.bobFreq)*s.bobAmp, 0}
	s.spin = time * s.spinSpeed
	s.scale = motion.Damp(s.scale, s.targetScale(target), s.scaleRate, dt)
}

// Scale returns the current uniform scale in [0, 1].
func (s *Star) Scale() float32 { return s.scale }

// Position returns the star center in group space.
func (s *Star) Position() mgl32.Vec3 { return s.position }

// Spin returns the rotation about the vertical axis in radians.
func (s *Star) Spin() float32 { return s.spin }

// LightIntensity returns the point light intensity, proportional to scale.
func (s *Star) LightIntensity() float32 {
	return s.scale * s.intensity
}

// Outline returns the 2D star polygon.
func (s *Star) Outline() []mgl32.Vec2 { return s.outline }

// Vertices returns the extruded mesh as a triangle list in local space.
func (s *Star) Vertices() []mgl32.Vec3 { return s.vertices }

// Transform returns T * Ry * S for the current frame.
func (s *Star) Transform() mgl32.Mat4 {
	m := mgl32.Translate3D(s.position[0], s.position[1], s.position[2])
	m = m.Mul4(mgl32.HomogRotate3DY(s.spin))
	return m.Mul4(mgl32.Scale3D(s.scale, s.scale, s.scale))
}

// StarOutline returns the 2*points vertices of a star polygon, alternating
// outer and inner radius, starting at the top and running clockwise.
func StarOutline(points int, outer, inner float32) []mgl32.Vec2 {
	if points < 2 {
		return nil
	}
	out := make([]mgl32.Vec2, 2*points)
	for i := range out {
		angle := float32(i) * math32.Pi / float32(points)
		r := outer
		if i%2 == 1 {
			r = inner
		}
		out[i] = mgl32.Vec2{math32.Sin(angle) * r, math32.Cos(angle) * r}
	}
	return out
}

// ExtrudeOutline turns a clockwise outline that is star-shaped about the
// origin into a closed prism centered on z = 0. Triangles wind
// counter-clockwise seen from outside.
func ExtrudeOutline(outline []mgl32.Vec2, depth float32) []mgl32.Vec3 {
	n := len(outline)
	if n < 3 {
		return nil
	}
	front, back := depth/2, -depth/2
	tris := make([]mgl32.Vec3, 0, n*12)
	for i := 0; i < n; i++ {
		a := outline[i]
		b := outline[(i+1)%n]
		af := mgl32.Vec3{a[0], a[1], front}
		bf := mgl32.Vec3{b[0], b[1], front}
		ab := mgl32.Vec3{a[0], a[1], back}
		bb := mgl32.Vec3{b[0], b[1], back}

		tris = append(tris,
			mgl32.Vec3{0, 0, front}, bf, af, // front cap
			mgl32.Vec3{0, 0, back}, ab, bb, // back cap
			ab, bf, bb, // side
			ab, af, bf,
		)
	}
	return tris
}
