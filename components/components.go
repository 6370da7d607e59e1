// Package components defines ECS components for the ornament field.
package components

import "github.com/go-gl/mathgl/mgl32"

// OrnamentKind selects the mesh an ornament is drawn with.
type OrnamentKind uint8

const (
	KindBall OrnamentKind = iota // Sphere bauble
	KindBox                      // Gift box, owns a ribbon sub-element
)

// Anchor holds the two immutable rest positions of an element.
type Anchor struct {
	Tree    mgl32.Vec3
	Scatter mgl32.Vec3
}

// Lerp returns the position at eased progress e (0 = scatter, 1 = tree).
func (a *Anchor) Lerp(e float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a.Scatter[0] + (a.Tree[0]-a.Scatter[0])*e,
		a.Scatter[1] + (a.Tree[1]-a.Scatter[1])*e,
		a.Scatter[2] + (a.Tree[2]-a.Scatter[2])*e,
	}
}

// Ornament holds per-instance animation attributes.
type Ornament struct {
	ID       uint32 // Stable index, also used as phase seed
	Kind     OrnamentKind
	Slot     int32   // Index into the kind's instance buffer
	Seed     float32 // Uniform in [0,1)
	Scale    float32
	RotSpeed float32    // rad/s, signed
	Rotation mgl32.Vec3 // Initial Euler rotation (XYZ)
}

// Tint is the linear RGB color of an instance.
type Tint struct {
	R, G, B float32
}

// Vec returns the tint as a vector for instance color buffers.
func (t Tint) Vec() mgl32.Vec3 {
	return mgl32.Vec3{t.R, t.G, t.B}
}
