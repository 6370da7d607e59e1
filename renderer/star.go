package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
)

// edgeScale enlarges the outline drawn around the star body.
const edgeScale = 1.02

var edgeColor = color.RGBA{R: 255, G: 255, B: 255, A: 77}

// StarRenderer draws the tree topper as emissive triangles with a faint
// outline. Faces turned from the key light fall back toward the glow color.
type StarRenderer struct {
	body mgl32.Vec3
	glow mgl32.Vec3
}

// NewStarRenderer creates a star renderer.
func NewStarRenderer(cfg *config.Config) *StarRenderer {
	return &StarRenderer{
		body: colorfulVec(cfg.Derived.GoldMetallic),
		glow: colorfulVec(cfg.Derived.Glow),
	}
}

// Draw renders s under the group transform. Must be called inside BeginMode3D.
func (r *StarRenderer) Draw(s *systems.Star, group mgl32.Mat4) {
	if s == nil || s.Scale() <= 0 {
		return
	}
	m := group.Mul4(s.Transform())
	verts := s.Vertices()
	light := mgl32.Vec3{0.4, 0.6, 0.7}.Normalize()

	for i := 0; i+2 < len(verts); i += 3 {
		a := m.Mul4x1(verts[i].Vec4(1)).Vec3()
		b := m.Mul4x1(verts[i+1].Vec4(1)).Vec3()
		c := m.Mul4x1(verts[i+2].Vec4(1)).Vec3()

		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		facing := n.Dot(light)*0.5 + 0.5
		col := r.glow.Add(r.body.Sub(r.glow).Mul(facing))
		rl.DrawTriangle3D(toVector3(a), toVector3(b), toVector3(c), toRGBA(col, 1))
	}

	outline := s.Outline()
	edge := m.Mul4(mgl32.Scale3D(edgeScale, edgeScale, edgeScale))
	for i := range outline {
		p := outline[i]
		q := outline[(i+1)%len(outline)]
		a := edge.Mul4x1(mgl32.Vec4{p[0], p[1], 0, 1}).Vec3()
		b := edge.Mul4x1(mgl32.Vec4{q[0], q[1], 0, 1}).Vec3()
		rl.DrawLine3D(toVector3(a), toVector3(b), edgeColor)
	}
}
