package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

const maxLights = 4

// PointLight is an omnidirectional light in world space.
type PointLight struct {
	Position  mgl32.Vec3
	Color     colorful.Color
	Intensity float32
}

// Radiance returns the light color scaled by intensity.
func (p PointLight) Radiance() mgl32.Vec3 {
	return colorfulVec(p.Color).Mul(p.Intensity)
}

// Lights is the fixed light rig passed to the ornament shader. The last
// slot belongs to the star and follows it every frame.
type Lights struct {
	Ambient     mgl32.Vec3
	Environment float32
	Points      [maxLights]PointLight
}

// starSlot is the index of the star light in Lights.Points.
const starSlot = maxLights - 1

var starLightColor = mustHex("#fff5cc")

// DefaultLights returns the warm key, cool fill and gold rim lights.
func DefaultLights() Lights {
	return Lights{
		Ambient:     mgl32.Vec3{0.1, 0.1, 0.1},
		Environment: 0.8,
		Points: [maxLights]PointLight{
			{Position: mgl32.Vec3{20, 30, 20}, Color: mustHex("#ffeebb"), Intensity: 2.5},
			{Position: mgl32.Vec3{-20, 10, -20}, Color: mustHex("#cceeff"), Intensity: 1},
			{Position: mgl32.Vec3{0, 40, -10}, Color: mustHex("#ffd700"), Intensity: 1.5},
			{Color: starLightColor},
		},
	}
}

// WithStar returns a copy of l with the star light at pos.
func (l Lights) WithStar(pos mgl32.Vec3, intensity float32) Lights {
	l.Points[starSlot] = PointLight{Position: pos, Color: starLightColor, Intensity: intensity}
	return l
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
