// Package renderer draws the scene with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/motion"
)

// toMatrix converts a column-major mgl32 matrix to raylib's layout.
// Both store columns contiguously, so element i maps to Mi.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// toRGBA converts a linear [0,1] color with alpha to 8-bit RGBA, clamping
// out-of-range channels.
func toRGBA(c mgl32.Vec3, alpha float32) color.RGBA {
	return color.RGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: channel(alpha),
	}
}

func channel(v float32) uint8 {
	return uint8(motion.Clamp01(v)*255 + 0.5)
}

// colorfulRGBA converts a parsed palette color to an opaque raylib color.
func colorfulRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func colorfulVec(c colorful.Color) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
}

// Camera3D builds the raylib camera for an orbit camera.
func Camera3D(cam *camera.Camera) rl.Camera3D {
	return rl.NewCamera3D(
		toVector3(cam.Position()),
		toVector3(cam.Target),
		rl.Vector3{X: 0, Y: 1, Z: 0},
		cam.FovY,
		rl.CameraPerspective,
	)
}
