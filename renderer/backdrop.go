package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/config"
)

// BackdropRenderer clears to the background color and draws the distant
// star shell. Stars sit outside the tree group and do not spin with it.
type BackdropRenderer struct {
	background color.RGBA
	radius     float32
	depth      float32
}

// NewBackdropRenderer creates a backdrop renderer.
func NewBackdropRenderer(cfg *config.Config) *BackdropRenderer {
	return &BackdropRenderer{
		background: colorfulRGBA(cfg.Derived.Background),
		radius:     float32(cfg.Backdrop.Radius),
		depth:      float32(cfg.Backdrop.Depth),
	}
}

// Clear fills the frame with the background color.
func (b *BackdropRenderer) Clear() {
	rl.ClearBackground(b.background)
}

// Draw renders the stars. Must be called inside BeginMode3D.
func (b *BackdropRenderer) Draw(stars []mgl32.Vec3) {
	for _, p := range stars {
		rl.DrawPoint3D(toVector3(p), starColor(p.Len(), b.radius, b.depth))
	}
}

// starColor fades stars from full white on the inner shell to a dim grey
// on the outer one.
func starColor(dist, radius, depth float32) color.RGBA {
	fade := float32(1)
	if depth > 0 {
		fade = 1 - 0.7*(dist-radius)/depth
	}
	v := channel(fade)
	return color.RGBA{R: v, G: v, B: v, A: 255}
}
