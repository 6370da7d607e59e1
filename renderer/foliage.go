package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
)

// FoliageRenderer draws the particle cloud as camera-facing billboards with
// additive blending. The per-fragment model is baked into two sprites, one
// for regular particles and one for the sparkle subset.
type FoliageRenderer struct {
	palette    systems.FoliagePalette
	pointScale float32

	regular rl.Texture2D
	sparkle rl.Texture2D

	initialized bool
}

// NewFoliageRenderer creates a foliage renderer.
func NewFoliageRenderer(cfg *config.Config) *FoliageRenderer {
	return &FoliageRenderer{
		palette:    systems.NewFoliagePalette(cfg),
		pointScale: float32(cfg.Foliage.PointScale),
	}
}

// Init bakes the sprites (must be called after raylib window is created).
func (r *FoliageRenderer) Init() {
	if r.initialized {
		return
	}
	r.regular = bakeSprite(FoliageSpritePixels(SpriteSize, false, r.palette), SpriteSize)
	r.sparkle = bakeSprite(FoliageSpritePixels(SpriteSize, true, r.palette), SpriteSize)
	r.initialized = true
}

// Draw renders every particle of f, transformed by group. Must be called
// inside BeginMode3D.
func (r *FoliageRenderer) Draw(f *systems.FoliageField, group mgl32.Mat4, cam3d rl.Camera3D, cam *camera.Camera) {
	if !r.initialized {
		r.Init()
	}
	n := f.Count()
	if n == 0 {
		return
	}

	pos := f.Positions()
	sizes := f.PointSizes()
	alphas := f.Alphas()
	fovY := mgl32.DegToRad(cam.FovY)

	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DisableDepthMask()
	for i := 0; i < n; i++ {
		local := mgl32.Vec4{pos[3*i], pos[3*i+1], pos[3*i+2], 1}
		world := group.Mul4x1(local).Vec3()
		size := systems.PointWorldSize(sizes[i], r.pointScale, cam.ViewportH, fovY)

		tex := r.regular
		if f.Sparkle(i) {
			tex = r.sparkle
		}
		tint := color.RGBA{R: 255, G: 255, B: 255, A: channel(alphas[i])}
		rl.DrawBillboard(cam3d, tex, toVector3(world), size, tint)
	}
	// Flush before restoring depth writes so the batch draws without them
	rl.DrawRenderBatchActive()
	rl.EnableDepthMask()
	rl.EndBlendMode()
}

// Unload frees resources.
func (r *FoliageRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.regular)
		rl.UnloadTexture(r.sparkle)
		r.initialized = false
	}
}
