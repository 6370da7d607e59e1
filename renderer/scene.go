package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
)

// SceneRenderer draws a systems.Scene: backdrop, ornaments, star, then the
// additive foliage last so it blends over the opaque geometry.
type SceneRenderer struct {
	backdrop  *BackdropRenderer
	ornaments *OrnamentRenderer
	star      *StarRenderer
	foliage   *FoliageRenderer
	lights    Lights

	initialized bool
}

// NewSceneRenderer creates the renderers for every scene layer.
func NewSceneRenderer(cfg *config.Config) *SceneRenderer {
	return &SceneRenderer{
		backdrop:  NewBackdropRenderer(cfg),
		ornaments: NewOrnamentRenderer(),
		star:      NewStarRenderer(cfg),
		foliage:   NewFoliageRenderer(cfg),
		lights:    DefaultLights(),
	}
}

// Init loads GPU resources (must be called after raylib window is created).
func (r *SceneRenderer) Init() error {
	if r.initialized {
		return nil
	}
	if err := r.ornaments.Init(); err != nil {
		return fmt.Errorf("ornament renderer: %w", err)
	}
	r.foliage.Init()
	r.initialized = true
	return nil
}

// Uploader receives the flushed ornament instance buffers.
func (r *SceneRenderer) Uploader() systems.Uploader {
	return r.ornaments
}

// Draw renders the scene from cam. Call between BeginDrawing and EndDrawing,
// after the frame's instance buffers were flushed to Uploader.
func (r *SceneRenderer) Draw(scene *systems.Scene, cam *camera.Camera) {
	cam3d := Camera3D(cam)
	group := scene.GroupTransform()

	lights := r.lights
	if star := scene.Star(); star != nil {
		pos := group.Mul4x1(star.Position().Vec4(1)).Vec3()
		lights = lights.WithStar(pos, star.LightIntensity())
	}

	r.backdrop.Clear()
	rl.BeginMode3D(cam3d)
	r.backdrop.Draw(scene.Backdrop())
	r.ornaments.Draw(group, lights, cam.Position())
	r.star.Draw(scene.Star(), group)
	r.foliage.Draw(scene.Foliage(), group, cam3d, cam)
	rl.EndMode3D()
}

// Unload frees resources.
func (r *SceneRenderer) Unload() {
	r.ornaments.Unload()
	r.foliage.Unload()
	r.initialized = false
}
