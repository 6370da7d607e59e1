package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/systems"
	"github.com/pthm-cable/evergreen/telemetry"
	"github.com/pthm-cable/evergreen/ui"
)

const controlsLegend = "[SPACE] Toggle  [Drag] Orbit  [Wheel] Zoom  [S] Stats  [F11] Fullscreen"

// Draw renders the current frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	g.perfCollector.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	g.sceneRenderer.Draw(g.scene, g.camera)

	w, h := int32(g.screenWidth), int32(g.screenHeight)
	g.hud.Draw(g.hudData(w, h))
	if g.button.Draw(g.scene.State() == systems.TreeShape, w, h) {
		g.toggle()
	}
	g.hud.DrawControls(h, controlsLegend)
	rl.EndDrawing()

	g.perfCollector.EndTick()
}

func (g *Game) hudData(w, h int32) ui.HUDData {
	var starScale float32
	if s := g.scene.Star(); s != nil {
		starScale = s.Scale()
	}
	return ui.HUDData{
		State:            g.scene.State().String(),
		Target:           g.scene.Target(),
		FoliageProgress:  g.scene.Foliage().Controller().Progress(),
		OrnamentProgress: g.scene.Ornaments().Controller().Progress(),
		StarScale:        starScale,
		Time:             g.scene.Time(),
		Toggles:          g.scene.Toggles(),
		FPS:              rl.GetFPS(),
		ShowStats:        g.showStats,
		ScreenWidth:      w,
		ScreenHeight:     h,
	}
}
