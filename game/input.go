package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/ui"
)

const (
	orbitSensitivity = 2 * math.Pi
	zoomStep         = 0.1
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyEnter) {
		g.toggle()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.showStats = !g.showStats
	}

	g.handleCameraInput()
}

// handleResize keeps the camera aspect in step with the window.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
	g.camera.Resize(g.screenWidth, g.screenHeight)
}

// handleCameraInput orbits on left drag and zooms on the wheel. Drags that
// start over the toggle button are left to the button.
func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		btn := ui.ButtonRect(int32(g.screenWidth), int32(g.screenHeight), g.button.Margin())
		if !rl.CheckCollisionPointRec(rl.GetMousePosition(), btn) {
			d := rl.GetMouseDelta()
			h := g.screenHeight
			if h > 0 {
				g.camera.Rotate(-orbitSensitivity*d.X/h, -orbitSensitivity*d.Y/h)
			}
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 - wheel*zoomStep)
	}
}
