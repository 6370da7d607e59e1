package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Title block lines.
const (
	TitleFirst  = "GRAND"
	TitleSecond = "LUXURY"
	Banner      = "INTERACTIVE TREE"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	State            string
	Target           float32
	FoliageProgress  float32
	OrnamentProgress float32
	StarScale        float32
	Time             float32
	Toggles          int
	FPS              int32
	ShowStats        bool
	ScreenWidth      int32
	ScreenHeight     int32
}

// HUD renders the title block and the optional stats panel.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	th := h.renderer.Theme
	x, y := th.Margin, th.Margin

	rl.DrawText(TitleFirst, x, y, th.TitleFontSize, th.Gold)
	y += th.TitleFontSize
	rl.DrawText(TitleSecond, x, y, th.TitleFontSize, th.Gold)
	y += th.TitleFontSize + th.Padding

	bw := rl.MeasureText(Banner, th.BannerFontSize) + 2*th.Padding
	rl.DrawRectangle(x, y, bw, th.BannerFontSize+8, th.Gold)
	rl.DrawText(Banner, x+th.Padding, y+4, th.BannerFontSize, th.DeepGreen)
	y += th.BannerFontSize + 8 + 2*th.Padding

	if data.ShowStats {
		h.drawStats(x, y, data)
	}
}

func (h *HUD) drawStats(x, y int32, data HUDData) {
	r := h.renderer
	th := r.Theme
	const width = 300
	height := 7*th.LineHeight + 2*th.Padding + 8

	r.DrawPanel(x, y, width, height)
	x += th.Padding
	y += th.Padding

	y = r.DrawLabelValue(x, y, "State", data.State)
	y = r.DrawLabelValue(x, y, "Time", fmt.Sprintf("%.1fs  toggles %d", data.Time, data.Toggles))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawBar(x, y, "Target", data.Target, width-2*th.Padding)
	y = r.DrawBar(x, y, "Foliage", data.FoliageProgress, width-2*th.Padding)
	y = r.DrawBar(x, y, "Ornaments", data.OrnamentProgress, width-2*th.Padding)
	r.DrawBar(x, y, "Star", data.StarScale, width-2*th.Padding)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
