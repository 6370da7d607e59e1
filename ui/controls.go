package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Toggle button labels.
const (
	LabelScatter  = "UNLEASH CHAOS"
	LabelAssemble = "ASSEMBLE"
)

const (
	buttonWidth  = 260
	buttonHeight = 64
	glowInset    = 8
)

// ToggleLabel returns the button label: the action the button will take.
func ToggleLabel(assembled bool) string {
	if assembled {
		return LabelScatter
	}
	return LabelAssemble
}

// ButtonRect places the toggle button in the bottom-right corner.
func ButtonRect(screenW, screenH, margin int32) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(screenW - margin - buttonWidth),
		Y:      float32(screenH - 2*margin - buttonHeight),
		Width:  buttonWidth,
		Height: buttonHeight,
	}
}

// ToggleButton renders the state toggle and its tagline.
type ToggleButton struct {
	renderer *Renderer
}

// NewToggleButton creates a toggle button.
func NewToggleButton() *ToggleButton {
	return &ToggleButton{renderer: NewRenderer()}
}

// Draw renders the button and reports whether it was clicked this frame.
func (b *ToggleButton) Draw(assembled bool, screenW, screenH int32) bool {
	th := b.renderer.Theme
	rect := ButtonRect(screenW, screenH, th.Margin)

	if rl.CheckCollisionPointRec(rl.GetMousePosition(), rect) {
		glow := rl.Rectangle{
			X:      rect.X - glowInset,
			Y:      rect.Y - glowInset,
			Width:  rect.Width + 2*glowInset,
			Height: rect.Height + 2*glowInset,
		}
		rl.DrawRectangleRec(glow, rl.Fade(th.Gold, 0.2))
	}
	rl.DrawRectangleLinesEx(rect, 1, th.Muted)

	clicked := gui.Button(rect, ToggleLabel(assembled))

	right := int32(rect.X + rect.Width)
	y := int32(rect.Y+rect.Height) + th.Padding
	b.renderer.DrawTextRight("EST. 2024", right, y, th.FontSize, th.Muted)
	b.renderer.DrawTextRight("The Gold Standard", right, y+th.LineHeight, th.FontSize+2, rl.Fade(rl.White, 0.6))
	return clicked
}

// Margin returns the screen margin the button is laid out with.
func (b *ToggleButton) Margin() int32 {
	return b.renderer.Theme.Margin
}
