// Package ui draws the overlay on top of the 3D scene: the title block, the
// state toggle button and an optional stats panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	Gold       rl.Color
	DeepGreen  rl.Color
	Muted      rl.Color
	PanelBg    rl.Color
	PanelEdge  rl.Color
	LabelColor rl.Color
	ValueColor rl.Color
	BarBg      rl.Color
	BarFill    rl.Color

	Margin         int32
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	TitleFontSize  int32
	BannerFontSize int32
	ButtonFontSize int32
}

// DefaultTheme returns gold on deep green.
func DefaultTheme() Theme {
	gold := rl.Color{R: 255, G: 215, B: 0, A: 255}
	return Theme{
		Gold:       gold,
		DeepGreen:  rl.Color{R: 0, G: 26, B: 10, A: 255},
		Muted:      rl.Color{R: 255, G: 215, B: 0, A: 153},
		PanelBg:    rl.Color{R: 0, G: 26, B: 10, A: 204},
		PanelEdge:  rl.Color{R: 255, G: 215, B: 0, A: 153},
		LabelColor: rl.LightGray,
		ValueColor: rl.White,
		BarBg:      rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:    gold,

		Margin:         48,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		TitleFontSize:  64,
		BannerFontSize: 16,
		ButtonFontSize: 20,
	}
}
