package renderer

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/systems"
)

// SpriteSize is the edge length in pixels of the baked foliage sprites.
const SpriteSize = 64

// FoliageSpritePixels evaluates the foliage fragment model over a size x size
// grid in row-major order. Discarded fragments stay fully transparent.
func FoliageSpritePixels(size int, sparkle bool, pal systems.FoliagePalette) []color.RGBA {
	if size <= 0 {
		return nil
	}
	px := make([]color.RGBA, size*size)
	inv := 1 / float32(size)
	for y := 0; y < size; y++ {
		v := (float32(y)+0.5)*inv - 0.5
		for x := 0; x < size; x++ {
			u := (float32(x)+0.5)*inv - 0.5
			c, strength, ok := systems.FoliageFragment(math32.Sqrt(u*u+v*v), sparkle, pal)
			if !ok {
				continue
			}
			px[y*size+x] = toRGBA(c, strength)
		}
	}
	return px
}

// spriteImage copies pixels into a new raylib image. The caller unloads it.
func spriteImage(px []color.RGBA, size int) *rl.Image {
	img := rl.GenImageColor(size, size, rl.Blank)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			rl.ImageDrawPixel(img, int32(x), int32(y), px[y*size+x])
		}
	}
	return img
}

// bakeSprite uploads pixels as a bilinear-filtered texture.
func bakeSprite(px []color.RGBA, size int) rl.Texture2D {
	img := spriteImage(px, size)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return tex
}

// ExportSprite writes pixels to an image file; the format follows the extension.
func ExportSprite(path string, px []color.RGBA, size int) error {
	if len(px) != size*size {
		return fmt.Errorf("sprite has %d pixels, want %d", len(px), size*size)
	}
	img := spriteImage(px, size)
	defer rl.UnloadImage(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting sprite to %s failed", path)
	}
	return nil
}
