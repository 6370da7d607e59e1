// Sprite debug tool - bakes the foliage point sprites to PNG files for inspection.
//
// Usage: go run ./cmd/spritedebug -out sprites -size 128
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/renderer"
	"github.com/pthm-cable/evergreen/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outDir := flag.String("out", ".", "Output directory")
	size := flag.Int("size", renderer.SpriteSize, "Sprite edge length in pixels")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	pal := systems.NewFoliagePalette(cfg)
	for _, sprite := range []struct {
		name    string
		sparkle bool
	}{
		{"foliage.png", false},
		{"foliage_sparkle.png", true},
	} {
		path := filepath.Join(*outDir, sprite.name)
		px := renderer.FoliageSpritePixels(*size, sprite.sparkle, pal)
		if err := renderer.ExportSprite(path, px, *size); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sprite written to: %s (%dx%d)\n", path, *size, *size)
	}
}
