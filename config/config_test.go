package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Foliage.Count != 15000 {
		t.Errorf("foliage.count = %d, want 15000", cfg.Foliage.Count)
	}
	if cfg.Ornaments.Count != 1200 {
		t.Errorf("ornaments.count = %d, want 1200", cfg.Ornaments.Count)
	}
	if cfg.Derived.TreeHeight32 != 18 {
		t.Errorf("derived tree height = %v, want 18", cfg.Derived.TreeHeight32)
	}
	if cfg.Motion.DampingRate != 1.5 {
		t.Errorf("damping rate = %v, want 1.5", cfg.Motion.DampingRate)
	}
	if got := len(cfg.Derived.OrnamentPalette); got != 7 {
		t.Errorf("ornament palette size = %d, want 7", got)
	}
	if cfg.Derived.GoldMetallic.Hex() != "#ffd700" {
		t.Errorf("gold metallic = %s, want #ffd700", cfg.Derived.GoldMetallic.Hex())
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	overlay := "foliage:\n  count: 500\nscatter:\n  radius: 20\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay: %v", err)
	}
	if cfg.Foliage.Count != 500 {
		t.Errorf("foliage.count = %d, want 500", cfg.Foliage.Count)
	}
	if cfg.Derived.ScatterRadius32 != 20 {
		t.Errorf("scatter radius = %v, want 20", cfg.Derived.ScatterRadius32)
	}
	// Untouched keys keep their defaults
	if cfg.Tree.Radius != 6.5 {
		t.Errorf("tree.radius = %v, want default 6.5", cfg.Tree.Radius)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		want    string
	}{
		{"negative count", "foliage:\n  count: -1\n", "foliage.count"},
		{"zero height", "tree:\n  height: 0\n", "tree.height"},
		{"bad state", "scene:\n  initial_state: sideways\n", "initial_state"},
		{"bad color", "palette:\n  bronze: \"#zz\"\n", "bronze"},
		{"bad ornament entry", "palette:\n  ornaments: [plaid]\n", "plaid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Foliage.Count = 42

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if loaded.Foliage.Count != 42 {
		t.Errorf("foliage.count = %d, want 42", loaded.Foliage.Count)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg before Init")
		}
	}()
	Cfg()
}

func TestRefresh(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	cfg.Tree.Height = 24
	if err := cfg.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if cfg.Derived.TreeHeight32 != 24 {
		t.Errorf("derived tree height = %v, want 24", cfg.Derived.TreeHeight32)
	}

	cfg.Tree.Radius = 0
	if err := cfg.Refresh(); err == nil {
		t.Error("expected error for zero tree radius")
	}
}
