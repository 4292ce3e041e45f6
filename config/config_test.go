package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"depth", cfg.World.Depth, 100},
		{"width", cfg.World.Width, 300},
		{"prey probability", cfg.Population.PreyProbability, 0.3},
		{"mid probability", cfg.Population.MidProbability, 0.09},
		{"apex probability", cfg.Population.ApexProbability, 0.02},
		{"steps", cfg.Simulation.Steps, 4000},
		{"min species", cfg.Simulation.MinSpecies, 2},
		{"cells", cfg.Derived.Cells, 30000},
		{"delay", cfg.Derived.Delay, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	data := []byte("world:\n  depth: 20\n  width: 40\nsimulation:\n  seed: 7\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Depth != 20 || cfg.World.Width != 40 {
		t.Errorf("world = %dx%d, want 20x40", cfg.World.Depth, cfg.World.Width)
	}
	if cfg.Simulation.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Simulation.Seed)
	}
	// Untouched keys keep their defaults.
	if cfg.Population.PreyProbability != 0.3 {
		t.Errorf("prey probability = %v, want default 0.3", cfg.Population.PreyProbability)
	}
}

func TestInvalidDimensionsFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("world:\n  depth: 0\n  width: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Depth != DefaultDepth || cfg.World.Width != DefaultWidth {
		t.Errorf("world = %dx%d, want defaults", cfg.World.Depth, cfg.World.Width)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.World.Depth = 33

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.World.Depth != 33 {
		t.Errorf("depth = %d, want 33", back.World.Depth)
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg().World.Width != 300 {
		t.Errorf("Cfg().World.Width = %d, want 300", Cfg().World.Width)
	}
}
