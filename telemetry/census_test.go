package telemetry

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/systems"
)

func newEnv(depth, width int, rec systems.Recorder) *systems.Env {
	return systems.NewEnv(systems.NewField(depth, width), rand.New(rand.NewSource(1)), rec)
}

func at(row, col int) components.Location {
	return components.Location{Row: row, Col: col}
}

func TestCountField(t *testing.T) {
	env := newEnv(2, 5, nil)
	env.Spawn(components.KindPrey, at(0, 0), false, nil)
	env.Spawn(components.KindPrey, at(0, 1), false, nil)
	env.Spawn(components.KindPrey, at(1, 4), false, nil)
	env.Spawn(components.KindApexPredator, at(1, 0), false, nil)
	eaten := env.Spawn(components.KindMidPredator, at(1, 1), false, nil)
	eaten.SetDead(env, systems.CauseEaten)

	c := CountField(env.Field)
	if c.Count(components.KindPrey) != 3 {
		t.Errorf("prey = %d, want 3", c.Count(components.KindPrey))
	}
	if c.Count(components.KindMidPredator) != 0 {
		t.Errorf("dead mid-predator should not be counted, got %d", c.Count(components.KindMidPredator))
	}
	if c.Count(components.KindApexPredator) != 1 {
		t.Errorf("apex = %d, want 1", c.Count(components.KindApexPredator))
	}
	if c.Total() != 4 {
		t.Errorf("total = %d, want 4", c.Total())
	}
	if c.Occupancy() != 0.4 {
		t.Errorf("occupancy = %v, want 0.4", c.Occupancy())
	}
	if c.SpeciesPresent() != 2 {
		t.Errorf("species present = %d, want 2", c.SpeciesPresent())
	}
}

func TestViability(t *testing.T) {
	tests := []struct {
		name       string
		kinds      []components.Kind
		minSpecies int
		want       bool
	}{
		{"empty field", nil, 2, false},
		{"prey only", []components.Kind{components.KindPrey, components.KindPrey}, 2, false},
		{"prey and apex", []components.Kind{components.KindPrey, components.KindApexPredator}, 2, true},
		{"all three need three", []components.Kind{components.KindPrey, components.KindMidPredator}, 3, false},
		{"single species allowed", []components.Kind{components.KindMidPredator}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(1, 4, nil)
			for i, k := range tt.kinds {
				env.Spawn(k, at(0, i), false, nil)
			}
			got := Viability{MinSpecies: tt.minSpecies}.IsViable(env.Field)
			if got != tt.want {
				t.Errorf("IsViable = %v, want %v", got, tt.want)
			}
		})
	}
}
