package systems

import (
	"reflect"
	"testing"

	"github.com/pthm-cable/foodchain/components"
)

func loc(row, col int) components.Location {
	return components.Location{Row: row, Col: col}
}

func TestAdjacentLocations(t *testing.T) {
	tests := []struct {
		name         string
		depth, width int
		at           components.Location
		want         []components.Location
	}{
		{
			name:  "center of 3x3",
			depth: 3, width: 3,
			at:   loc(1, 1),
			want: []components.Location{loc(0, 0), loc(0, 1), loc(0, 2), loc(1, 0), loc(1, 2), loc(2, 0), loc(2, 1), loc(2, 2)},
		},
		{
			name:  "top-left corner",
			depth: 3, width: 3,
			at:   loc(0, 0),
			want: []components.Location{loc(0, 1), loc(1, 0), loc(1, 1)},
		},
		{
			name:  "bottom edge",
			depth: 3, width: 4,
			at:   loc(2, 1),
			want: []components.Location{loc(1, 0), loc(1, 1), loc(1, 2), loc(2, 0), loc(2, 2)},
		},
		{
			name:  "single row",
			depth: 1, width: 3,
			at:   loc(0, 1),
			want: []components.Location{loc(0, 0), loc(0, 2)},
		},
		{
			name:  "single cell",
			depth: 1, width: 1,
			at:   loc(0, 0),
			want: []components.Location{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(tt.depth, tt.width)
			got := f.AdjacentLocations(tt.at)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AdjacentLocations(%v) = %v, want %v", tt.at, got, tt.want)
			}
			// Order must be stable across calls.
			if again := f.AdjacentLocations(tt.at); !reflect.DeepEqual(again, got) {
				t.Errorf("second call returned %v, first %v", again, got)
			}
		})
	}
}

func TestFreeAdjacentLocations(t *testing.T) {
	env := newTestEnv(3, 3)
	env.Spawn(components.KindPrey, loc(0, 0), false, nil)
	env.Spawn(components.KindPrey, loc(0, 2), false, nil)
	env.Spawn(components.KindPrey, loc(1, 0), false, nil)

	got := env.Field.FreeAdjacentLocations(loc(1, 1))
	want := []components.Location{loc(0, 1), loc(1, 2), loc(2, 0), loc(2, 1), loc(2, 2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeAdjacentLocations = %v, want %v", got, want)
	}

	first, ok := env.Field.FreeAdjacentLocation(loc(1, 1))
	if !ok || first != loc(0, 1) {
		t.Errorf("FreeAdjacentLocation = %v, %v; want (0,1), true", first, ok)
	}

	// (0,1) is surrounded on the first row and by (1,0); (1,1) and (1,2) stay free.
	got = env.Field.FreeAdjacentLocations(loc(0, 1))
	want = []components.Location{loc(1, 1), loc(1, 2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeAdjacentLocations((0,1)) = %v, want %v", got, want)
	}
}

func TestFreeAdjacentLocationNone(t *testing.T) {
	env := newTestEnv(1, 2)
	env.Spawn(components.KindPrey, loc(0, 0), false, nil)
	env.Spawn(components.KindPrey, loc(0, 1), false, nil)

	if l, ok := env.Field.FreeAdjacentLocation(loc(0, 0)); ok {
		t.Errorf("expected no free location, got %v", l)
	}
	if free := env.Field.FreeAdjacentLocations(loc(0, 0)); len(free) != 0 {
		t.Errorf("expected empty free list, got %v", free)
	}
}

func TestPlaceOccupiedPanics(t *testing.T) {
	env := newTestEnv(2, 2)
	env.Spawn(components.KindPrey, loc(0, 0), false, nil)

	defer func() {
		if recover() == nil {
			t.Error("placing onto an occupied cell should panic")
		}
	}()
	env.Spawn(components.KindMidPredator, loc(0, 0), false, nil)
}

func TestPlaceSameAnimalIsAllowed(t *testing.T) {
	env := newTestEnv(2, 2)
	a := env.Spawn(components.KindPrey, loc(0, 0), false, nil)
	env.Field.Place(a, loc(0, 0))
	if env.Field.At(loc(0, 0)) != a {
		t.Error("re-placing an animal on its own cell should keep it there")
	}
}

func TestOutOfBoundsPanics(t *testing.T) {
	f := NewField(2, 2)
	defer func() {
		if recover() == nil {
			t.Error("At outside the field should panic")
		}
	}()
	f.At(loc(2, 0))
}

func TestNewFieldInvalidSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewField(0, 5) should panic")
		}
	}()
	NewField(0, 5)
}

func TestFieldClearAndEach(t *testing.T) {
	env := newTestEnv(2, 3)
	a := env.Spawn(components.KindPrey, loc(1, 2), false, nil)
	b := env.Spawn(components.KindApexPredator, loc(0, 1), false, nil)

	var seen []*Animal
	var locs []components.Location
	env.Field.Each(func(l components.Location, an *Animal) {
		seen = append(seen, an)
		locs = append(locs, l)
	})
	if len(seen) != 2 || seen[0] != b || seen[1] != a {
		t.Fatalf("Each visited %v, want [b a] in row-major order", seen)
	}
	if locs[0] != loc(0, 1) || locs[1] != loc(1, 2) {
		t.Errorf("Each locations = %v", locs)
	}

	env.Field.Clear()
	count := 0
	env.Field.Each(func(components.Location, *Animal) { count++ })
	if count != 0 {
		t.Errorf("after Clear, %d cells still occupied", count)
	}
}
