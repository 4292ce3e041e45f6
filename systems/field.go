// Package systems implements the population-dynamics engine: the bounded
// field and the per-animal lifecycle.
package systems

import (
	"fmt"

	"github.com/pthm-cable/foodchain/components"
)

// Field is a bounded depth x width grid holding at most one animal per cell.
// The field does not own animals; it records where they are placed.
type Field struct {
	depth, width int
	cells        []*Animal
}

// NewField creates an empty field. Panics on non-positive dimensions.
func NewField(depth, width int) *Field {
	if depth <= 0 || width <= 0 {
		panic(fmt.Sprintf("systems: invalid field size %dx%d", depth, width))
	}
	return &Field{
		depth: depth,
		width: width,
		cells: make([]*Animal, depth*width),
	}
}

// Depth returns the number of rows.
func (f *Field) Depth() int { return f.depth }

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Size returns the number of cells.
func (f *Field) Size() int { return len(f.cells) }

// Contains reports whether loc lies inside the field.
func (f *Field) Contains(loc components.Location) bool {
	return loc.Row >= 0 && loc.Row < f.depth && loc.Col >= 0 && loc.Col < f.width
}

func (f *Field) offset(loc components.Location) int {
	if !f.Contains(loc) {
		panic(fmt.Sprintf("field index out of bounds: %v is outside %dx%d", loc, f.depth, f.width))
	}
	return loc.Row*f.width + loc.Col
}

// At returns the animal placed at loc, or nil.
func (f *Field) At(loc components.Location) *Animal {
	return f.cells[f.offset(loc)]
}

// Place records a at loc. Placing onto a cell held by a different live
// animal is a logic fault and panics.
func (f *Field) Place(a *Animal, loc components.Location) {
	idx := f.offset(loc)
	if existing := f.cells[idx]; existing != nil && existing != a && existing.Alive() {
		panic(fmt.Sprintf("field: %v is occupied by %v, cannot place %v", loc, existing, a))
	}
	f.cells[idx] = a
}

// Vacate clears the cell recorded as a's location if it still holds a.
func (f *Field) Vacate(a *Animal) {
	idx := f.offset(a.loc)
	if f.cells[idx] == a {
		f.cells[idx] = nil
	}
}

// Clear empties every cell.
func (f *Field) Clear() {
	clear(f.cells)
}

// AdjacentLocations returns the in-range neighbours of loc in row-major
// order. Edge and corner cells have fewer than eight.
func (f *Field) AdjacentLocations(loc components.Location) []components.Location {
	locs := make([]components.Location, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			next := loc.Offset(dr, dc)
			if f.Contains(next) {
				locs = append(locs, next)
			}
		}
	}
	return locs
}

// FreeAdjacentLocations returns the empty neighbours of loc, in adjacency order.
func (f *Field) FreeAdjacentLocations(loc components.Location) []components.Location {
	adjacent := f.AdjacentLocations(loc)
	free := adjacent[:0]
	for _, next := range adjacent {
		if f.At(next) == nil {
			free = append(free, next)
		}
	}
	return free
}

// FreeAdjacentLocation returns the first empty neighbour of loc.
func (f *Field) FreeAdjacentLocation(loc components.Location) (components.Location, bool) {
	for _, next := range f.AdjacentLocations(loc) {
		if f.At(next) == nil {
			return next, true
		}
	}
	return components.Location{}, false
}

// Each calls fn for every occupied cell in row-major order.
func (f *Field) Each(fn func(loc components.Location, a *Animal)) {
	for i, a := range f.cells {
		if a != nil {
			fn(components.Location{Row: i / f.width, Col: i % f.width}, a)
		}
	}
}
