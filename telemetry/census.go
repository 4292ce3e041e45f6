// Package telemetry provides the population census, windowed statistics,
// bookmark detection and CSV output of a run.
package telemetry

import (
	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/systems"
)

// Census is a point-in-time count of the field.
type Census struct {
	Counts   [components.NumKinds]int
	Occupied int
	Cells    int
}

// CountField counts the live animals on the field by kind.
func CountField(f *systems.Field) Census {
	c := Census{Cells: f.Size()}
	f.Each(func(_ components.Location, a *systems.Animal) {
		if !a.Alive() {
			return
		}
		c.Counts[a.Kind()]++
		c.Occupied++
	})
	return c
}

// Count returns the number of live animals of kind k.
func (c Census) Count(k components.Kind) int {
	return c.Counts[k]
}

// Total returns the number of live animals.
func (c Census) Total() int {
	return c.Occupied
}

// SpeciesPresent returns how many kinds have at least one live animal.
func (c Census) SpeciesPresent() int {
	n := 0
	for _, count := range c.Counts {
		if count > 0 {
			n++
		}
	}
	return n
}

// Viable reports whether at least minSpecies kinds are present.
func (c Census) Viable(minSpecies int) bool {
	return c.SpeciesPresent() >= minSpecies
}

// Occupancy returns the fraction of cells holding an animal.
func (c Census) Occupancy() float64 {
	if c.Cells == 0 {
		return 0
	}
	return float64(c.Occupied) / float64(c.Cells)
}

// Viability keeps the run going while enough species survive.
type Viability struct {
	MinSpecies int
}

// IsViable reports whether the field still holds MinSpecies kinds.
func (v Viability) IsViable(f *systems.Field) bool {
	return CountField(f).Viable(v.MinSpecies)
}
