package systems

import (
	"github.com/pthm-cable/foodchain/components"
)

// Rand is the uniform random source the lifecycle draws from. *rand.Rand
// satisfies it; tests substitute scripted sources.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Recorder receives lifecycle events. All methods are called synchronously
// from the step loop.
type Recorder interface {
	// OnSpawn is called after child is placed. parent is nil for seeded animals.
	OnSpawn(child, parent *Animal)
	// OnKill is called when predator eats prey, before prey's OnDeath.
	OnKill(predator, prey *Animal)
	// OnDeath is called once per animal when it transitions to dead.
	OnDeath(a *Animal)
}

// Env is the context threaded through every lifecycle operation.
type Env struct {
	Field    *Field
	Rand     Rand
	Recorder Recorder

	nextID uint64
}

// NewEnv creates an environment over field drawing from rng.
func NewEnv(field *Field, rng Rand, rec Recorder) *Env {
	return &Env{Field: field, Rand: rng, Recorder: rec}
}

// Spawn creates an animal of kind at loc and places it on the field.
// Seeded animals (randomAge) get a random age in [0, maxAge) and a random
// food level in [1, FullFood]; newborns start at age 0 with full food.
func (e *Env) Spawn(kind components.Kind, loc components.Location, randomAge bool, parent *Animal) *Animal {
	t := kind.Traits()
	e.nextID++
	a := &Animal{
		id:     e.nextID,
		kind:   kind,
		traits: t,
		maxAge: t.MaxAge,
		alive:  true,
		loc:    loc,
	}
	if t.MaxAgeSpread > 0 {
		a.maxAge = t.MaxAge + e.Rand.Intn(t.MaxAgeSpread)
	}
	if parent != nil {
		a.generation = parent.generation + 1
	}
	if t.Starves {
		a.food = t.FullFood
	}
	if randomAge {
		a.age = e.Rand.Intn(a.maxAge)
		if t.Starves {
			a.food = e.Rand.Intn(t.FullFood) + 1
		}
	}
	a.maxSpeed = t.Speed(a.food)

	e.Field.Place(a, loc)
	if e.Recorder != nil {
		e.Recorder.OnSpawn(a, parent)
	}
	return a
}

// Reset clears the field and restarts id assignment.
func (e *Env) Reset() {
	e.Field.Clear()
	e.nextID = 0
}
