package systems

import (
	"fmt"

	"github.com/pthm-cable/foodchain/components"
)

// DeathCause records why an animal died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseOldAge
	CauseStarvation
	CauseEaten
	CauseOvercrowding
)

// NumCauses is the number of causes including CauseNone.
const NumCauses = 5

// String returns the snake_case name of the cause.
func (c DeathCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseOldAge:
		return "old_age"
	case CauseStarvation:
		return "starvation"
	case CauseEaten:
		return "eaten"
	case CauseOvercrowding:
		return "overcrowding"
	default:
		return "unknown"
	}
}

// Animal is a single organism. Its species is a tag selecting a fixed
// trait record; behavior is shared across species.
type Animal struct {
	id         uint64
	kind       components.Kind
	traits     *components.Traits
	generation int

	age      int
	food     int
	maxAge   int
	maxSpeed int

	alive bool
	cause DeathCause
	loc   components.Location
}

// ID returns the animal's run-unique identifier.
func (a *Animal) ID() uint64 { return a.id }

// Kind returns the species.
func (a *Animal) Kind() components.Kind { return a.kind }

// Traits returns the species constants.
func (a *Animal) Traits() *components.Traits { return a.traits }

// Generation is 0 for seeded animals and parent+1 for newborns.
func (a *Animal) Generation() int { return a.generation }

// Age returns the number of steps lived.
func (a *Animal) Age() int { return a.age }

// FoodLevel returns the remaining food budget.
func (a *Animal) FoodLevel() int { return a.food }

// MaxAge returns the oldest age this animal can survive.
func (a *Animal) MaxAge() int { return a.maxAge }

// MaxSpeed returns the current move budget.
func (a *Animal) MaxSpeed() int { return a.maxSpeed }

// Alive reports whether the animal is alive.
func (a *Animal) Alive() bool { return a.alive }

// Cause returns the cause of death, or CauseNone while alive.
func (a *Animal) Cause() DeathCause { return a.cause }

// Location returns where the animal is (or was last) placed.
func (a *Animal) Location() components.Location { return a.loc }

func (a *Animal) String() string {
	state := "alive"
	if !a.alive {
		state = "dead:" + a.cause.String()
	}
	return fmt.Sprintf("[%s #%d %v %s]", a.kind, a.id, a.loc, state)
}

// SetLocation moves the animal to loc, vacating its old cell first.
func (a *Animal) SetLocation(f *Field, loc components.Location) {
	f.Vacate(a)
	a.loc = loc
	f.Place(a, loc)
}

// SetDead marks the animal dead and removes it from the field. Death is
// terminal; later calls keep the first cause.
func (a *Animal) SetDead(env *Env, cause DeathCause) {
	if !a.alive {
		return
	}
	a.alive = false
	a.cause = cause
	env.Field.Vacate(a)
	if env.Recorder != nil {
		env.Recorder.OnDeath(a)
	}
}
