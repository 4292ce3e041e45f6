package systems

import (
	"fmt"
)

// Act advances the animal by one step: it ages, grows hungrier, breeds,
// hunts and moves, in that order. Offspring are appended to newborns and
// the extended slice is returned. Calling Act on a dead animal panics.
func (a *Animal) Act(env *Env, newborns []*Animal) []*Animal {
	if !a.alive {
		panic(fmt.Sprintf("systems: Act called on dead animal %v", a))
	}
	if a.incrementAge(env); !a.alive {
		return newborns
	}
	if a.incrementHunger(env); !a.alive {
		return newborns
	}

	newborns = a.giveBirth(env, newborns)

	if where, ok := a.findFood(env); ok {
		a.SetLocation(env.Field, where)
		return newborns
	}
	a.move(env)
	return newborns
}

// incrementAge ages the animal; outliving MaxAge is fatal.
func (a *Animal) incrementAge(env *Env) {
	a.age++
	if a.age > a.maxAge {
		a.SetDead(env, CauseOldAge)
	}
}

// incrementHunger consumes one unit of food. A food level of zero or less
// is fatal. Species that do not starve are unaffected.
func (a *Animal) incrementHunger(env *Env) {
	if !a.traits.Starves {
		return
	}
	a.food--
	if a.food <= 0 {
		a.SetDead(env, CauseStarvation)
		return
	}
	a.maxSpeed = a.traits.Speed(a.food)
}
