package systems

import (
	"github.com/pthm-cable/foodchain/components"
)

// findFood eats the first live edible neighbour in adjacency order and
// returns its cell. At most one kill happens per call.
func (a *Animal) findFood(env *Env) (components.Location, bool) {
	if !a.traits.Hunts() {
		return components.Location{}, false
	}
	for _, where := range env.Field.AdjacentLocations(a.loc) {
		prey := env.Field.At(where)
		if prey == nil || !prey.Alive() || !a.kind.Eats(prey.kind) {
			continue
		}
		if env.Recorder != nil {
			env.Recorder.OnKill(a, prey)
		}
		prey.SetDead(env, CauseEaten)
		a.food += prey.traits.FoodValue
		a.maxSpeed = a.traits.Speed(a.food)
		return where, true
	}
	return components.Location{}, false
}
