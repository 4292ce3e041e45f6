package systems

// canBreed reports whether the animal has reached breeding age.
func (a *Animal) canBreed() bool {
	return a.age >= a.traits.BreedingAge
}

// breed returns the litter size for this step, possibly zero.
func (a *Animal) breed(rng Rand) int {
	if !a.canBreed() {
		return 0
	}
	if rng.Float64() > a.traits.BreedingProbability {
		return 0
	}
	return rng.Intn(a.traits.MaxLitterSize) + 1
}

// giveBirth places offspring into the free cells around the parent. The
// litter size is a cap: births stop once free cells run out.
func (a *Animal) giveBirth(env *Env, newborns []*Animal) []*Animal {
	free := env.Field.FreeAdjacentLocations(a.loc)
	births := a.breed(env.Rand)
	for b := 0; b < births && len(free) > 0; b++ {
		loc := free[0]
		free = free[1:]
		newborns = append(newborns, env.Spawn(a.kind, loc, false, a))
	}
	return newborns
}
