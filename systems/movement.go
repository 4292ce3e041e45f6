package systems

// move steps into the first free neighbouring cell. Movement is one cell
// per step regardless of MaxSpeed. An animal with nowhere to go dies of
// overcrowding.
func (a *Animal) move(env *Env) {
	next, ok := env.Field.FreeAdjacentLocation(a.loc)
	if !ok {
		a.SetDead(env, CauseOvercrowding)
		return
	}
	a.SetLocation(env.Field, next)
}
