// Package components defines the value types shared by the simulation:
// grid locations, species kinds and their fixed traits.
package components

// Kind identifies one of the three species in the food chain.
type Kind uint8

const (
	KindPrey         Kind = iota // Grazes, never hunts, never starves
	KindMidPredator              // Hunts prey
	KindApexPredator             // Hunts mid-predators and prey
)

// NumKinds is the number of species variants.
const NumKinds = 3

// Kinds lists every species in seeding check order.
var Kinds = [NumKinds]Kind{KindPrey, KindMidPredator, KindApexPredator}

// String returns the snake_case key used in logs and CSV headers.
func (k Kind) String() string {
	switch k {
	case KindPrey:
		return "prey"
	case KindMidPredator:
		return "mid_predator"
	case KindApexPredator:
		return "apex_predator"
	default:
		return "unknown"
	}
}

// Name returns the display name of the species.
func (k Kind) Name() string {
	switch k {
	case KindPrey:
		return "Mouse"
	case KindMidPredator:
		return "Cat"
	case KindApexPredator:
		return "Dog"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k < NumKinds
}

// Traits returns the fixed trait record for the kind.
// Panics for an unknown kind.
func (k Kind) Traits() *Traits {
	if !k.Valid() {
		panic("components: traits requested for unknown kind")
	}
	return &speciesTraits[k]
}

// Eats reports whether k preys on other.
func (k Kind) Eats(other Kind) bool {
	return k.Traits().Diet.Has(other)
}
