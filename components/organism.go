package components

// Diet is a set of kinds a species can eat.
type Diet uint8

// DietOf builds a diet from the given kinds.
func DietOf(kinds ...Kind) Diet {
	var d Diet
	for _, k := range kinds {
		d |= 1 << k
	}
	return d
}

// Has reports whether the diet includes k.
func (d Diet) Has(k Kind) bool {
	return k.Valid() && d&(1<<k) != 0
}

// Empty reports whether the diet contains no kinds.
func (d Diet) Empty() bool {
	return d == 0
}

// Traits holds the per-species constants. Species differ only in these values.
type Traits struct {
	MaxAge       int // Oldest age survived; age > MaxAge is fatal
	MaxAgeSpread int // If > 0, each instance draws MaxAge + [0, MaxAgeSpread)

	BreedingAge         int     // Minimum age to breed
	BreedingProbability float64 // Chance per step of producing a litter
	MaxLitterSize       int     // Litter size is drawn from [1, MaxLitterSize]

	FoodValue int  // Food gained by a predator eating one of these
	FullFood  int  // Food level of a newborn
	Starves   bool // Whether hunger applies at all

	Diet Diet // Kinds this species hunts

	MaxSpeed        int // Free-cell lookups per move
	HungerThreshold int // Food level at or below which the speed penalty applies
	HungerPenalty   int // Speed lost while hungry (speed never drops below 1)
}

// Hunts reports whether the species looks for food by predation.
func (t *Traits) Hunts() bool {
	return !t.Diet.Empty()
}

// Speed returns the move budget for the given food level.
func (t *Traits) Speed(foodLevel int) int {
	speed := t.MaxSpeed
	if t.HungerPenalty > 0 && foodLevel <= t.HungerThreshold {
		speed -= t.HungerPenalty
	}
	if speed < 1 {
		speed = 1
	}
	return speed
}

var speciesTraits = [NumKinds]Traits{
	KindPrey: {
		MaxAge:              100,
		BreedingAge:         5,
		BreedingProbability: 0.12,
		MaxLitterSize:       4,
		FoodValue:           10,
		MaxSpeed:            1,
	},
	KindMidPredator: {
		MaxAge:              200,
		BreedingAge:         20,
		BreedingProbability: 0.08,
		MaxLitterSize:       3,
		FoodValue:           20,
		FullFood:            20,
		Starves:             true,
		Diet:                DietOf(KindPrey),
		MaxSpeed:            1,
	},
	KindApexPredator: {
		MaxAge:              600,
		MaxAgeSpread:        5400,
		BreedingAge:         300,
		BreedingProbability: 0.1,
		MaxLitterSize:       5,
		FullFood:            20,
		Starves:             true,
		Diet:                DietOf(KindMidPredator, KindPrey),
		MaxSpeed:            5,
		HungerThreshold:     2,
		HungerPenalty:       2,
	},
}
