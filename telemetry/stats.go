package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of steps.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population at window end
	Prey      int     `csv:"prey"`
	Mid       int     `csv:"mid_predator"`
	Apex      int     `csv:"apex_predator"`
	Occupancy float64 `csv:"occupancy"`

	// Events during window
	PreyBirths int `csv:"prey_births"`
	MidBirths  int `csv:"mid_births"`
	ApexBirths int `csv:"apex_births"`
	PreyDeaths int `csv:"prey_deaths"`
	MidDeaths  int `csv:"mid_deaths"`
	ApexDeaths int `csv:"apex_deaths"`

	// Deaths by cause
	OldAge       int `csv:"deaths_old_age"`
	Starvation   int `csv:"deaths_starvation"`
	Eaten        int `csv:"deaths_eaten"`
	Overcrowding int `csv:"deaths_overcrowding"`

	// Predation
	MidKills  int `csv:"mid_kills"`
	ApexKills int `csv:"apex_kills"`

	// Age distribution of the living (sampled at window end)
	PreyAgeMean   float64 `csv:"prey_age_mean"`
	PreyAgeP50    float64 `csv:"prey_age_p50"`
	MidAgeMean    float64 `csv:"mid_age_mean"`
	MidAgeP50     float64 `csv:"mid_age_p50"`
	ApexAgeMean   float64 `csv:"apex_age_mean"`
	ApexAgeP50    float64 `csv:"apex_age_p50"`
	ApexFoodMean  float64 `csv:"apex_food_mean"`
	LifespanMean  float64 `csv:"lifespan_mean"`
	LifespanStd   float64 `csv:"lifespan_std"`
	MaxGeneration int     `csv:"max_generation"`
}

// Births returns the total births in the window.
func (s WindowStats) Births() int {
	return s.PreyBirths + s.MidBirths + s.ApexBirths
}

// Deaths returns the total deaths in the window.
func (s WindowStats) Deaths() int {
	return s.PreyDeaths + s.MidDeaths + s.ApexDeaths
}

// Distribution computes the mean, standard deviation and median of values.
// All three are 0 for an empty slice; the deviation is 0 for a single value.
func Distribution(values []float64) (mean, std, median float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n == 1 {
		return sorted[0], 0, sorted[0]
	}
	mean, std = stat.MeanStdDev(sorted, nil)
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return mean, std, median
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Int("prey", s.Prey),
		slog.Int("mid_predator", s.Mid),
		slog.Int("apex_predator", s.Apex),
		slog.Float64("occupancy", s.Occupancy),
		slog.Int("births", s.Births()),
		slog.Int("deaths", s.Deaths()),
		slog.Int("deaths_old_age", s.OldAge),
		slog.Int("deaths_starvation", s.Starvation),
		slog.Int("deaths_eaten", s.Eaten),
		slog.Int("deaths_overcrowding", s.Overcrowding),
		slog.Int("mid_kills", s.MidKills),
		slog.Int("apex_kills", s.ApexKills),
		slog.Float64("lifespan_mean", s.LifespanMean),
		slog.Int("max_generation", s.MaxGeneration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"prey", s.Prey,
		"mid_predator", s.Mid,
		"apex_predator", s.Apex,
		"occupancy", s.Occupancy,
		"prey_births", s.PreyBirths,
		"mid_births", s.MidBirths,
		"apex_births", s.ApexBirths,
		"prey_deaths", s.PreyDeaths,
		"mid_deaths", s.MidDeaths,
		"apex_deaths", s.ApexDeaths,
		"deaths_old_age", s.OldAge,
		"deaths_starvation", s.Starvation,
		"deaths_eaten", s.Eaten,
		"deaths_overcrowding", s.Overcrowding,
		"mid_kills", s.MidKills,
		"apex_kills", s.ApexKills,
		"prey_age_mean", s.PreyAgeMean,
		"mid_age_mean", s.MidAgeMean,
		"apex_age_mean", s.ApexAgeMean,
		"apex_food_mean", s.ApexFoodMean,
		"lifespan_mean", s.LifespanMean,
		"lifespan_std", s.LifespanStd,
		"max_generation", s.MaxGeneration,
	)
}
