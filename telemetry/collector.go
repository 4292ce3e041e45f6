package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/systems"
)

// Collector accumulates lifecycle events within windows of steps and
// produces WindowStats. It is both the simulation's Recorder and a View.
type Collector struct {
	windowSteps int
	windowStart int
	step        int

	// Event counters for current window
	births    [components.NumKinds]int
	deaths    [components.NumKinds]int
	causes    [systems.NumCauses]int
	kills     [components.NumKinds]int
	lifespans []float64

	tracker *LifetimeTracker

	// Sinks, all optional
	output   *OutputManager
	detector *BookmarkDetector
	logStats bool
	onFlush  func(WindowStats)

	last    WindowStats
	hasLast bool
}

// CollectorOptions configures where flushed windows go.
type CollectorOptions struct {
	Output   *OutputManager
	Detector *BookmarkDetector
	LogStats bool
	OnFlush  func(WindowStats)
}

// NewCollector creates a collector that flushes every windowSteps steps.
func NewCollector(windowSteps int, opts CollectorOptions) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{
		windowSteps: windowSteps,
		tracker:     NewLifetimeTracker(),
		output:      opts.Output,
		detector:    opts.Detector,
		logStats:    opts.LogStats,
		onFlush:     opts.OnFlush,
	}
}

// OnSpawn records a birth. Seeded animals (no parent) are tracked but not
// counted as births.
func (c *Collector) OnSpawn(child, parent *systems.Animal) {
	c.tracker.Register(child.ID(), child.Kind(), child.Generation(), c.step)
	if parent == nil {
		return
	}
	c.births[child.Kind()]++
	c.tracker.RecordChild(parent.ID())
}

// OnKill records a kill.
func (c *Collector) OnKill(predator, prey *systems.Animal) {
	c.kills[predator.Kind()]++
	c.tracker.RecordKill(predator.ID())
}

// OnDeath records a death and the animal's lifespan.
func (c *Collector) OnDeath(a *systems.Animal) {
	c.deaths[a.Kind()]++
	c.causes[a.Cause()]++
	c.lifespans = append(c.lifespans, float64(a.Age()))
	c.tracker.Retire(a.ID())
}

// ShowStatus advances the window and flushes it when full.
func (c *Collector) ShowStatus(step int, field *systems.Field) {
	c.step = step
	if c.ShouldFlush(step) {
		c.flushToSinks(c.Flush(step, field))
	}
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStart >= c.windowSteps
}

// Flush produces a WindowStats from the counters and the field, and resets
// counters for the next window.
func (c *Collector) Flush(step int, field *systems.Field) WindowStats {
	census := CountField(field)

	var ages [components.NumKinds][]float64
	var apexFood []float64
	field.Each(func(_ components.Location, a *systems.Animal) {
		ages[a.Kind()] = append(ages[a.Kind()], float64(a.Age()))
		if a.Kind() == components.KindApexPredator {
			apexFood = append(apexFood, float64(a.FoodLevel()))
		}
	})
	preyMean, _, preyP50 := Distribution(ages[components.KindPrey])
	midMean, _, midP50 := Distribution(ages[components.KindMidPredator])
	apexMean, _, apexP50 := Distribution(ages[components.KindApexPredator])
	apexFoodMean, _, _ := Distribution(apexFood)
	lifespanMean, lifespanStd, _ := Distribution(c.lifespans)

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   step,

		Prey:      census.Count(components.KindPrey),
		Mid:       census.Count(components.KindMidPredator),
		Apex:      census.Count(components.KindApexPredator),
		Occupancy: census.Occupancy(),

		PreyBirths: c.births[components.KindPrey],
		MidBirths:  c.births[components.KindMidPredator],
		ApexBirths: c.births[components.KindApexPredator],
		PreyDeaths: c.deaths[components.KindPrey],
		MidDeaths:  c.deaths[components.KindMidPredator],
		ApexDeaths: c.deaths[components.KindApexPredator],

		OldAge:       c.causes[systems.CauseOldAge],
		Starvation:   c.causes[systems.CauseStarvation],
		Eaten:        c.causes[systems.CauseEaten],
		Overcrowding: c.causes[systems.CauseOvercrowding],

		MidKills:  c.kills[components.KindMidPredator],
		ApexKills: c.kills[components.KindApexPredator],

		PreyAgeMean:   preyMean,
		PreyAgeP50:    preyP50,
		MidAgeMean:    midMean,
		MidAgeP50:     midP50,
		ApexAgeMean:   apexMean,
		ApexAgeP50:    apexP50,
		ApexFoodMean:  apexFoodMean,
		LifespanMean:  lifespanMean,
		LifespanStd:   lifespanStd,
		MaxGeneration: c.tracker.Summary().MaxGeneration,
	}

	c.resetWindow(step)
	c.last = stats
	c.hasLast = true
	return stats
}

func (c *Collector) flushToSinks(stats WindowStats) {
	if c.onFlush != nil {
		c.onFlush(stats)
	}
	if c.logStats {
		stats.LogStats()
	}
	if err := c.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}

	if c.detector == nil {
		return
	}
	for _, bm := range c.detector.Check(stats) {
		if c.logStats {
			bm.LogBookmark()
		}
		if err := c.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

func (c *Collector) resetWindow(step int) {
	c.windowStart = step
	c.births = [components.NumKinds]int{}
	c.deaths = [components.NumKinds]int{}
	c.causes = [systems.NumCauses]int{}
	c.kills = [components.NumKinds]int{}
	c.lifespans = c.lifespans[:0]
}

// Reset discards all state ahead of a simulation reset.
func (c *Collector) Reset() {
	c.step = 0
	c.resetWindow(0)
	c.tracker.Reset()
	c.last = WindowStats{}
	c.hasLast = false
}

// Last returns the most recently flushed window.
func (c *Collector) Last() (WindowStats, bool) {
	return c.last, c.hasLast
}

// Tracker exposes the lifetime tracker.
func (c *Collector) Tracker() *LifetimeTracker {
	return c.tracker
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() int {
	return c.windowSteps
}
