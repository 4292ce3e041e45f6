// Package game drives the simulation: the Simulator owns the field and the
// population and advances them one step at a time; the Runner wires it to
// configuration, telemetry and the graphical or headless front end.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/config"
	"github.com/pthm-cable/foodchain/systems"
	"github.com/pthm-cable/foodchain/telemetry"
)

// LongRunSteps is the length of RunLong.
const LongRunSteps = 4000

// Default creation probabilities, checked per cell in prey, mid, apex order.
const (
	DefaultPreyProbability = 0.3
	DefaultMidProbability  = 0.09
	DefaultApexProbability = 0.02
)

// View is notified after reset and after every step.
type View interface {
	ShowStatus(step int, field *systems.Field)
}

// ViabilityChecker decides whether the run should continue.
type ViabilityChecker interface {
	IsViable(field *systems.Field) bool
}

// Logger records per-step data. Errors are logged and do not stop the run.
type Logger interface {
	LogData(step int, field *systems.Field) error
}

// PhaseTimer times the phases of a step. *telemetry.PerfCollector
// satisfies it.
type PhaseTimer interface {
	StartStep()
	StartPhase(phase string)
	EndStep()
}

// Options configures a Simulator. Zero values select defaults.
type Options struct {
	Depth, Width int

	// Per-kind creation probabilities indexed by components.Kind.
	// A nil slice selects the defaults.
	Probabilities []float64

	Rand      systems.Rand // nil = time-seeded math/rand
	Recorder  systems.Recorder
	Viability ViabilityChecker // nil = always viable
	Views     []View
	Loggers   []Logger
	Timer     PhaseTimer // nil = untimed
}

// Simulator holds the field, the population and the step counter.
type Simulator struct {
	env   *systems.Env
	probs [components.NumKinds]float64

	animals []*Animal
	step    int

	viability ViabilityChecker
	views     []View
	loggers   []Logger
	timer     PhaseTimer

	// Reused across steps
	newborns []*Animal
}

// Animal is re-exported so callers of the game package need not import systems.
type Animal = systems.Animal

// NewSimulator creates a simulator and resets it to a freshly seeded field.
func NewSimulator(opts Options) *Simulator {
	depth, width := opts.Depth, opts.Width
	if depth <= 0 || width <= 0 {
		slog.Warn("invalid field dimensions, using defaults",
			"depth", depth, "width", width,
			"default_depth", config.DefaultDepth, "default_width", config.DefaultWidth)
		depth, width = config.DefaultDepth, config.DefaultWidth
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Simulator{
		env:       systems.NewEnv(systems.NewField(depth, width), rng, opts.Recorder),
		probs:     [components.NumKinds]float64{DefaultPreyProbability, DefaultMidProbability, DefaultApexProbability},
		viability: opts.Viability,
		views:     opts.Views,
		loggers:   opts.Loggers,
		timer:     opts.Timer,
	}
	if opts.Probabilities != nil {
		copy(s.probs[:], opts.Probabilities)
	}

	s.Reset()
	return s
}

// AddView registers v. It takes effect from the next notification.
func (s *Simulator) AddView(v View) {
	s.views = append(s.views, v)
}

// Reset clears the population and reseeds every cell, then notifies views
// with step 0.
func (s *Simulator) Reset() {
	s.step = 0
	clear(s.animals)
	s.animals = s.animals[:0]
	s.env.Reset()
	s.populate()
	s.notifyViews()
}

// populate draws once per kind per cell; the first success fills the cell.
func (s *Simulator) populate() {
	f := s.env.Field
	for row := 0; row < f.Depth(); row++ {
		for col := 0; col < f.Width(); col++ {
			loc := components.Location{Row: row, Col: col}
			for _, kind := range components.Kinds {
				if s.env.Rand.Float64() <= s.probs[kind] {
					s.animals = append(s.animals, s.env.Spawn(kind, loc, true, nil))
					break
				}
			}
		}
	}
}

// SimulateOneStep advances the simulation by a single step. Animals born
// during the step do not act until the next one.
func (s *Simulator) SimulateOneStep() {
	s.step++
	s.startStep()

	s.startPhase(telemetry.PhaseAct)
	newborns := s.newborns[:0]
	n := len(s.animals)
	for i := 0; i < n; i++ {
		a := s.animals[i]
		if !a.Alive() {
			// Eaten earlier in this step
			continue
		}
		newborns = a.Act(s.env, newborns)
	}

	s.startPhase(telemetry.PhaseCompact)
	alive := s.animals[:0]
	for _, a := range s.animals {
		if a.Alive() {
			alive = append(alive, a)
		}
	}
	for _, a := range newborns {
		if a.Alive() {
			alive = append(alive, a)
		}
	}
	if len(alive) < n {
		clear(s.animals[len(alive):n])
	}
	s.animals = alive

	clear(newborns)
	s.newborns = newborns[:0]

	s.startPhase(telemetry.PhaseViews)
	s.notifyViews()
	s.startPhase(telemetry.PhaseLoggers)
	s.logData()
	s.endStep()
}

func (s *Simulator) startStep() {
	if s.timer != nil {
		s.timer.StartStep()
	}
}

func (s *Simulator) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

func (s *Simulator) endStep() {
	if s.timer != nil {
		s.timer.EndStep()
	}
}

// Simulate runs up to steps steps, stopping early when the field is no
// longer viable or ctx is done. It returns the number of steps run and the
// context error if cancellation stopped it.
func (s *Simulator) Simulate(ctx context.Context, steps int) (int, error) {
	ran := 0
	for ran < steps && s.IsViable() {
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		s.SimulateOneStep()
		ran++
	}
	return ran, nil
}

// RunLong runs LongRunSteps steps.
func (s *Simulator) RunLong(ctx context.Context) (int, error) {
	return s.Simulate(ctx, LongRunSteps)
}

// IsViable reports whether the configured checker accepts the field.
func (s *Simulator) IsViable() bool {
	if s.viability == nil {
		return true
	}
	return s.viability.IsViable(s.env.Field)
}

func (s *Simulator) notifyViews() {
	for _, v := range s.views {
		v.ShowStatus(s.step, s.env.Field)
	}
}

func (s *Simulator) logData() {
	for _, l := range s.loggers {
		if err := l.LogData(s.step, s.env.Field); err != nil {
			slog.Error("failed to log step data", "step", s.step, "error", err)
		}
	}
}

// Step returns the number of steps since the last reset.
func (s *Simulator) Step() int { return s.step }

// Field returns the simulation field.
func (s *Simulator) Field() *systems.Field { return s.env.Field }

// Population returns a copy of the live population in acting order.
func (s *Simulator) Population() []*Animal {
	out := make([]*Animal, len(s.animals))
	copy(out, s.animals)
	return out
}

// Counts returns the number of live animals per kind.
func (s *Simulator) Counts() [components.NumKinds]int {
	var counts [components.NumKinds]int
	for _, a := range s.animals {
		counts[a.Kind()]++
	}
	return counts
}
