package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/pthm-cable/foodchain/config"
	"github.com/pthm-cable/foodchain/stream"
	"github.com/pthm-cable/foodchain/telemetry"
)

// perfWindow is the number of steps the perf collector averages over.
const perfWindow = 120

// RunnerOptions overrides configuration from the command line. Zero values
// defer to the config.
type RunnerOptions struct {
	Seed          int64 // 0 = config seed, then time-based
	LogStats      bool
	OutputDir     string // "" = no CSV output
	MaxSteps      int    // 0 = config steps
	StreamAddr    string // "" = config stream address
	StepsPerFrame int    // 0 = config steps_per_frame
}

// Runner owns a simulator and its collaborators for one run.
type Runner struct {
	cfg  *config.Config
	seed int64
	sim  *Simulator

	collector   *telemetry.Collector
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	broadcaster *stream.Broadcaster
	server      *http.Server

	maxSteps      int
	stepsPerFrame int
	paused        bool
	stepOnce      bool
}

// NewRunner builds the simulator, telemetry sinks and optional websocket
// stream described by cfg and opts.
func NewRunner(cfg *config.Config, opts RunnerOptions) (*Runner, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &Runner{
		cfg:           cfg,
		seed:          seed,
		perf:          telemetry.NewPerfCollector(perfWindow),
		maxSteps:      cfg.Simulation.Steps,
		stepsPerFrame: cfg.Simulation.StepsPerFrame,
	}
	if opts.MaxSteps > 0 {
		r.maxSteps = opts.MaxSteps
	}
	if opts.StepsPerFrame > 0 {
		r.stepsPerFrame = opts.StepsPerFrame
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	r.output = output
	if err := output.WriteConfig(cfg); err != nil {
		r.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	r.collector = telemetry.NewCollector(cfg.Telemetry.WindowSteps, telemetry.CollectorOptions{
		Output:   output,
		Detector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		LogStats: opts.LogStats,
		OnFlush: func(stats telemetry.WindowStats) {
			perfStats := r.perf.Stats()
			if opts.LogStats {
				perfStats.LogStats()
			}
			if err := output.WritePerf(perfStats, stats.WindowEnd); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
		},
	})

	views := []View{r.collector}

	addr := cfg.Stream.Addr
	if opts.StreamAddr != "" {
		addr = opts.StreamAddr
	}
	if addr != "" {
		if err := r.startStream(addr); err != nil {
			r.Close()
			return nil, err
		}
		views = append(views, r.broadcaster)
	}

	var loggers []Logger
	if pl := output.PopulationLog(); pl != nil {
		loggers = append(loggers, pl)
	}

	r.sim = NewSimulator(Options{
		Depth:  cfg.World.Depth,
		Width:  cfg.World.Width,
		Probabilities: []float64{
			cfg.Population.PreyProbability,
			cfg.Population.MidProbability,
			cfg.Population.ApexProbability,
		},
		Rand:      rand.New(rand.NewSource(seed)),
		Recorder:  r.collector,
		Viability: telemetry.Viability{MinSpecies: cfg.Simulation.MinSpecies},
		Views:     views,
		Loggers:   loggers,
		Timer:     r.perf,
	})
	return r, nil
}

func (r *Runner) startStream(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	r.broadcaster = stream.NewBroadcaster()
	mux := http.NewServeMux()
	mux.Handle("/ws", r.broadcaster.Handler())
	r.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := r.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream server stopped", "addr", addr, "error", err)
		}
	}()
	slog.Info("streaming status frames", "addr", ln.Addr().String(), "path", "/ws")
	return nil
}

// RunHeadless steps the simulation until the step limit is reached, the
// field stops being viable or ctx is done, sleeping delay_ms between steps.
// It returns the number of steps run.
func (r *Runner) RunHeadless(ctx context.Context) (int, error) {
	delay := r.cfg.Derived.Delay
	slog.Info("starting headless simulation",
		"seed", r.seed,
		"depth", r.cfg.World.Depth,
		"width", r.cfg.World.Width,
		"max_steps", r.maxSteps,
		"delay", delay,
	)

	ran := 0
	for r.maxSteps == 0 || ran < r.maxSteps {
		if !r.sim.IsViable() {
			slog.Info("simulation no longer viable", "step", r.sim.Step(), "counts", r.sim.Counts())
			return ran, nil
		}
		if err := ctx.Err(); err != nil {
			return ran, err
		}

		r.sim.SimulateOneStep()
		ran++

		if delay > 0 {
			select {
			case <-ctx.Done():
				return ran, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	slog.Info("max steps reached", "step", r.sim.Step(), "counts", r.sim.Counts())
	return ran, nil
}

// Update advances one graphical frame: steps_per_frame steps, or a single
// step after StepOnce, or nothing while paused.
func (r *Runner) Update() {
	r.perf.RecordFrame()

	n := r.stepsPerFrame
	if r.paused {
		if !r.stepOnce {
			return
		}
		n = 1
	}
	r.stepOnce = false

	for i := 0; i < n && r.sim.IsViable(); i++ {
		if r.maxSteps > 0 && r.sim.Step() >= r.maxSteps {
			return
		}
		r.sim.SimulateOneStep()
	}
}

// Done reports whether the run can make no further progress.
func (r *Runner) Done() bool {
	if r.maxSteps > 0 && r.sim.Step() >= r.maxSteps {
		return true
	}
	return !r.sim.IsViable()
}

// TogglePause pauses or resumes stepping and returns the new state.
func (r *Runner) TogglePause() bool {
	r.paused = !r.paused
	return r.paused
}

// Paused reports whether stepping is paused.
func (r *Runner) Paused() bool { return r.paused }

// StepOnce advances exactly one step on the next Update while paused.
func (r *Runner) StepOnce() {
	r.stepOnce = true
}

// Reset discards the run's telemetry window and reseeds the field.
func (r *Runner) Reset() {
	r.collector.Reset()
	r.sim.Reset()
}

// StepsPerFrame returns the graphical simulation speed.
func (r *Runner) StepsPerFrame() int { return r.stepsPerFrame }

// SetStepsPerFrame changes the graphical simulation speed. Values below one
// are raised to one.
func (r *Runner) SetStepsPerFrame(n int) {
	r.stepsPerFrame = max(n, 1)
}

// Seed returns the seed the run was started with.
func (r *Runner) Seed() int64 { return r.seed }

// Simulator returns the underlying simulator.
func (r *Runner) Simulator() *Simulator { return r.sim }

// Collector returns the telemetry collector.
func (r *Runner) Collector() *telemetry.Collector { return r.collector }

// Perf returns the step timing collector.
func (r *Runner) Perf() *telemetry.PerfCollector { return r.perf }

// Config returns the run configuration.
func (r *Runner) Config() *config.Config { return r.cfg }

// AddView registers an additional view, such as the grid renderer.
func (r *Runner) AddView(v View) {
	r.sim.AddView(v)
}

// Close stops the stream and closes the output files.
func (r *Runner) Close() error {
	var errs []error
	if r.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down stream server: %w", err))
		}
	}
	if r.broadcaster != nil {
		if err := r.broadcaster.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.output.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing output: %w", err))
	}
	return errors.Join(errs...)
}
