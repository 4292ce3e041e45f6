package main

import (
	"context"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/foodchain/config"
	"github.com/pthm-cable/foodchain/game"
	"github.com/pthm-cable/foodchain/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSteps   int
	seeds      []int64
	baseConfig *config.Config

	mu   sync.Mutex
	last Evaluation
}

// Evaluation summarises one parameter vector across all seeds.
type Evaluation struct {
	Fitness     float64
	MeanSteps   float64
	Coexistence float64 // fraction of windows with all three kinds present
	Stability   float64 // mean coefficient of variation of counts
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxSteps:   maxSteps,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// Last returns the most recent evaluation.
func (fe *FitnessEvaluator) Last() Evaluation {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the results from a single simulation run.
type runResult struct {
	steps   int
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean number of viable steps across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var steps, coexist, cvSum float64
	var cvCount int
	for _, r := range results {
		steps += float64(r.steps)
		coexist += coexistence(r.windows)
		if c, ok := countsCV(r.windows); ok {
			cvSum += c
			cvCount++
		}
	}
	n := float64(len(results))
	eval := Evaluation{
		MeanSteps:   steps / n,
		Coexistence: coexist / n,
	}
	eval.Fitness = -eval.MeanSteps
	if cvCount > 0 {
		eval.Stability = cvSum / float64(cvCount)
	}

	fe.mu.Lock()
	fe.last = eval
	fe.mu.Unlock()

	return eval.Fitness
}

// runSimulation runs one seed until the field stops being viable or
// maxSteps is reached.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	var result runResult
	collector := telemetry.NewCollector(cfg.Telemetry.WindowSteps, telemetry.CollectorOptions{
		OnFlush: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})

	sim := game.NewSimulator(game.Options{
		Depth: cfg.World.Depth,
		Width: cfg.World.Width,
		Probabilities: []float64{
			cfg.Population.PreyProbability,
			cfg.Population.MidProbability,
			cfg.Population.ApexProbability,
		},
		Rand:      rand.New(rand.NewSource(seed)),
		Recorder:  collector,
		Viability: telemetry.Viability{MinSpecies: cfg.Simulation.MinSpecies},
		Views:     []game.View{collector},
	})

	result.steps, _ = sim.Simulate(context.Background(), fe.maxSteps)
	return result
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// coexistence returns the fraction of windows ending with all kinds alive.
func coexistence(windows []telemetry.WindowStats) float64 {
	if len(windows) == 0 {
		return 0
	}
	n := 0
	for _, w := range windows {
		if w.Prey > 0 && w.Mid > 0 && w.Apex > 0 {
			n++
		}
	}
	return float64(n) / float64(len(windows))
}

// countsCV averages the coefficient of variation of each kind's window-end
// counts. It needs at least two windows.
func countsCV(windows []telemetry.WindowStats) (float64, bool) {
	if len(windows) < 2 {
		return 0, false
	}
	series := [3][]float64{}
	for _, w := range windows {
		series[0] = append(series[0], float64(w.Prey))
		series[1] = append(series[1], float64(w.Mid))
		series[2] = append(series[2], float64(w.Apex))
	}
	var sum float64
	var kinds int
	for _, s := range series {
		mean, std := stat.MeanStdDev(s, nil)
		if mean == 0 {
			continue
		}
		sum += std / mean
		kinds++
	}
	if kinds == 0 {
		return 0, false
	}
	return sum / float64(kinds), true
}
