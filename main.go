package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodchain/config"
	"github.com/pthm-cable/foodchain/game"
	"github.com/pthm-cable/foodchain/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats and bookmarks via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	maxSteps := flag.Int("max-steps", 0, "Stop after N steps (0 = config steps)")
	streamAddr := flag.String("stream-addr", "", "Serve websocket status frames on this address (e.g. :8080)")
	stepsPerFrame := flag.Int("steps-per-frame", 0, "Simulation steps per rendered frame (0 = config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	runner, err := game.NewRunner(cfg, game.RunnerOptions{
		Seed:          *seed,
		LogStats:      *logStats,
		OutputDir:     *outputDir,
		MaxSteps:      *maxSteps,
		StreamAddr:    *streamAddr,
		StepsPerFrame: *stepsPerFrame,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := runner.Close(); err != nil {
			slog.Error("failed to close run", "error", err)
		}
	}()

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		steps, err := runner.RunHeadless(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("simulation failed", "step", steps, "error", err)
			return
		}
		slog.Info("simulation finished", "steps", steps, "counts", runner.Simulator().Counts())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Foodchain")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	app := ui.NewApp(runner)
	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}
}
