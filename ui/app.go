package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodchain/camera"
	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/game"
	"github.com/pthm-cable/foodchain/renderer"
	"github.com/pthm-cable/foodchain/telemetry"
)

const controlsLegend = "[Space] Pause  [N] Step  [R] Reset  [</>] Speed  [Arrows/Right drag] Pan  [Wheel/+/-] Zoom  [Home] Fit  [P] Perf"

var perfPhases = []string{
	telemetry.PhaseAct,
	telemetry.PhaseCompact,
	telemetry.PhaseViews,
	telemetry.PhaseLoggers,
}

// App is the graphical front end of a run. Call Update and Draw once per
// frame inside an open raylib window.
type App struct {
	runner *game.Runner

	camera    *camera.Camera
	grid      *renderer.GridView
	hud       *HUD
	controls  *Controls
	perf      *PerfPanel
	inspector *Inspector

	screenW, screenH float32
	showPerf         bool
}

// NewApp builds the view stack for runner and registers the grid as a view.
func NewApp(runner *game.Runner) *App {
	cfg := runner.Config()
	field := runner.Simulator().Field()
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())

	a := &App{
		runner:    runner,
		camera:    camera.New(w, h, field.Depth(), field.Width(), float32(cfg.Screen.CellSize)),
		grid:      renderer.NewGridView(field.Depth(), field.Width(), cfg.Simulation.MinSpecies),
		hud:       NewHUD(),
		controls:  NewControls(w-240, 10),
		perf:      NewPerfPanel(int32(w)-210, 110),
		inspector: NewInspector(220),
		screenW:   w,
		screenH:   h,
	}
	runner.AddView(a.grid)
	a.grid.ShowStatus(runner.Simulator().Step(), field)
	return a
}

// Update processes input and advances the simulation for one frame.
func (a *App) Update() {
	a.handleInput()
	a.runner.Update()
}

func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.runner.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		if !a.runner.Paused() {
			a.runner.TogglePause()
		}
		a.runner.StepOnce()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.runner.Reset()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.showPerf = !a.showPerf
	}

	// Steps-per-frame control with < > keys (comma and period)
	spf := a.runner.StepsPerFrame()
	if rl.IsKeyPressed(rl.KeyComma) && spf > 1 {
		a.runner.SetStepsPerFrame(spf - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && spf < MaxStepsPerFrame {
		a.runner.SetStepsPerFrame(spf + 1)
	}

	a.handleCameraInput()
}

func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW = w
	a.screenH = h
	a.camera.Resize(w, h)
	a.controls.SetPosition(w-240, 10)
	a.perf.SetPosition(int32(w)-210, 110)
}

func (a *App) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / a.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Pan(0, -panSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		a.camera.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}

// Draw renders one frame.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	a.grid.Draw(a.camera)

	census := a.grid.Census()
	a.hud.Draw(HUDData{
		Title:         "Foodchain",
		Step:          a.grid.Step(),
		Counts:        census.Counts,
		StepsPerFrame: a.runner.StepsPerFrame(),
		FPS:           rl.GetFPS(),
		Seed:          a.runner.Seed(),
		Paused:        a.runner.Paused(),
		Done:          a.runner.Done(),
		Viable:        a.grid.IsViable(),
	})
	a.controls.Draw(a.runner)
	if a.showPerf {
		a.perf.Draw(a.runner.Perf().Stats(), perfPhases)
	}
	a.drawInspector()
	a.hud.DrawControls(int32(a.screenH), controlsLegend)

	rl.EndDrawing()
}

func (a *App) drawInspector() {
	mouse := rl.GetMousePosition()
	row, col, ok := a.camera.CellAt(mouse.X, mouse.Y)
	if !ok {
		return
	}
	animal := a.runner.Simulator().Field().At(components.Location{Row: row, Col: col})
	if animal == nil {
		return
	}
	a.inspector.Draw(int32(mouse.X), int32(mouse.Y), animal, a.runner.Collector().Tracker().Get(animal.ID()))
}
