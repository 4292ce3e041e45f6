package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/renderer"
	"github.com/pthm-cable/foodchain/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Step          int
	Counts        [components.NumKinds]int
	StepsPerFrame int
	FPS           int32
	Seed          int64
	Paused        bool
	Done          bool
	Viable        bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	r.DrawPanel(0, 0, 260, 112)

	rl.DrawText(data.Title, 10, 8, 20, rl.White)

	y := int32(34)
	for _, k := range components.Kinds {
		y = r.DrawSwatchValue(10, y, renderer.KindColors[k], k.Name(), fmt.Sprint(data.Counts[k]))
	}

	rl.DrawText(
		fmt.Sprintf("Step: %d | Speed: %dx | FPS: %d", data.Step, data.StepsPerFrame, data.FPS),
		10, y+2, 12, rl.LightGray,
	)
	y += 16

	status := "Running"
	switch {
	case !data.Viable:
		status = "Not viable"
	case data.Done:
		status = "Finished"
	case data.Paused:
		status = "PAUSED"
	}
	rl.DrawText(fmt.Sprintf("%s | seed %d", status, data.Seed), 10, y+2, 12, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders step timing by phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	r := p.renderer
	height := int32(len(phases)+2)*14 + 2*r.Theme.Padding
	r.DrawPanel(p.x, p.y, 200, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Step Performance", x, y, 14, rl.White)
	y += 16
	rl.DrawText(fmt.Sprintf("Avg: %s", stats.AvgStepDuration.Round(time.Microsecond)), x, y, 12, rl.Yellow)
	y += 14

	for _, phase := range phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %5.1f%%", phase, pct), x, y, 12, color)
		y += 14
	}
}
