package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxStepsPerFrame is the top of the speed slider.
const MaxStepsPerFrame = 20

// Controller is the run state the controls drive. *game.Runner satisfies it.
type Controller interface {
	TogglePause() bool
	Paused() bool
	StepOnce()
	Reset()
	StepsPerFrame() int
	SetStepsPerFrame(n int)
}

// Controls renders the pause, step and reset buttons and the speed slider.
type Controls struct {
	renderer *Renderer
	x, y     float32
}

// NewControls creates a controls panel with its top-left corner at (x, y).
func NewControls(x, y float32) *Controls {
	return &Controls{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition moves the panel.
func (c *Controls) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Draw renders the controls and applies any clicks to ctl.
func (c *Controls) Draw(ctl Controller) {
	const (
		buttonW = 70
		buttonH = 24
		gap     = 6
	)
	padding := float32(c.renderer.Theme.Padding)
	width := int32(3*buttonW + 2*gap + 2*padding)
	c.renderer.DrawPanel(int32(c.x), int32(c.y), width, int32(2*buttonH+3*gap+2*padding))

	x := c.x + padding
	y := c.y + padding

	pauseLabel := "Pause"
	if ctl.Paused() {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: buttonW, Height: buttonH}, pauseLabel) {
		ctl.TogglePause()
	}
	if gui.Button(rl.Rectangle{X: x + buttonW + gap, Y: y, Width: buttonW, Height: buttonH}, "Step") {
		if !ctl.Paused() {
			ctl.TogglePause()
		}
		ctl.StepOnce()
	}
	if gui.Button(rl.Rectangle{X: x + 2*(buttonW+gap), Y: y, Width: buttonW, Height: buttonH}, "Reset") {
		ctl.Reset()
	}

	y += buttonH + 2*gap
	current := float32(ctl.StepsPerFrame())
	next := gui.SliderBar(
		rl.Rectangle{X: x + 30, Y: y, Width: 3*buttonW + 2*gap - 70, Height: buttonH - 6},
		"1", fmt.Sprint(MaxStepsPerFrame),
		current, 1, MaxStepsPerFrame,
	)
	if int(next) != int(current) {
		ctl.SetStepsPerFrame(int(next))
	}
	rl.DrawText(fmt.Sprintf("%dx", ctl.StepsPerFrame()), int32(x+3*buttonW+2*gap-30), int32(y+2), c.renderer.Theme.FontSize, c.renderer.Theme.ValueColor)
}
