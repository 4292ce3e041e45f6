package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodchain/renderer"
	"github.com/pthm-cable/foodchain/systems"
	"github.com/pthm-cable/foodchain/telemetry"
)

// Inspector renders the details of the animal under the mouse.
type Inspector struct {
	renderer *Renderer
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(width int32) *Inspector {
	return &Inspector{renderer: NewRenderer(), width: width}
}

// Draw renders the panel for a next to the mouse. The lifetime record is
// optional.
func (ins *Inspector) Draw(mouseX, mouseY int32, a *systems.Animal, life *telemetry.Lifetime) {
	if a == nil {
		return
	}
	r := ins.renderer
	padding := r.Theme.Padding
	traits := a.Traits()

	lines := int32(5)
	if traits.Starves {
		lines++
	}
	if life != nil {
		lines += 2
	}
	height := lines*r.Theme.LineHeight + 2*padding + 4

	x := min(mouseX+16, int32(rl.GetScreenWidth())-ins.width)
	y := min(mouseY+16, int32(rl.GetScreenHeight())-height)
	r.DrawPanel(x, y, ins.width, height)

	cx := x + padding
	cy := y + padding
	contentW := ins.width - 2*padding

	rl.DrawRectangle(cx, cy+2, 10, 10, renderer.KindColors[a.Kind()])
	cy = r.DrawSectionHeader(cx+16, cy, fmt.Sprintf("%s #%d", a.Kind().Name(), a.ID()))

	cy = r.DrawLabelValue(cx, cy, "Location", a.Location().String())
	cy = r.DrawLevelBar(cx, cy, "Age", a.Age(), a.MaxAge(), contentW)
	if traits.Starves {
		cy = r.DrawLevelBar(cx, cy, "Food", a.FoodLevel(), traits.FullFood, contentW)
	}
	cy = r.DrawLabelValue(cx, cy, "Speed", fmt.Sprintf("%d / %d", a.MaxSpeed(), traits.MaxSpeed))
	cy = r.DrawLabelValue(cx, cy, "Generation", fmt.Sprint(a.Generation()))
	if life != nil {
		cy = r.DrawLabelValue(cx, cy, "Born", fmt.Sprintf("step %d", life.BirthStep))
		r.DrawLabelValue(cx, cy, "Kills/Kids", fmt.Sprintf("%d / %d", life.Kills, life.Children))
	}
}
