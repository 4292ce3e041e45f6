// Package renderer draws the simulation field with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodchain/camera"
	"github.com/pthm-cable/foodchain/components"
	"github.com/pthm-cable/foodchain/systems"
	"github.com/pthm-cable/foodchain/telemetry"
)

// empty marks an unoccupied cell in the snapshot.
const empty int8 = -1

// Colors per kind.
var (
	EmptyColor = rl.RayWhite
	GridColor  = rl.Color{R: 200, G: 200, B: 200, A: 255}
	KindColors = [components.NumKinds]rl.Color{
		components.KindPrey:         rl.Gray,
		components.KindMidPredator:  rl.Orange,
		components.KindApexPredator: rl.Blue,
	}
)

// GridView keeps a snapshot of the field taken on every status update and
// paints it through a camera.
type GridView struct {
	depth, width int
	cells        []int8
	step         int
	census       telemetry.Census
	minSpecies   int
}

// NewGridView creates a view for a depth x width field. The field counts as
// viable while at least minSpecies kinds are present.
func NewGridView(depth, width, minSpecies int) *GridView {
	g := &GridView{
		depth:      depth,
		width:      width,
		cells:      make([]int8, depth*width),
		minSpecies: minSpecies,
	}
	for i := range g.cells {
		g.cells[i] = empty
	}
	return g
}

// ShowStatus snapshots the kind held by every cell.
func (g *GridView) ShowStatus(step int, field *systems.Field) {
	if field.Depth() != g.depth || field.Width() != g.width {
		g.depth, g.width = field.Depth(), field.Width()
		g.cells = make([]int8, g.depth*g.width)
	}
	for i := range g.cells {
		g.cells[i] = empty
	}
	field.Each(func(loc components.Location, a *systems.Animal) {
		g.cells[loc.Row*g.width+loc.Col] = int8(a.Kind())
	})
	g.step = step
	g.census = telemetry.CountField(field)
}

// IsViable reports whether the last snapshot still holds enough species.
func (g *GridView) IsViable() bool {
	return g.census.Viable(g.minSpecies)
}

// KindAt returns the kind in a cell of the last snapshot.
func (g *GridView) KindAt(row, col int) (components.Kind, bool) {
	if row < 0 || row >= g.depth || col < 0 || col >= g.width {
		return 0, false
	}
	v := g.cells[row*g.width+col]
	if v == empty {
		return 0, false
	}
	return components.Kind(v), true
}

// Step returns the step of the last snapshot.
func (g *GridView) Step() int { return g.step }

// Census returns the counts of the last snapshot.
func (g *GridView) Census() telemetry.Census { return g.census }

// Draw paints the visible cells.
func (g *GridView) Draw(cam *camera.Camera) {
	x0, y0 := cam.WorldToScreen(0, 0)
	rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0},
		rl.Vector2{X: cam.WorldW() * cam.Zoom, Y: cam.WorldH() * cam.Zoom}, EmptyColor)

	row0, row1, col0, col1 := cam.VisibleCells()
	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			kind, ok := g.KindAt(row, col)
			if !ok {
				continue
			}
			x, y, size := cam.CellRect(row, col)
			rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: size, Y: size}, KindColors[kind])
		}
	}

	rl.DrawRectangleLinesEx(rl.Rectangle{
		X: x0, Y: y0,
		Width:  cam.WorldW() * cam.Zoom,
		Height: cam.WorldH() * cam.Zoom,
	}, 1, GridColor)
}
