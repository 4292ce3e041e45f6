// Package camera provides a 2D camera for viewing the grid.
package camera

import "math"

// Camera controls the viewport into the grid. World coordinates are pixels
// at zoom 1, so a cell spans CellSize world units.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions
	Rows, Cols int
	CellSize   float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on a rows x cols grid at 1:1 zoom.
func New(viewportW, viewportH float32, rows, cols int, cellSize float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		Rows:      rows,
		Cols:      cols,
		CellSize:  cellSize,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// WorldW returns the grid width in world units.
func (c *Camera) WorldW() float32 { return float32(c.Cols) * c.CellSize }

// WorldH returns the grid height in world units.
func (c *Camera) WorldH() float32 { return float32(c.Rows) * c.CellSize }

// fitZoom is the zoom at which the whole grid fits in the viewport.
func (c *Camera) fitZoom() float32 {
	z := c.ViewportW / c.WorldW()
	if zy := c.ViewportH / c.WorldH(); zy < z {
		z = zy
	}
	if z > 1 {
		z = 1
	}
	return z
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// CellAt returns the grid cell under a screen position, and false when the
// position is off the grid.
func (c *Camera) CellAt(sx, sy float32) (row, col int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	if wx < 0 || wy < 0 {
		return 0, 0, false
	}
	row = int(wy / c.CellSize)
	col = int(wx / c.CellSize)
	if row >= c.Rows || col >= c.Cols {
		return 0, 0, false
	}
	return row, col, true
}

// CellRect returns the screen rectangle of a cell.
func (c *Camera) CellRect(row, col int) (x, y, size float32) {
	x, y = c.WorldToScreen(float32(col)*c.CellSize, float32(row)*c.CellSize)
	return x, y, c.CellSize * c.Zoom
}

// VisibleCells returns the half-open row and column ranges on screen.
func (c *Camera) VisibleCells() (row0, row1, col0, col1 int) {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	row0 = clampInt(int(math.Floor(float64(minY/c.CellSize))), 0, c.Rows)
	row1 = clampInt(int(math.Ceil(float64(maxY/c.CellSize))), 0, c.Rows)
	col0 = clampInt(int(math.Floor(float64(minX/c.CellSize))), 0, c.Cols)
	col1 = clampInt(int(math.Ceil(float64(maxX/c.CellSize))), 0, c.Cols)
	return row0, row1, col0, col1
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center stays
// on the grid.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.WorldW())
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.WorldH())
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the grid and zooms to fit it.
func (c *Camera) Reset() {
	c.X = c.WorldW() / 2
	c.Y = c.WorldH() / 2
	c.Zoom = c.MinZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

func clampInt(x, lo, hi int) int {
	return max(lo, min(x, hi))
}
