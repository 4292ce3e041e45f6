package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	// 100x300 grid of 5px cells = 1500x500 world
	cam := New(1500, 560, 100, 300, 5)

	if cam.X != 750 || cam.Y != 250 {
		t.Errorf("expected camera at (750, 250), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0 when the grid fits, got %f", cam.Zoom)
	}
}

func TestFitZoomForLargeGrid(t *testing.T) {
	// 2000x1000 world in an 800x600 viewport
	cam := New(800, 600, 200, 400, 5)

	// min(800/2000, 600/1000) = 0.4
	if !near(cam.MinZoom, 0.4) {
		t.Errorf("expected MinZoom 0.4, got %f", cam.MinZoom)
	}
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected initial zoom to fit the grid, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 100, 100, 10)

	sx, sy := cam.WorldToScreen(cam.X, cam.Y)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 100, 100, 10)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	// 10x20 grid of 10px cells = 200x100 world, centered in a 200x100 viewport
	cam := New(200, 100, 10, 20, 10)

	tests := []struct {
		name     string
		sx, sy   float32
		row, col int
		ok       bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"inside first cell", 9.5, 9.5, 0, 0, true},
		{"second row", 5, 15, 1, 0, true},
		{"last cell", 199, 99, 9, 19, true},
		{"left of grid", -1, 50, 0, 0, false},
		{"below grid", 50, 100, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := cam.CellAt(tt.sx, tt.sy)
			if ok != tt.ok || (ok && (row != tt.row || col != tt.col)) {
				t.Errorf("CellAt(%v, %v) = (%d, %d, %v), want (%d, %d, %v)",
					tt.sx, tt.sy, row, col, ok, tt.row, tt.col, tt.ok)
			}
		})
	}
}

func TestCellRect(t *testing.T) {
	cam := New(200, 100, 10, 20, 10)
	x, y, size := cam.CellRect(2, 3)
	if !near(x, 30) || !near(y, 20) || !near(size, 10) {
		t.Errorf("CellRect(2, 3) = (%f, %f, %f), want (30, 20, 10)", x, y, size)
	}

	cam.SetZoom(2)
	_, _, size = cam.CellRect(0, 0)
	if !near(size, 20) {
		t.Errorf("cell size at zoom 2 = %f, want 20", size)
	}
}

func TestVisibleCells(t *testing.T) {
	cam := New(200, 100, 10, 20, 10)
	row0, row1, col0, col1 := cam.VisibleCells()
	if row0 != 0 || row1 != 10 || col0 != 0 || col1 != 20 {
		t.Errorf("full view = rows [%d,%d) cols [%d,%d)", row0, row1, col0, col1)
	}

	// At zoom 2 the view covers 100x50 world units around the center
	cam.SetZoom(2)
	row0, row1, col0, col1 = cam.VisibleCells()
	if row0 != 2 || row1 != 8 || col0 != 5 || col1 != 15 {
		t.Errorf("zoomed view = rows [%d,%d) cols [%d,%d), want [2,8) [5,15)", row0, row1, col0, col1)
	}
}

func TestPanStaysOnGrid(t *testing.T) {
	cam := New(200, 100, 10, 20, 10)

	cam.Pan(-1000, 0)
	if cam.X != 0 {
		t.Errorf("expected X clamped to 0, got %f", cam.X)
	}
	cam.Pan(0, 5000)
	if cam.Y != cam.WorldH() {
		t.Errorf("expected Y clamped to %f, got %f", cam.WorldH(), cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, 200, 400, 5)

	cam.SetZoom(0.1)
	if !near(cam.Zoom, 0.4) {
		t.Errorf("expected zoom clamped to 0.4, got %f", cam.Zoom)
	}

	cam.SetZoom(20)
	if cam.Zoom != 8 {
		t.Errorf("expected zoom clamped to 8, got %f", cam.Zoom)
	}
}

func TestResizeRaisesZoom(t *testing.T) {
	cam := New(800, 600, 200, 400, 5)
	cam.Resize(1600, 1200)
	if !near(cam.MinZoom, 0.8) || cam.Zoom < cam.MinZoom {
		t.Errorf("after resize MinZoom=%f Zoom=%f", cam.MinZoom, cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(200, 100, 10, 20, 10)
	cam.X = 5
	cam.Y = 5
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 100 || cam.Y != 50 {
		t.Errorf("expected position (100, 50), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
