package systems

import "testing"

func TestNewGrid_CeilCoversEdges(t *testing.T) {
	tests := []struct {
		w, h, scale float64
		cols, rows  int
	}{
		{400, 400, 20, 20, 20},
		{410, 395, 20, 21, 20},
		{800, 600, 50, 16, 12},
		{5, 5, 10, 1, 1},
		{100, 100, 0, 1, 1},
	}
	for _, tc := range tests {
		g := NewGrid(tc.w, tc.h, tc.scale)
		if g.Cols != tc.cols || g.Rows != tc.rows {
			t.Errorf("NewGrid(%v, %v, %v) = %dx%d, want %dx%d", tc.w, tc.h, tc.scale, g.Cols, g.Rows, tc.cols, tc.rows)
		}
	}
}

func TestGridSample_SpansCanvas(t *testing.T) {
	g := NewGrid(400, 400, 20)

	if got := g.SampleX(0); got != 0 {
		t.Errorf("first column at %v, want 0", got)
	}
	// Last column lands on the far edge and is clamped inside the canvas.
	if got := g.SampleX(g.Cols - 1); got != 399 {
		t.Errorf("last column at %v, want 399", got)
	}
	prev := -1.0
	for i := 0; i < g.Cols; i++ {
		x := g.SampleX(i)
		if x < 0 || x > 399 {
			t.Fatalf("column %d at %v outside canvas", i, x)
		}
		if x <= prev {
			t.Fatalf("column %d at %v not increasing (prev %v)", i, x, prev)
		}
		prev = x
	}
}

func TestGridSample_SingleCellUsesMidpoint(t *testing.T) {
	g := NewGrid(8, 6, 10)
	if g.Cols != 1 || g.Rows != 1 {
		t.Fatalf("expected 1x1 grid, got %dx%d", g.Cols, g.Rows)
	}
	if x, y := g.SampleX(0), g.SampleY(0); x != 4 || y != 3 {
		t.Errorf("single cell sampled at (%v, %v), want (4, 3)", x, y)
	}
}

func TestGridIndex(t *testing.T) {
	g := NewGrid(100, 100, 20) // 5x5

	tests := []struct {
		x, y float64
		want int
	}{
		{0, 0, 0},
		{19.9, 0, 0},
		{20, 0, 1},
		{0, 20, 5},
		{99, 99, 24},
		{100, 99, -1}, // spills past the last cell
		{-1, -1, -1},
		{0, 100, -1},
	}
	for _, tc := range tests {
		if got := g.Index(tc.x, tc.y); got != tc.want {
			t.Errorf("Index(%v, %v) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}
