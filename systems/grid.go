package systems

import "math"

// Grid is the sampling lattice derived from canvas size and scale.
type Grid struct {
	Cols, Rows    int
	Width, Height float64
	Scale         float64
}

// NewGrid computes the lattice for a canvas. A non-positive scale yields a
// single sample at the canvas center.
func NewGrid(width, height, scale float64) Grid {
	g := Grid{Width: width, Height: height, Scale: scale, Cols: 1, Rows: 1}
	if scale > 0 {
		g.Cols = max(int(math.Ceil(width/scale)), 1)
		g.Rows = max(int(math.Ceil(height/scale)), 1)
	}
	return g
}

// Cells returns the number of grid cells.
func (g Grid) Cells() int {
	return g.Cols * g.Rows
}

// SampleX returns the canvas x of column i. Columns are spread edge to edge.
func (g Grid) SampleX(i int) float64 {
	return sample(i, g.Cols, g.Width)
}

// SampleY returns the canvas y of row j.
func (g Grid) SampleY(j int) float64 {
	return sample(j, g.Rows, g.Height)
}

func sample(i, count int, dim float64) float64 {
	if count <= 1 {
		return dim / 2
	}
	step := dim / float64(count-1)
	return clamp(float64(i)*step, 0, dim-1)
}

// Index returns the row-major cell index for a canvas position, or -1 when the
// computed index falls outside the field. Columns past the right edge spill
// into the next row, matching how the field is looked up by particles.
func (g Grid) Index(x, y float64) int {
	if g.Scale <= 0 {
		return -1
	}
	col := int(math.Floor(x / g.Scale))
	row := int(math.Floor(y / g.Scale))
	idx := col + row*g.Cols
	if idx < 0 || idx >= g.Cells() {
		return -1
	}
	return idx
}

// SameShape reports whether two grids have identical dimensions.
func (g Grid) SameShape(o Grid) bool {
	return g.Cols == o.Cols && g.Rows == o.Rows
}
