package stats

// brailleBits[y][x] is the dot bit for position (x, y) inside a cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func braille(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

// canvas is a grid of braille cells addressed in dots.
type canvas struct {
	cols, rows int
	cells      []uint8
}

func newCanvas(cols, rows int) *canvas {
	return &canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

func (c *canvas) set(x, y int) {
	col, row := x/2, y/4
	if x < 0 || y < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] |= brailleBits[y%4][x%2]
}

func (c *canvas) cell(col, row int) uint8 {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0
	}
	return c.cells[row*c.cols+col]
}

// line connects two dots, keeping only the dots the stroke draws.
func (c *canvas) line(x0, y0, x1, y1 int, s stroke) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		if s.draws(x0) {
			c.set(x0, y0)
		}
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + roundDiv(dx*i, steps)
		y := y0 + roundDiv(dy*i, steps)
		if s.draws(x) {
			c.set(x, y)
		}
	}
}

// trace plots one value per cell column, joined by lines.
func (c *canvas) trace(values []float64, r Range, s stroke) {
	dots := c.rows * 4
	prevX, prevY := -1, 0
	for i, v := range values {
		x, y := i*2, r.row(v, dots)
		if prevX < 0 {
			c.line(x, y, x, y, s)
		} else {
			c.line(prevX, prevY, x, y, s)
		}
		prevX, prevY = x, y
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// roundDiv divides rounding half away from zero.
func roundDiv(a, b int) int {
	if (a < 0) != (b < 0) {
		return (a - b/2) / b
	}
	return (a + b/2) / b
}
