package tui

import "github.com/1broseidon/termdesk/internal/wm"

// Grid maps terminal cells to canvas units.
type Grid struct {
	CellWidth  int
	CellHeight int
}

// DefaultGrid returns 10x20 canvas units per cell.
func DefaultGrid() Grid {
	return Grid{CellWidth: 10, CellHeight: 20}
}

func (g Grid) normalized() Grid {
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return DefaultGrid()
	}
	return g
}

// ToCanvas returns the canvas point at the centre of cell (col, row).
func (g Grid) ToCanvas(col, row int) wm.Point {
	return wm.Point{
		X: col*g.CellWidth + g.CellWidth/2,
		Y: row*g.CellHeight + g.CellHeight/2,
	}
}

// Cells returns the cell-space origin and extent covering r.
func (g Grid) Cells(r wm.Rect) (col, row, width, height int) {
	col = floorDiv(r.X, g.CellWidth)
	row = floorDiv(r.Y, g.CellHeight)
	width = ceilDiv(r.Width, g.CellWidth)
	height = ceilDiv(r.Height, g.CellHeight)
	return col, row, width, height
}

// Cols converts a horizontal canvas length to whole cells, rounding up.
func (g Grid) Cols(units int) int {
	return ceilDiv(units, g.CellWidth)
}

// Rows converts a vertical canvas length to whole cells, rounding up.
func (g Grid) Rows(units int) int {
	return ceilDiv(units, g.CellHeight)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
