package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type cellStyle int

const (
	styleDesktop cellStyle = iota
	styleIcon
	styleFrame
	styleTitle
	styleTitleFocused
	styleClose
	styleBody
	styleTaskbar
	styleTaskActive
)

// cell is one terminal column. cont marks the right half of a wide rune.
type cell struct {
	r     rune
	style cellStyle
	cont  bool
}

// canvas is an off-screen cell buffer painted back to front.
type canvas struct {
	width  int
	height int
	cells  [][]cell
}

func newCanvas(width, height int) *canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &canvas{width: width, height: height, cells: make([][]cell, height)}
	for row := range c.cells {
		c.cells[row] = make([]cell, width)
		for col := range c.cells[row] {
			c.cells[row][col] = cell{r: ' ', style: styleDesktop}
		}
	}
	return c
}

func (c *canvas) inside(col, row int) bool {
	return col >= 0 && col < c.width && row >= 0 && row < c.height
}

func (c *canvas) set(col, row int, r rune, st cellStyle) {
	if !c.inside(col, row) {
		return
	}
	line := c.cells[row]
	// Never leave half of a wide rune behind.
	if line[col].cont && col > 0 {
		line[col-1].r = ' '
	}
	if col+1 < c.width && line[col+1].cont {
		line[col+1] = cell{r: ' ', style: line[col+1].style}
	}
	line[col] = cell{r: r, style: st}
}

func (c *canvas) fill(col, row, width, height int, st cellStyle) {
	for r := row; r < row+height; r++ {
		for cl := col; cl < col+width; cl++ {
			c.set(cl, r, ' ', st)
		}
	}
}

// text writes s at (col, row), truncated to maxWidth columns.
func (c *canvas) text(col, row, maxWidth int, s string, st cellStyle) {
	if maxWidth <= 0 {
		return
	}
	s = runewidth.Truncate(s, maxWidth, "…")
	for _, r := range s {
		switch runewidth.RuneWidth(r) {
		case 0:
			continue
		case 2:
			c.set(col+1, row, ' ', st)
			c.set(col, row, r, st)
			if c.inside(col+1, row) {
				c.cells[row][col+1].cont = true
			}
			col += 2
		default:
			c.set(col, row, r, st)
			col++
		}
	}
}

// line returns row as plain text.
func (c *canvas) line(row int) string {
	if row < 0 || row >= c.height {
		return ""
	}
	var b strings.Builder
	for _, cl := range c.cells[row] {
		if cl.cont {
			continue
		}
		b.WriteRune(cl.r)
	}
	return b.String()
}

// render paints the buffer with one lipgloss style per run of equal cells.
func (c *canvas) render(styles map[cellStyle]lipgloss.Style) string {
	rows := make([]string, 0, c.height)
	for _, line := range c.cells {
		var b strings.Builder
		var run strings.Builder
		current := styleDesktop
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styles[current].Render(run.String()))
			run.Reset()
		}
		for col, cl := range line {
			if cl.cont {
				continue
			}
			if col > 0 && cl.style != current {
				flush()
			}
			current = cl.style
			run.WriteRune(cl.r)
		}
		flush()
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func defaultStyles() map[cellStyle]lipgloss.Style {
	return map[cellStyle]lipgloss.Style{
		styleDesktop:      lipgloss.NewStyle().Background(lipgloss.Color("24")),
		styleIcon:         lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("15")),
		styleFrame:        lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("245")),
		styleTitle:        lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("252")),
		styleTitleFocused: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
		styleClose:        lipgloss.NewStyle().Background(lipgloss.Color("160")).Foreground(lipgloss.Color("15")).Bold(true),
		styleBody:         lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("252")),
		styleTaskbar:      lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
		styleTaskActive:   lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	}
}
