package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/wm"
)

// Desktop icon column layout, in cells.
const (
	iconCol   = 1
	iconWidth = 12
	iconTop   = 1
	iconPitch = 3
)

const (
	taskbarLabel = " termdesk │"
	taskWidth    = 18
)

// scene is everything needed to paint one frame.
type scene struct {
	width   int
	height  int
	grid    Grid
	chrome  desktop.Chrome
	icons   []docs.Document
	windows []wm.Window // open order, for the taskbar
	stack   []wm.Window // paint order
}

func compose(s scene) *canvas {
	c := newCanvas(s.width, s.height)

	for i, d := range s.icons {
		row := iconTop + i*iconPitch
		c.text(iconCol, row, iconWidth, "["+d.Kind.Icon()+"]", styleIcon)
		c.text(iconCol, row+1, iconWidth, d.Name, styleIcon)
	}

	topID := ""
	if n := len(s.stack); n > 0 {
		topID = s.stack[n-1].ID
	}
	for _, w := range s.stack {
		drawWindow(c, s, w, w.ID == topID)
	}

	drawTaskbar(c, s.windows, topID)
	return c
}

func drawWindow(c *canvas, s scene, w wm.Window, focused bool) {
	col, row, width, height := s.grid.Cells(w.Frame())
	titleRows := max(1, s.grid.Rows(s.chrome.TitlebarHeight))
	closeCols := max(1, s.grid.Cols(s.chrome.CloseButtonWidth))
	if width < closeCols+2 || height <= titleRows {
		return
	}

	titleStyle := styleTitle
	if focused {
		titleStyle = styleTitleFocused
	}
	c.fill(col, row, width, titleRows, titleStyle)
	c.text(col+1, row, width-closeCols-2, w.Title, titleStyle)
	c.fill(col+width-closeCols, row, closeCols, titleRows, styleClose)
	c.set(col+width-closeCols+closeCols/2, row, '×', styleClose)

	bodyTop := row + titleRows
	bottom := row + height - 1
	c.fill(col, bodyTop, width, height-titleRows, styleBody)
	for r := bodyTop; r < bottom; r++ {
		c.set(col, r, '│', styleFrame)
		c.set(col+width-1, r, '│', styleFrame)
	}
	c.set(col, bottom, '└', styleFrame)
	for cl := col + 1; cl < col+width-1; cl++ {
		c.set(cl, bottom, '─', styleFrame)
	}
	c.set(col+width-1, bottom, '┘', styleFrame)

	for i, line := range contentLines(w.Content) {
		r := bodyTop + i
		if r >= bottom {
			break
		}
		c.text(col+1, r, width-2, line, styleBody)
	}
}

func drawTaskbar(c *canvas, windows []wm.Window, topID string) {
	row := c.height - 1
	if row < 0 {
		return
	}
	c.fill(0, row, c.width, 1, styleTaskbar)
	c.text(0, row, c.width, taskbarLabel, styleTaskbar)
	for i, span := range taskSpans(windows, c.width) {
		st := styleTaskbar
		if span.id == topID {
			st = styleTaskActive
		}
		c.fill(span.start, row, span.end-span.start, 1, st)
		c.text(span.start+1, row, span.end-span.start-2, windows[i].Title, st)
	}
}

// contentLines renders a window's opaque content as text lines.
func contentLines(content any) []string {
	switch v := content.(type) {
	case nil:
		return nil
	case docs.Document:
		return strings.Split(v.Content, "\n")
	case desktop.FileManager:
		lines := make([]string, 0, len(v.Documents))
		for _, d := range v.Documents {
			lines = append(lines, d.Kind.Icon()+" "+d.Name)
		}
		return lines
	case string:
		return strings.Split(v, "\n")
	default:
		return strings.Split(fmt.Sprint(v), "\n")
	}
}

// iconAt returns the index of the desktop icon drawn at (col, row).
func iconAt(col, row, count int) (int, bool) {
	if col < iconCol || col >= iconCol+iconWidth || row < iconTop {
		return 0, false
	}
	i := (row - iconTop) / iconPitch
	if (row-iconTop)%iconPitch == iconPitch-1 || i >= count {
		return 0, false
	}
	return i, true
}

type taskSpan struct {
	id    string
	start int
	end   int
}

// taskSpans lays out one taskbar button per window, left to right.
// Buttons that do not fit are dropped.
func taskSpans(windows []wm.Window, width int) []taskSpan {
	col := runewidth.StringWidth(taskbarLabel)
	spans := make([]taskSpan, 0, len(windows))
	for _, win := range windows {
		w := min(taskWidth, width-col)
		if w < 4 {
			break
		}
		spans = append(spans, taskSpan{id: win.ID, start: col, end: col + w})
		col += w + 1
	}
	return spans
}

func taskAt(spans []taskSpan, col int) (string, bool) {
	for _, s := range spans {
		if col >= s.start && col < s.end {
			return s.id, true
		}
	}
	return "", false
}

// bodyLine returns the content line index under row for window w, or -1.
func bodyLine(g Grid, chrome desktop.Chrome, w wm.Window, row int) int {
	_, top, _, height := g.Cells(w.Frame())
	titleRows := max(1, g.Rows(chrome.TitlebarHeight))
	line := row - top - titleRows
	if line < 0 || row >= top+height-1 {
		return -1
	}
	return line
}
