package wm

import "errors"

// ErrWindowNotFound is returned by lookups that need an open window.
// Mutations on a missing id never return it; they are no-ops.
var ErrWindowNotFound = errors.New("window not found")

// Point is a position in canvas units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in canvas units.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect describes a rectangular region in canvas units
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Window is a single open window instance.
type Window struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  any    `json:"-"`
	Z        int    `json:"z"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
}

// Frame returns the window's bounding rectangle.
func (w Window) Frame() Rect {
	return Rect{X: w.Position.X, Y: w.Position.Y, Width: w.Size.Width, Height: w.Size.Height}
}

// Defaults holds the geometry assigned to newly opened windows.
type Defaults struct {
	Position Point
	Size     Size
}

// DefaultGeometry matches the stock desktop: 420x300 at (100,80).
func DefaultGeometry() Defaults {
	return Defaults{
		Position: Point{X: 100, Y: 80},
		Size:     Size{Width: 420, Height: 300},
	}
}
