// Package drag turns pointer-down/move/up sequences on a window titlebar
// into position updates for that window.
package drag

import (
	"errors"
	"fmt"

	"github.com/1broseidon/termdesk/internal/wm"
)

// ErrNotDragging is returned when Continue or End is called with no active
// drag.
var ErrNotDragging = errors.New("no drag in progress")

// Target is the window store a drag operates on. *wm.Registry implements it.
type Target interface {
	Position(id string) (wm.Point, bool)
	Raise(id string)
	SetPosition(id string, p wm.Point)
}

// MoveResult describes a single position update produced by a drag.
type MoveResult struct {
	WindowID string
	Position wm.Point
}

// OnMoveFunc is called after each position update.
type OnMoveFunc func(result MoveResult)

// Controller is the drag state machine. Only one window is dragged at a time.
type Controller struct {
	target Target
	state  *State
	bounds *wm.Rect

	// OnMove is called after every Continue that produced a position.
	OnMove OnMoveFunc
}

// NewController creates an idle controller over target.
func NewController(target Target) *Controller {
	return &Controller{
		target: target,
		state:  NewState(),
	}
}

// SetBounds clamps dragged window origins to r. A nil r disables clamping.
func (c *Controller) SetBounds(r *wm.Rect) {
	c.bounds = r
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.state.Phase
}

// Active reports whether a drag is in progress.
func (c *Controller) Active() bool {
	return c.state.Phase == PhaseDragging
}

// WindowID returns the window being dragged, or "" when idle.
func (c *Controller) WindowID() string {
	return c.state.WindowID
}

// Offset returns the pointer offset captured at drag start.
func (c *Controller) Offset() wm.Point {
	return c.state.Offset
}

// Begin starts dragging id with the pointer at p. Starting a drag raises the
// window. A drag already in progress is ended first.
func (c *Controller) Begin(id string, p wm.Point) error {
	if c.state.Phase == PhaseDragging {
		c.state.Reset()
	}

	pos, ok := c.target.Position(id)
	if !ok {
		return fmt.Errorf("begin drag %s: %w", id, wm.ErrWindowNotFound)
	}

	c.target.Raise(id)
	c.state.Phase = PhaseDragging
	c.state.WindowID = id
	c.state.Offset = p.Sub(pos)
	return nil
}

// Continue moves the dragged window so the pointer keeps its original offset
// and returns the new origin. If the window was closed mid-drag the update is
// dropped by the target and the drag stays active until End.
func (c *Controller) Continue(p wm.Point) (wm.Point, error) {
	if c.state.Phase != PhaseDragging {
		return wm.Point{}, ErrNotDragging
	}

	pos := c.clamp(p.Sub(c.state.Offset))
	c.target.SetPosition(c.state.WindowID, pos)

	if c.OnMove != nil {
		c.OnMove(MoveResult{WindowID: c.state.WindowID, Position: pos})
	}
	return pos, nil
}

// End finishes the drag. The pointer may be released anywhere.
func (c *Controller) End() error {
	if c.state.Phase != PhaseDragging {
		return ErrNotDragging
	}
	c.state.Reset()
	return nil
}

func (c *Controller) clamp(p wm.Point) wm.Point {
	if c.bounds == nil {
		return p
	}
	b := c.bounds
	p.X = clampInt(p.X, b.X, b.X+b.Width-1)
	p.Y = clampInt(p.Y, b.Y, b.Y+b.Height-1)
	return p
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
