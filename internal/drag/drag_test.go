package drag

import (
	"errors"
	"testing"

	"github.com/1broseidon/termdesk/internal/wm"
)

func newRegistry() *wm.Registry {
	return wm.NewRegistry(wm.DefaultGeometry())
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhaseIdle, "idle"},
		{PhaseDragging, "dragging"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestContinue_PreservesOffset(t *testing.T) {
	reg := newRegistry()
	id := reg.Open("A", nil)
	reg.SetPosition(id, wm.Point{X: 10, Y: 10})

	c := NewController(reg)
	if err := c.Begin(id, wm.Point{X: 15, Y: 15}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if got := c.Offset(); got != (wm.Point{X: 5, Y: 5}) {
		t.Errorf("Offset() = %+v, want (5,5)", got)
	}

	pos, err := c.Continue(wm.Point{X: 100, Y: 100})
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if pos != (wm.Point{X: 95, Y: 95}) {
		t.Errorf("Continue returned %+v, want (95,95)", pos)
	}
	if got, _ := reg.Position(id); got != (wm.Point{X: 95, Y: 95}) {
		t.Errorf("window position = %+v, want (95,95)", got)
	}
}

func TestBegin_RaisesWindow(t *testing.T) {
	reg := newRegistry()
	a := reg.Open("A", nil)
	b := reg.Open("B", nil)

	c := NewController(reg)
	if err := c.Begin(a, wm.Point{X: 110, Y: 85}); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	wa, _ := reg.Get(a)
	wb, _ := reg.Get(b)
	if wa.Z <= wb.Z {
		t.Errorf("A.Z = %d, B.Z = %d; want A strictly above B after drag start", wa.Z, wb.Z)
	}
	if c.Phase() != PhaseDragging || c.WindowID() != a {
		t.Errorf("state = (%v, %q), want (dragging, %q)", c.Phase(), c.WindowID(), a)
	}
}

func TestBegin_MissingWindow(t *testing.T) {
	c := NewController(newRegistry())

	err := c.Begin("nope", wm.Point{})
	if !errors.Is(err, wm.ErrWindowNotFound) {
		t.Fatalf("Begin(missing) error = %v, want ErrWindowNotFound", err)
	}
	if c.Active() {
		t.Error("controller active after failed Begin")
	}
}

func TestContinueAndEnd_RequireActiveDrag(t *testing.T) {
	c := NewController(newRegistry())

	if _, err := c.Continue(wm.Point{X: 1, Y: 1}); !errors.Is(err, ErrNotDragging) {
		t.Errorf("Continue while idle error = %v, want ErrNotDragging", err)
	}
	if err := c.End(); !errors.Is(err, ErrNotDragging) {
		t.Errorf("End while idle error = %v, want ErrNotDragging", err)
	}
}

func TestEnd_ReturnsToIdle(t *testing.T) {
	reg := newRegistry()
	id := reg.Open("A", nil)
	c := NewController(reg)

	if err := c.Begin(id, wm.Point{X: 100, Y: 80}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if c.Active() || c.WindowID() != "" || c.Offset() != (wm.Point{}) {
		t.Errorf("state after End = (%v, %q, %+v), want idle and cleared", c.Phase(), c.WindowID(), c.Offset())
	}
	if err := c.End(); !errors.Is(err, ErrNotDragging) {
		t.Errorf("second End error = %v, want ErrNotDragging", err)
	}
}

func TestBegin_WhileDraggingEndsPriorDrag(t *testing.T) {
	reg := newRegistry()
	a := reg.Open("A", nil)
	b := reg.Open("B", nil)
	reg.SetPosition(b, wm.Point{X: 0, Y: 0})

	c := NewController(reg)
	if err := c.Begin(a, wm.Point{X: 100, Y: 80}); err != nil {
		t.Fatalf("Begin(A): %v", err)
	}
	if err := c.Begin(b, wm.Point{X: 10, Y: 10}); err != nil {
		t.Fatalf("Begin(B): %v", err)
	}
	if c.WindowID() != b {
		t.Fatalf("WindowID() = %q, want %q", c.WindowID(), b)
	}

	if _, err := c.Continue(wm.Point{X: 20, Y: 30}); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if got, _ := reg.Position(a); got != (wm.Point{X: 100, Y: 80}) {
		t.Errorf("A moved to %+v after its drag was replaced", got)
	}
	if got, _ := reg.Position(b); got != (wm.Point{X: 10, Y: 20}) {
		t.Errorf("B position = %+v, want (10,20)", got)
	}
}

func TestContinue_AfterCloseIsDropped(t *testing.T) {
	reg := newRegistry()
	id := reg.Open("A", nil)
	c := NewController(reg)

	if err := c.Begin(id, wm.Point{X: 100, Y: 80}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	reg.Close(id)

	if _, err := c.Continue(wm.Point{X: 300, Y: 300}); err != nil {
		t.Fatalf("Continue after close: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, closed window resurrected", reg.Len())
	}
	if !c.Active() {
		t.Error("drag ended before pointer-up")
	}
	if err := c.End(); err != nil {
		t.Errorf("End: %v", err)
	}
}

func TestContinue_ClampsToBounds(t *testing.T) {
	reg := newRegistry()
	id := reg.Open("A", nil)
	c := NewController(reg)
	c.SetBounds(&wm.Rect{X: 0, Y: 0, Width: 800, Height: 600})

	if err := c.Begin(id, wm.Point{X: 100, Y: 80}); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	tests := []struct {
		pointer wm.Point
		want    wm.Point
	}{
		{wm.Point{X: -50, Y: -50}, wm.Point{X: 0, Y: 0}},
		{wm.Point{X: 2000, Y: 2000}, wm.Point{X: 799, Y: 599}},
		{wm.Point{X: 400, Y: 300}, wm.Point{X: 400, Y: 300}},
	}
	for _, tt := range tests {
		got, err := c.Continue(tt.pointer)
		if err != nil {
			t.Fatalf("Continue(%+v): %v", tt.pointer, err)
		}
		if got != tt.want {
			t.Errorf("Continue(%+v) = %+v, want %+v", tt.pointer, got, tt.want)
		}
	}
}

func TestOnMove_ReportsEachUpdate(t *testing.T) {
	reg := newRegistry()
	id := reg.Open("A", nil)
	c := NewController(reg)

	var moves []MoveResult
	c.OnMove = func(r MoveResult) { moves = append(moves, r) }

	_ = c.Begin(id, wm.Point{X: 100, Y: 80})
	_, _ = c.Continue(wm.Point{X: 110, Y: 90})
	_, _ = c.Continue(wm.Point{X: 120, Y: 100})
	_ = c.End()

	if len(moves) != 2 {
		t.Fatalf("got %d moves, want 2", len(moves))
	}
	if moves[1] != (MoveResult{WindowID: id, Position: wm.Point{X: 120, Y: 100}}) {
		t.Errorf("last move = %+v", moves[1])
	}
}
