package drag

import "github.com/1broseidon/termdesk/internal/wm"

// Phase represents the current phase of a drag gesture
type Phase int

const (
	// PhaseIdle means no window is being dragged
	PhaseIdle Phase = iota
	// PhaseDragging means a window follows the pointer
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// State holds the current drag state
type State struct {
	Phase    Phase
	WindowID string   // Window being dragged ("" when idle)
	Offset   wm.Point // Pointer position minus window origin, captured at drag start
}

// NewState creates a new idle state
func NewState() *State {
	return &State{Phase: PhaseIdle}
}

// Reset resets the state to idle
func (s *State) Reset() {
	s.Phase = PhaseIdle
	s.WindowID = ""
	s.Offset = wm.Point{}
}
