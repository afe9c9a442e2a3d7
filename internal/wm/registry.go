package wm

import (
	"sort"
	"strconv"
)

// Registry owns the set of open windows and their stacking order.
//
// A Registry is not safe for concurrent use. Callers serialize access,
// typically through a session.Session event loop.
type Registry struct {
	windows  []*Window
	index    map[string]*Window
	defaults Defaults
	zCounter int
	nextID   int
}

// NewRegistry creates an empty registry. New windows get the given default geometry.
func NewRegistry(defaults Defaults) *Registry {
	return &Registry{
		index:    make(map[string]*Window),
		defaults: defaults,
	}
}

// nextZ bumps the stacking counter. Both Open and Raise go through here, so
// the most recently opened or raised window is always strictly on top.
func (r *Registry) nextZ() int {
	r.zCounter++
	return r.zCounter
}

func (r *Registry) newID() string {
	r.nextID++
	return "w" + strconv.Itoa(r.nextID)
}

// Open adds a new window on top of the stack and returns its id.
func (r *Registry) Open(title string, content any) string {
	win := &Window{
		ID:       r.newID(),
		Title:    title,
		Content:  content,
		Z:        r.nextZ(),
		Position: r.defaults.Position,
		Size:     r.defaults.Size,
	}
	r.windows = append(r.windows, win)
	r.index[win.ID] = win
	return win.ID
}

// Close removes the window. Closing an unknown or already closed id does nothing.
func (r *Registry) Close(id string) {
	if _, ok := r.index[id]; !ok {
		return
	}
	delete(r.index, id)
	for i, w := range r.windows {
		if w.ID == id {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			break
		}
	}
}

// Raise moves the window to the top of the stack. No-op if absent.
func (r *Registry) Raise(id string) {
	win, ok := r.index[id]
	if !ok {
		return
	}
	win.Z = r.nextZ()
}

// SetPosition moves the window's top-left corner. No-op if absent, which is
// the expected case when a window is closed while it is being dragged.
func (r *Registry) SetPosition(id string, p Point) {
	win, ok := r.index[id]
	if !ok {
		return
	}
	win.Position = p
}

// Get returns a copy of the window with the given id.
func (r *Registry) Get(id string) (Window, bool) {
	win, ok := r.index[id]
	if !ok {
		return Window{}, false
	}
	return *win, true
}

// Position returns the current position of the window.
func (r *Registry) Position(id string) (Point, bool) {
	win, ok := r.index[id]
	if !ok {
		return Point{}, false
	}
	return win.Position, true
}

// Len returns the number of open windows.
func (r *Registry) Len() int {
	return len(r.windows)
}

// List returns a snapshot of the open windows in open order.
// Callers sort by Z when they need paint order; see Stack.
func (r *Registry) List() []Window {
	out := make([]Window, len(r.windows))
	for i, w := range r.windows {
		out[i] = *w
	}
	return out
}

// Stack returns a snapshot sorted bottom to top.
func (r *Registry) Stack() []Window {
	out := r.List()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Z < out[j].Z
	})
	return out
}

// Top returns the topmost window, if any.
func (r *Registry) Top() (Window, bool) {
	var top *Window
	for _, w := range r.windows {
		if top == nil || w.Z > top.Z {
			top = w
		}
	}
	if top == nil {
		return Window{}, false
	}
	return *top, true
}

// WindowAt returns the topmost window whose frame contains p.
func (r *Registry) WindowAt(p Point) (Window, bool) {
	var hit *Window
	for _, w := range r.windows {
		if !w.Frame().Contains(p) {
			continue
		}
		if hit == nil || w.Z > hit.Z {
			hit = w
		}
	}
	if hit == nil {
		return Window{}, false
	}
	return *hit, true
}

// ZCounter returns the last stacking value handed out.
func (r *Registry) ZCounter() int {
	return r.zCounter
}
