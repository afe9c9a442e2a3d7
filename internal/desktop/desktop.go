// Package desktop wires pointer, icon and taskbar input into the window
// registry and the drag controller.
package desktop

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/drag"
	"github.com/1broseidon/termdesk/internal/wm"
)

// Hit identifies which part of the desktop a pointer landed on.
type Hit int

const (
	HitNone Hit = iota
	HitBody
	HitTitlebar
	HitClose
)

// String returns the string representation of the hit
func (h Hit) String() string {
	switch h {
	case HitNone:
		return "none"
	case HitBody:
		return "body"
	case HitTitlebar:
		return "titlebar"
	case HitClose:
		return "close"
	default:
		return "unknown"
	}
}

// Chrome describes window decoration geometry used for hit testing.
type Chrome struct {
	TitlebarHeight   int
	CloseButtonWidth int
}

// DefaultChrome returns a 20-unit titlebar with a 20-unit close button.
func DefaultChrome() Chrome {
	return Chrome{TitlebarHeight: 20, CloseButtonWidth: 20}
}

// Options configures a Controller.
type Options struct {
	Defaults wm.Defaults
	Chrome   Chrome
	// Bounds, when set, clamps dragged window origins.
	Bounds *wm.Rect
	Logger *slog.Logger
}

// FileManager is the content of the menu-launched file manager window.
type FileManager struct {
	Documents []docs.Document
}

// Controller is the single entry point for desktop input. It is not safe
// for concurrent use; see session.Session.
type Controller struct {
	registry *wm.Registry
	drag     *drag.Controller
	provider docs.Provider
	chrome   Chrome
	logger   *slog.Logger
}

// New creates a desktop with an empty registry.
func New(provider docs.Provider, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	chrome := opts.Chrome
	if chrome.TitlebarHeight <= 0 {
		chrome = DefaultChrome()
	}

	defaults := opts.Defaults
	if defaults.Size.Width <= 0 || defaults.Size.Height <= 0 {
		defaults = wm.DefaultGeometry()
	}

	reg := wm.NewRegistry(defaults)
	dc := drag.NewController(reg)
	dc.SetBounds(opts.Bounds)

	c := &Controller{
		registry: reg,
		drag:     dc,
		provider: provider,
		chrome:   chrome,
		logger:   logger,
	}
	dc.OnMove = func(r drag.MoveResult) {
		c.logger.Debug("window moved", "id", r.WindowID, "x", r.Position.X, "y", r.Position.Y)
	}
	return c
}

// Registry exposes the underlying window registry for read access.
func (c *Controller) Registry() *wm.Registry {
	return c.registry
}

// Chrome returns the decoration geometry.
func (c *Controller) Chrome() Chrome {
	return c.chrome
}

// Open opens a window with arbitrary content.
func (c *Controller) Open(title string, content any) string {
	id := c.registry.Open(title, content)
	c.logger.Info("window opened", "id", id, "title", title)
	return id
}

// OpenDocument opens a new window for the document. Every call opens a
// fresh window, so the same document may be shown more than once.
func (c *Controller) OpenDocument(docID string) (string, error) {
	if c.provider == nil {
		return "", fmt.Errorf("open document %s: %w", docID, docs.ErrNotFound)
	}
	doc, err := c.provider.Get(docID)
	if err != nil {
		return "", err
	}
	return c.Open(doc.Name, doc), nil
}

// OpenFileManager opens the file manager app listing every document.
func (c *Controller) OpenFileManager() string {
	var list []docs.Document
	if c.provider != nil {
		list = c.provider.List()
	}
	return c.Open("File Manager", FileManager{Documents: list})
}

// SetProvider swaps the document catalog. Open windows keep their content.
func (c *Controller) SetProvider(p docs.Provider) {
	c.provider = p
}

// Documents returns the document catalog.
func (c *Controller) Documents() []docs.Document {
	if c.provider == nil {
		return nil
	}
	return c.provider.List()
}

// Close closes a window. Unknown ids are ignored.
func (c *Controller) Close(id string) {
	if _, ok := c.registry.Get(id); ok {
		c.logger.Info("window closed", "id", id)
	}
	c.registry.Close(id)
}

// Raise brings a window to the front. Unknown ids are ignored.
func (c *Controller) Raise(id string) {
	c.registry.Raise(id)
}

// ActivateTask handles a taskbar click.
func (c *Controller) ActivateTask(id string) {
	c.Raise(id)
}

// SetPosition moves a window. Unknown ids are ignored.
func (c *Controller) SetPosition(id string, p wm.Point) {
	c.registry.SetPosition(id, p)
}

// List returns open windows in open order.
func (c *Controller) List() []wm.Window {
	return c.registry.List()
}

// Stack returns open windows in paint order.
func (c *Controller) Stack() []wm.Window {
	return c.registry.Stack()
}

// BeginDrag starts dragging id with the pointer at p.
func (c *Controller) BeginDrag(id string, p wm.Point) error {
	if err := c.drag.Begin(id, p); err != nil {
		return err
	}
	c.logger.Debug("drag started", "id", id, "x", p.X, "y", p.Y)
	return nil
}

// ContinueDrag moves the dragged window. Returns drag.ErrNotDragging when idle.
func (c *Controller) ContinueDrag(p wm.Point) (wm.Point, error) {
	return c.drag.Continue(p)
}

// EndDrag finishes the drag. Returns drag.ErrNotDragging when idle.
func (c *Controller) EndDrag() error {
	id := c.drag.WindowID()
	if err := c.drag.End(); err != nil {
		return err
	}
	c.logger.Debug("drag ended", "id", id)
	return nil
}

// Dragging returns the id of the window being dragged, if any.
func (c *Controller) Dragging() (string, bool) {
	if !c.drag.Active() {
		return "", false
	}
	return c.drag.WindowID(), true
}

// HitTest finds the topmost window under p and the region that was hit.
func (c *Controller) HitTest(p wm.Point) (wm.Window, Hit) {
	win, ok := c.registry.WindowAt(p)
	if !ok {
		return wm.Window{}, HitNone
	}
	local := p.Sub(win.Position)
	if local.Y >= c.chrome.TitlebarHeight {
		return win, HitBody
	}
	if local.X >= win.Size.Width-c.chrome.CloseButtonWidth {
		return win, HitClose
	}
	return win, HitTitlebar
}

// PointerDown handles a primary button press at p.
func (c *Controller) PointerDown(p wm.Point) Hit {
	win, hit := c.HitTest(p)
	switch hit {
	case HitClose:
		c.Close(win.ID)
	case HitTitlebar:
		if err := c.BeginDrag(win.ID, p); err != nil {
			c.logger.Warn("begin drag failed", "id", win.ID, "error", err)
		}
	case HitBody:
		c.Raise(win.ID)
	}
	return hit
}

// PointerMove handles pointer motion. Without an active drag it does nothing.
func (c *Controller) PointerMove(p wm.Point) {
	if !c.drag.Active() {
		return
	}
	if _, err := c.drag.Continue(p); err != nil {
		c.logger.Warn("continue drag failed", "error", err)
	}
}

// PointerUp handles a button release anywhere on the canvas.
func (c *Controller) PointerUp(p wm.Point) {
	if !c.drag.Active() {
		return
	}
	if err := c.EndDrag(); err != nil {
		c.logger.Warn("end drag failed", "error", err)
	}
}
