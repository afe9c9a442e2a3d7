package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/desktop"
)

// Options configures the terminal host.
type Options struct {
	Grid        Grid
	DoubleClick time.Duration
}

type keyMap struct {
	quit        key.Binding
	fileManager key.Binding
	closeTop    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		fileManager: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "file manager"),
		),
		closeTop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close window"),
		),
	}
}

// Model is the bubbletea model hosting a desktop on the terminal. It owns
// the controller: bubbletea delivers one message at a time.
type Model struct {
	desk   *desktop.Controller
	grid   Grid
	keys   keyMap
	clicks *clickDetector
	styles map[cellStyle]lipgloss.Style

	width  int
	height int
}

// NewModel creates a terminal host for desk.
func NewModel(desk *desktop.Controller, opts Options) Model {
	return Model{
		desk:   desk,
		grid:   opts.Grid.normalized(),
		keys:   newKeyMap(),
		clicks: newClickDetector(opts.DoubleClick),
		styles: defaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.fileManager):
			m.desk.OpenFileManager()
		case key.Matches(msg, m.keys.closeTop):
			if top, ok := m.desk.Registry().Top(); ok {
				m.desk.Close(top.ID)
			}
		}

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	p := m.grid.ToCanvas(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		m.desk.PointerMove(p)
		return
	case tea.MouseActionRelease:
		m.desk.PointerUp(p)
		return
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
	default:
		return
	}

	if m.height > 0 && msg.Y == m.height-1 {
		if id, ok := taskAt(taskSpans(m.desk.List(), m.width), msg.X); ok {
			m.desk.ActivateTask(id)
		}
		return
	}

	win, hit := m.desk.HitTest(p)
	if hit == desktop.HitNone {
		icons := m.desk.Documents()
		if i, ok := iconAt(msg.X, msg.Y, len(icons)); ok {
			if m.clicks.Click("icon:" + icons[i].ID) {
				m.openDocument(icons[i].ID)
			}
		}
		return
	}

	m.desk.PointerDown(p)

	if fm, ok := win.Content.(desktop.FileManager); ok && hit == desktop.HitBody {
		line := bodyLine(m.grid, m.desk.Chrome(), win, msg.Y)
		if line >= 0 && line < len(fm.Documents) {
			target := fmt.Sprintf("%s:%d", win.ID, line)
			if m.clicks.Click(target) {
				m.openDocument(fm.Documents[line].ID)
			}
		}
	}
}

func (m Model) openDocument(id string) {
	// Catalog entries always resolve; the error only covers a stale id.
	_, _ = m.desk.OpenDocument(id)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return m.frame().render(m.styles)
}

func (m Model) frame() *canvas {
	return compose(scene{
		width:   m.width,
		height:  m.height,
		grid:    m.grid,
		chrome:  m.desk.Chrome(),
		icons:   m.desk.Documents(),
		windows: m.desk.List(),
		stack:   m.desk.Stack(),
	})
}
