package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/wm"
)

// WindowConfig sets the geometry of newly opened windows and their chrome.
type WindowConfig struct {
	X                int `yaml:"x"`
	Y                int `yaml:"y"`
	Width            int `yaml:"width"`
	Height           int `yaml:"height"`
	TitlebarHeight   int `yaml:"titlebar_height"`
	CloseButtonWidth int `yaml:"close_button_width"`
}

// CanvasConfig describes the host canvas.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// CellWidth and CellHeight are canvas units per terminal cell.
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	// ClampDrag keeps dragged window origins inside the canvas.
	ClampDrag bool `yaml:"clamp_drag"`
}

// Config is the effective termdesk configuration.
type Config struct {
	Window        WindowConfig    `yaml:"window"`
	Canvas        CanvasConfig    `yaml:"canvas"`
	Documents     []docs.Document `yaml:"documents"`
	LogLevel      string          `yaml:"log_level"`
	DoubleClickMS int             `yaml:"double_click_ms"`
}

// ValidationError points at the config key that failed validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultConfig returns the builtin configuration.
func DefaultConfig() *Config {
	geom := wm.DefaultGeometry()
	return &Config{
		Window: WindowConfig{
			X:                geom.Position.X,
			Y:                geom.Position.Y,
			Width:            geom.Size.Width,
			Height:           geom.Size.Height,
			TitlebarHeight:   20,
			CloseButtonWidth: 20,
		},
		Canvas: CanvasConfig{
			Width:      1280,
			Height:     800,
			CellWidth:  10,
			CellHeight: 20,
		},
		Documents:     docs.Builtin(),
		LogLevel:      "info",
		DoubleClickMS: 500,
	}
}

// Validate checks the config for values the desktop cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("width and height must be > 0")}
	}
	if c.Window.TitlebarHeight <= 0 || c.Window.TitlebarHeight > c.Window.Height {
		return &ValidationError{Path: "window.titlebar_height", Err: fmt.Errorf("titlebar_height must be between 1 and window height")}
	}
	if c.Window.CloseButtonWidth < 0 || c.Window.CloseButtonWidth > c.Window.Width {
		return &ValidationError{Path: "window.close_button_width", Err: fmt.Errorf("close_button_width must be between 0 and window width")}
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return &ValidationError{Path: "canvas", Err: fmt.Errorf("width and height must be > 0")}
	}
	if c.Canvas.CellWidth <= 0 || c.Canvas.CellHeight <= 0 {
		return &ValidationError{Path: "canvas", Err: fmt.Errorf("cell_width and cell_height must be > 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.DoubleClickMS <= 0 {
		return &ValidationError{Path: "double_click_ms", Err: fmt.Errorf("double_click_ms must be > 0")}
	}
	if _, err := docs.NewCatalog(c.Documents); err != nil {
		return &ValidationError{Path: "documents", Err: err}
	}
	return nil
}

// Geometry returns the default geometry for new windows.
func (c *Config) Geometry() wm.Defaults {
	return wm.Defaults{
		Position: wm.Point{X: c.Window.X, Y: c.Window.Y},
		Size:     wm.Size{Width: c.Window.Width, Height: c.Window.Height},
	}
}

// DragBounds returns the clamp rectangle for drags, or nil when clamping is off.
func (c *Config) DragBounds() *wm.Rect {
	if !c.Canvas.ClampDrag {
		return nil
	}
	return &wm.Rect{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// DesktopOptions maps the config onto desktop controller options.
func (c *Config) DesktopOptions(logger *slog.Logger) desktop.Options {
	return desktop.Options{
		Defaults: c.Geometry(),
		Chrome: desktop.Chrome{
			TitlebarHeight:   c.Window.TitlebarHeight,
			CloseButtonWidth: c.Window.CloseButtonWidth,
		},
		Bounds: c.DragBounds(),
		Logger: logger,
	}
}

// Catalog builds the document catalog from the configured documents.
func (c *Config) Catalog() (*docs.Catalog, error) {
	return docs.NewCatalog(c.Documents)
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteFile validates the config and writes it to path.
func (c *Config) WriteFile(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
