package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/wm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if got := cfg.Geometry(); got != wm.DefaultGeometry() {
		t.Errorf("Geometry() = %+v, want %+v", got, wm.DefaultGeometry())
	}
	if cfg.DragBounds() != nil {
		t.Error("DragBounds() should be nil when clamp_drag is off")
	}
	if len(cfg.Documents) != 3 {
		t.Errorf("expected 3 builtin documents, got %d", len(cfg.Documents))
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Exists {
		t.Error("Exists = true for a missing file")
	}
	if res.Config.Window.Width != 420 {
		t.Errorf("window.width = %d, want 420", res.Config.Window.Width)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Exists {
		t.Error("Exists = false for an existing file")
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_PartialOverride(t *testing.T) {
	body := strings.Join([]string{
		"window:",
		"  x: 5",
		"  width: 300",
		"canvas:",
		"  clamp_drag: true",
		"log_level: debug",
		"",
	}, "\n")
	res, err := LoadFromPath(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Window.X != 5 || cfg.Window.Y != 80 {
		t.Errorf("window origin = (%d,%d), want (5,80)", cfg.Window.X, cfg.Window.Y)
	}
	if cfg.Window.Width != 300 || cfg.Window.Height != 300 {
		t.Errorf("window size = %dx%d, want 300x300", cfg.Window.Width, cfg.Window.Height)
	}
	b := cfg.DragBounds()
	if b == nil || b.Width != 1280 || b.Height != 800 {
		t.Errorf("DragBounds() = %+v, want 1280x800", b)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadFromPath_DocumentsReplaceBuiltin(t *testing.T) {
	body := strings.Join([]string{
		"documents:",
		"  - id: readme",
		"    name: README",
		"    kind: text",
		"    content: hello",
		"",
	}, "\n")
	res, err := LoadFromPath(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	catalog, err := res.Config.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	list := catalog.List()
	if len(list) != 1 || list[0].ID != "readme" || list[0].Content != "hello" {
		t.Errorf("documents = %+v, want only readme", list)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "windw:\n  x: 1\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "windw") {
		t.Errorf("error %q does not name the unknown key", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window"},
		{"titlebar taller than window", func(c *Config) { c.Window.TitlebarHeight = 1000 }, "window.titlebar_height"},
		{"negative close button", func(c *Config) { c.Window.CloseButtonWidth = -1 }, "window.close_button_width"},
		{"zero canvas", func(c *Config) { c.Canvas.Height = 0 }, "canvas"},
		{"zero cell", func(c *Config) { c.Canvas.CellWidth = 0 }, "canvas"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad double click", func(c *Config) { c.DoubleClickMS = 0 }, "double_click_ms"},
		{"duplicate document", func(c *Config) { c.Documents = append(c.Documents, c.Documents[0]) }, "documents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Errorf("Path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Window.X = 42
	if err := cfg.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Window.X != 42 {
		t.Errorf("window.x = %d, want 42", res.Config.Window.X)
	}
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if want := filepath.Join(dir, "termdesk", "config.yaml"); got != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
	}
}

func TestDesktopOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.TitlebarHeight = 24
	cfg.Canvas.ClampDrag = true

	opts := cfg.DesktopOptions(nil)
	if opts.Chrome.TitlebarHeight != 24 || opts.Chrome.CloseButtonWidth != 20 {
		t.Errorf("Chrome = %+v", opts.Chrome)
	}
	if opts.Bounds == nil || opts.Bounds.Width != 1280 || opts.Bounds.Height != 800 {
		t.Errorf("Bounds = %+v, want 1280x800", opts.Bounds)
	}
	if opts.Defaults.Position.X != 100 || opts.Defaults.Size.Height != 300 {
		t.Errorf("Defaults = %+v", opts.Defaults)
	}
}
