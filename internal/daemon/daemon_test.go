package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/ipc"
)

func startTestDaemon(t *testing.T, configPath string) (*Daemon, *ipc.Client) {
	t.Helper()

	res, err := config.LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	dir, err := os.MkdirTemp("", "termdesk-daemon")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	d, err := New(res.Config, Options{
		ConfigPath: configPath,
		SocketPath: filepath.Join(dir, "d.sock"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)
	return d, ipc.NewClientAt(d.SocketPath())
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDaemon_OpenAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "window:\n  x: 10\n  y: 20\n")

	_, c := startTestDaemon(t, path)

	id, err := c.OpenDocument("3")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	windows, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(windows) != 1 || windows[0].ID != id || windows[0].X != 10 || windows[0].Y != 20 {
		t.Errorf("List() = %+v, want one window at (10,20)", windows)
	}
}

func TestDaemon_ReloadSwapsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, c := startTestDaemon(t, path)

	before, err := c.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(before) != 3 {
		t.Fatalf("got %d documents, want 3 builtin", len(before))
	}
	kept, _ := c.Open("Scratch", "")

	writeFile(t, path, "documents:\n  - id: readme\n    name: README.txt\n    content: hi\n")
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	after, _ := c.ListDocuments()
	if len(after) != 1 || after[0].ID != "readme" {
		t.Errorf("documents after reload = %+v", after)
	}
	windows, _ := c.List()
	if len(windows) != 1 || windows[0].ID != kept {
		t.Errorf("windows after reload = %+v, want %s kept", windows, kept)
	}
}

func TestDaemon_ReloadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, c := startTestDaemon(t, path)

	writeFile(t, path, "bogus: true\n")
	if err := c.Reload(); err == nil {
		t.Fatal("Reload() with unknown key should fail")
	}
	docs, _ := c.ListDocuments()
	if len(docs) != 3 {
		t.Errorf("catalog changed after failed reload: %+v", docs)
	}
}

func TestReporter_Snapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	d, c := startTestDaemon(t, path)

	c.Open("A", "")
	b, _ := c.Open("B", "")
	if err := c.BeginDrag(b, 110, 90); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}

	snap, err := d.reporter.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Windows != 2 || snap.Top != b || snap.Dragging != b {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Processed < 3 {
		t.Errorf("Processed = %d, want at least 3", snap.Processed)
	}
}
