package ipc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/session"
)

func startDaemon(t *testing.T) *Client {
	t.Helper()
	c, _ := startServer(t)
	return c
}

func startServer(t *testing.T) (*Client, *Server) {
	t.Helper()

	catalog, err := docs.NewCatalog(docs.Builtin())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	sess := session.New(desktop.New(catalog, desktop.Options{}), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sess.Run(ctx)
		close(done)
	}()

	// Unix socket paths have a short length limit; keep it under /tmp.
	dir, err := os.MkdirTemp("", "termdesk-ipc")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	srv := NewServerAt(filepath.Join(dir, "d.sock"), sess)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	t.Cleanup(func() {
		srv.Stop()
		cancel()
		<-done
		os.RemoveAll(dir)
	})
	return NewClientAt(srv.SocketPath()), srv
}

func TestClientServer_Scenario(t *testing.T) {
	c := startDaemon(t)

	w1, err := c.Open("Notes", "c1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	w2, err := c.Open("Mail", "c2")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Raise(w1); err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if err := c.Close(w2); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(w2); err != nil {
		t.Fatalf("second Close should be silent, got %v", err)
	}

	windows, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(windows) != 1 || windows[0].ID != w1 || windows[0].Z != 3 {
		t.Fatalf("List() = %+v, want only %s at z=3", windows, w1)
	}

	if err := c.BeginDrag(w1, 50, 50); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	pos, err := c.ContinueDrag(60, 60)
	if err != nil {
		t.Fatalf("ContinueDrag: %v", err)
	}
	if pos.X != 110 || pos.Y != 90 {
		t.Errorf("ContinueDrag = %+v, want (110,90)", pos)
	}

	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.DraggingWindow != w1 || status.TopWindow != w1 || status.WindowCount != 1 {
		t.Errorf("status = %+v", status)
	}

	if err := c.EndDrag(); err != nil {
		t.Fatalf("EndDrag: %v", err)
	}
}

func TestClientServer_EndDragWhenIdleIsError(t *testing.T) {
	c := startDaemon(t)
	err := c.EndDrag()
	if err == nil || !strings.Contains(err.Error(), "no drag in progress") {
		t.Errorf("EndDrag() = %v, want precondition error", err)
	}
	if _, err := c.ContinueDrag(1, 1); err == nil {
		t.Error("ContinueDrag while idle should fail")
	}
}

func TestClientServer_MissingIDsAreNoOps(t *testing.T) {
	c := startDaemon(t)
	id, _ := c.Open("A", "")

	for _, fn := range []func() error{
		func() error { return c.Raise("missing") },
		func() error { return c.Move("missing", 1, 2) },
		func() error { return c.Close("missing") },
	} {
		if err := fn(); err != nil {
			t.Errorf("op on missing id returned %v", err)
		}
	}

	windows, _ := c.List()
	if len(windows) != 1 || windows[0].ID != id || windows[0].Z != 1 || windows[0].X != 100 {
		t.Errorf("List() changed: %+v", windows)
	}
}

func TestClientServer_Documents(t *testing.T) {
	c := startDaemon(t)

	list, err := c.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d documents, want 3", len(list))
	}

	id, err := c.OpenDocument("1")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	windows, _ := c.List()
	if len(windows) != 1 || windows[0].ID != id || windows[0].DocumentID != "1" || windows[0].Title != "Welcome.thread" {
		t.Errorf("List() = %+v", windows)
	}

	if _, err := c.OpenDocument("nope"); err == nil {
		t.Error("OpenDocument(nope) should fail")
	}
}

func TestClientServer_Move(t *testing.T) {
	c := startDaemon(t)
	id, _ := c.Open("A", "")
	if err := c.Move(id, 7, 9); err != nil {
		t.Fatalf("Move: %v", err)
	}
	windows, _ := c.List()
	if windows[0].X != 7 || windows[0].Y != 9 {
		t.Errorf("position = (%d,%d), want (7,9)", windows[0].X, windows[0].Y)
	}
}

func TestServer_UnknownCommandAndBadPayload(t *testing.T) {
	c := startDaemon(t)

	tests := []struct {
		req  *Request
		want string
	}{
		{&Request{Command: "FLY"}, "Unknown command"},
		{&Request{Command: CommandOpen}, "Missing open payload"},
		{&Request{Command: CommandMove, Payload: []byte(`{"x":"a"}`)}, "Invalid move payload"},
		{&Request{Command: CommandOpen, Payload: []byte(`{}`)}, "title is required"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.req.Command), func(t *testing.T) {
			_, err := c.sendRequest(tt.req)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("sendRequest(%s) = %v, want error containing %q", tt.req.Command, err, tt.want)
			}
		})
	}
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Errorf("Ping() = %v, want connection error", err)
	}
}

func TestServer_Reload(t *testing.T) {
	c, srv := startServer(t)

	if err := c.Reload(); err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Errorf("Reload() without handler = %v, want not supported", err)
	}

	var calls atomic.Int32
	srv.SetReloadFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	})
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("reload calls = %d, want 1", n)
	}

	srv.SetReloadFunc(func(context.Context) error { return fmt.Errorf("bad yaml") })
	if err := c.Reload(); err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Errorf("Reload() = %v, want bad yaml", err)
	}
}
