package mcp

import (
	"context"
	"io"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/ipc"
)

const (
	ServerName    = "termdesk"
	ServerVersion = "0.1.0"
)

// Desktop is the window manager surface the tools drive. *ipc.Client
// implements it against a running daemon.
type Desktop interface {
	List() ([]ipc.WindowInfo, error)
	ListDocuments() ([]docs.Document, error)
	OpenDocument(docID string) (string, error)
	Close(id string) error
	Raise(id string) error
	Move(id string, x, y int) error
}

// Server is the MCP server exposing desktop window operations.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
	logger    *slog.Logger
}

// NewServer creates a new MCP server backed by desk.
func NewServer(desk Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		desktop: desk,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open desktop windows in open order with their stacking order (z), position and size in canvas units. The window with top=true is the focused one.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_documents",
		Description: "List the documents that can be opened as windows.",
	}, s.handleListDocuments)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_document",
		Description: "Open a document in a new window on top of the stack. Opening the same document twice creates two windows. Returns the new window id.",
	}, s.handleOpenDocument)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Closing an unknown or already closed window does nothing.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_window",
		Description: "Bring a window to the top of the stack. Unknown ids are ignored.",
	}, s.handleRaiseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window so its top-left corner is at (x, y). Does not change stacking order. Unknown ids are ignored.",
	}, s.handleMoveWindow)
}
