package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/runtimepath"
	"github.com/1broseidon/termdesk/internal/session"
	"github.com/1broseidon/termdesk/internal/wm"
)

// requestTimeout bounds how long a connection waits for the session loop.
const requestTimeout = 5 * time.Second

// ReloadFunc re-reads configuration for the RELOAD command.
type ReloadFunc func(ctx context.Context) error

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	session      *session.Session
	reload       ReloadFunc
	reloadMu     sync.Mutex
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on the default socket path
func NewServer(sess *session.Session) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, sess), nil
}

// NewServerAt creates a new IPC server listening on socketPath
func NewServerAt(socketPath string, sess *session.Session) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		session:    sess,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string {
	return s.socketPath
}

// SetReloadFunc installs the handler for RELOAD.
func (s *Server) SetReloadFunc(fn ReloadFunc) {
	s.reloadMu.Lock()
	s.reload = fn
	s.reloadMu.Unlock()
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandOpen:
		return s.handleOpen(ctx, req.Payload)
	case CommandOpenDocument:
		return s.handleOpenDocument(ctx, req.Payload)
	case CommandClose:
		return s.handleClose(ctx, req.Payload)
	case CommandRaise:
		return s.handleRaise(ctx, req.Payload)
	case CommandMove:
		return s.handleMove(ctx, req.Payload)
	case CommandList:
		return s.handleList(ctx)
	case CommandBeginDrag:
		return s.handleBeginDrag(ctx, req.Payload)
	case CommandContinueDrag:
		return s.handleContinueDrag(ctx, req.Payload)
	case CommandEndDrag:
		return s.handleEndDrag(ctx)
	case CommandListDocuments:
		return s.handleListDocuments(ctx)
	case CommandReload:
		return s.handleReload(ctx)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// do runs fn on the session loop and turns the outcome into a response
func (s *Server) do(ctx context.Context, name string, fn func(d *desktop.Controller) (any, error)) *Response {
	var data any
	err := s.session.Do(ctx, name, func(d *desktop.Controller) error {
		var err error
		data, err = fn(d)
		return err
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(payload json.RawMessage, out any, what string) *Response {
	if len(payload) == 0 {
		return NewErrorResponse(fmt.Sprintf("Missing %s payload", what))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", what, err))
	}
	return nil
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus(ctx context.Context) *Response {
	stats := s.session.Stats()
	return s.do(ctx, "status", func(d *desktop.Controller) (any, error) {
		status := StatusData{
			WindowCount:     d.Registry().Len(),
			EventsProcessed: stats.Processed,
			UptimeSeconds:   int64(time.Since(s.startTime).Seconds()),
			DaemonRunning:   true,
		}
		if top, ok := d.Registry().Top(); ok {
			status.TopWindow = top.ID
		}
		if id, ok := d.Dragging(); ok {
			status.DraggingWindow = id
		}
		return status, nil
	})
}

func (s *Server) handleOpen(ctx context.Context, payload json.RawMessage) *Response {
	var req OpenPayload
	if resp := decodePayload(payload, &req, "open"); resp != nil {
		return resp
	}
	if req.Title == "" {
		return NewErrorResponse("title is required")
	}

	log.Printf("IPC: Open window '%s'", req.Title)
	return s.do(ctx, "open", func(d *desktop.Controller) (any, error) {
		return OpenedData{ID: d.Open(req.Title, req.Content)}, nil
	})
}

func (s *Server) handleOpenDocument(ctx context.Context, payload json.RawMessage) *Response {
	var req OpenDocumentPayload
	if resp := decodePayload(payload, &req, "open_document"); resp != nil {
		return resp
	}
	if req.DocumentID == "" {
		return NewErrorResponse("document_id is required")
	}

	log.Printf("IPC: Open document '%s'", req.DocumentID)
	return s.do(ctx, "open_document", func(d *desktop.Controller) (any, error) {
		id, err := d.OpenDocument(req.DocumentID)
		if err != nil {
			return nil, err
		}
		return OpenedData{ID: id}, nil
	})
}

func (s *Server) handleClose(ctx context.Context, payload json.RawMessage) *Response {
	var req WindowPayload
	if resp := decodePayload(payload, &req, "close"); resp != nil {
		return resp
	}
	return s.do(ctx, "close", func(d *desktop.Controller) (any, error) {
		d.Close(req.ID)
		return nil, nil
	})
}

func (s *Server) handleRaise(ctx context.Context, payload json.RawMessage) *Response {
	var req WindowPayload
	if resp := decodePayload(payload, &req, "raise"); resp != nil {
		return resp
	}
	return s.do(ctx, "raise", func(d *desktop.Controller) (any, error) {
		d.Raise(req.ID)
		return nil, nil
	})
}

func (s *Server) handleMove(ctx context.Context, payload json.RawMessage) *Response {
	var req MovePayload
	if resp := decodePayload(payload, &req, "move"); resp != nil {
		return resp
	}
	return s.do(ctx, "move", func(d *desktop.Controller) (any, error) {
		d.SetPosition(req.ID, wm.Point{X: req.X, Y: req.Y})
		return nil, nil
	})
}

func (s *Server) handleList(ctx context.Context) *Response {
	return s.do(ctx, "list", func(d *desktop.Controller) (any, error) {
		windows := d.List()
		data := WindowsData{Windows: make([]WindowInfo, 0, len(windows))}
		for _, w := range windows {
			data.Windows = append(data.Windows, NewWindowInfo(w))
		}
		return data, nil
	})
}

func (s *Server) handleBeginDrag(ctx context.Context, payload json.RawMessage) *Response {
	var req PointerPayload
	if resp := decodePayload(payload, &req, "begin_drag"); resp != nil {
		return resp
	}
	return s.do(ctx, "begin_drag", func(d *desktop.Controller) (any, error) {
		return nil, d.BeginDrag(req.ID, wm.Point{X: req.X, Y: req.Y})
	})
}

func (s *Server) handleContinueDrag(ctx context.Context, payload json.RawMessage) *Response {
	var req PointerPayload
	if resp := decodePayload(payload, &req, "continue_drag"); resp != nil {
		return resp
	}
	return s.do(ctx, "continue_drag", func(d *desktop.Controller) (any, error) {
		pos, err := d.ContinueDrag(wm.Point{X: req.X, Y: req.Y})
		if err != nil {
			return nil, err
		}
		return PositionData{X: pos.X, Y: pos.Y}, nil
	})
}

func (s *Server) handleEndDrag(ctx context.Context) *Response {
	return s.do(ctx, "end_drag", func(d *desktop.Controller) (any, error) {
		return nil, d.EndDrag()
	})
}

func (s *Server) handleListDocuments(ctx context.Context) *Response {
	return s.do(ctx, "list_documents", func(d *desktop.Controller) (any, error) {
		return DocumentsData{Documents: d.Documents()}, nil
	})
}

func (s *Server) handleReload(ctx context.Context) *Response {
	s.reloadMu.Lock()
	reload := s.reload
	s.reloadMu.Unlock()
	if reload == nil {
		return NewErrorResponse("reload is not supported by this daemon")
	}
	log.Println("IPC: Reloading config")
	if err := reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
