package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandOpen          CommandType = "OPEN"
	CommandOpenDocument  CommandType = "OPEN_DOCUMENT"
	CommandClose         CommandType = "CLOSE"
	CommandRaise         CommandType = "RAISE"
	CommandMove          CommandType = "MOVE"
	CommandList          CommandType = "LIST"
	CommandBeginDrag     CommandType = "BEGIN_DRAG"
	CommandContinueDrag  CommandType = "CONTINUE_DRAG"
	CommandEndDrag       CommandType = "END_DRAG"
	CommandListDocuments CommandType = "LIST_DOCUMENTS"
	CommandReload        CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount     int    `json:"window_count"`
	TopWindow       string `json:"top_window,omitempty"`
	DraggingWindow  string `json:"dragging_window,omitempty"`
	EventsProcessed uint64 `json:"events_processed"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	DaemonRunning   bool   `json:"daemon_running"`
}

// WindowInfo is the wire form of an open window. Content stays in the daemon;
// only the document id is reported when the window shows a document.
type WindowInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Z          int    `json:"z"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	DocumentID string `json:"document_id,omitempty"`
}

// NewWindowInfo converts a registry window to its wire form.
func NewWindowInfo(w wm.Window) WindowInfo {
	info := WindowInfo{
		ID:     w.ID,
		Title:  w.Title,
		Z:      w.Z,
		X:      w.Position.X,
		Y:      w.Position.Y,
		Width:  w.Size.Width,
		Height: w.Size.Height,
	}
	if doc, ok := w.Content.(docs.Document); ok {
		info.DocumentID = doc.ID
	}
	return info
}

// WindowsData represents the data returned by LIST
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// DocumentsData represents the data returned by LIST_DOCUMENTS
type DocumentsData struct {
	Documents []docs.Document `json:"documents"`
}

// OpenPayload represents the payload for OPEN
type OpenPayload struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// OpenDocumentPayload represents the payload for OPEN_DOCUMENT
type OpenDocumentPayload struct {
	DocumentID string `json:"document_id"`
}

// OpenedData is returned by OPEN and OPEN_DOCUMENT
type OpenedData struct {
	ID string `json:"id"`
}

// WindowPayload identifies a window for CLOSE and RAISE
type WindowPayload struct {
	ID string `json:"id"`
}

// MovePayload represents the payload for MOVE
type MovePayload struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// PointerPayload carries a pointer position for the drag commands.
// ID is only used by BEGIN_DRAG.
type PointerPayload struct {
	ID string `json:"id,omitempty"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// PositionData is returned by CONTINUE_DRAG
type PositionData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
