package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the daemon listening on socketPath
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call marshals payload, sends cmd, and decodes the response data into out when non-nil
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

// Open opens a plain text window and returns its id
func (c *Client) Open(title, content string) (string, error) {
	var data OpenedData
	if err := c.call(CommandOpen, OpenPayload{Title: title, Content: content}, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

// OpenDocument opens a window for a catalog document and returns its id
func (c *Client) OpenDocument(docID string) (string, error) {
	var data OpenedData
	if err := c.call(CommandOpenDocument, OpenDocumentPayload{DocumentID: docID}, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

// Close closes a window. Unknown ids are not an error.
func (c *Client) Close(id string) error {
	return c.call(CommandClose, WindowPayload{ID: id}, nil)
}

// Raise brings a window to the front. Unknown ids are not an error.
func (c *Client) Raise(id string) error {
	return c.call(CommandRaise, WindowPayload{ID: id}, nil)
}

// Move sets a window's position. Unknown ids are not an error.
func (c *Client) Move(id string, x, y int) error {
	return c.call(CommandMove, MovePayload{ID: id, X: x, Y: y}, nil)
}

// List returns the open windows in open order
func (c *Client) List() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandList, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// BeginDrag starts dragging a window with the pointer at (x, y)
func (c *Client) BeginDrag(id string, x, y int) error {
	return c.call(CommandBeginDrag, PointerPayload{ID: id, X: x, Y: y}, nil)
}

// ContinueDrag moves the pointer and returns the dragged window's new origin
func (c *Client) ContinueDrag(x, y int) (PositionData, error) {
	var data PositionData
	err := c.call(CommandContinueDrag, PointerPayload{X: x, Y: y}, &data)
	return data, err
}

// EndDrag releases the pointer
func (c *Client) EndDrag() error {
	return c.call(CommandEndDrag, nil, nil)
}

// ListDocuments returns the daemon's document catalog
func (c *Client) ListDocuments() ([]docs.Document, error) {
	var data DocumentsData
	if err := c.call(CommandListDocuments, nil, &data); err != nil {
		return nil, err
	}
	return data.Documents, nil
}

// Reload asks the daemon to re-read its configuration
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}
