package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.desktop.List()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list windows: %w", err)
	}

	topZ := 0
	for _, w := range windows {
		if w.Z > topZ {
			topZ = w.Z
		}
	}

	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:         w.ID,
			Title:      w.Title,
			Z:          w.Z,
			X:          w.X,
			Y:          w.Y,
			Width:      w.Width,
			Height:     w.Height,
			DocumentID: w.DocumentID,
			Top:        w.Z == topZ,
		})
	}
	s.logger.Debug("list_windows", "count", len(out.Windows))
	return nil, out, nil
}

func (s *Server) handleListDocuments(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDocumentsInput) (*mcpsdk.CallToolResult, ListDocumentsOutput, error) {
	list, err := s.desktop.ListDocuments()
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("list documents: %w", err)
	}

	out := ListDocumentsOutput{Documents: make([]DocumentInfo, 0, len(list))}
	for _, d := range list {
		out.Documents = append(out.Documents, DocumentInfo{
			ID:   d.ID,
			Name: d.Name,
			Kind: string(d.Kind),
			Size: len(d.Content),
		})
	}
	return nil, out, nil
}

func (s *Server) handleOpenDocument(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenDocumentInput) (*mcpsdk.CallToolResult, OpenDocumentOutput, error) {
	docID := strings.TrimSpace(args.DocumentID)
	if docID == "" {
		return nil, OpenDocumentOutput{}, fmt.Errorf("document_id is required")
	}

	id, err := s.desktop.OpenDocument(docID)
	if err != nil {
		return nil, OpenDocumentOutput{}, fmt.Errorf("open document %q: %w", docID, err)
	}
	s.logger.Info("open_document", "document", docID, "window", id)
	return nil, OpenDocumentOutput{WindowID: id}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := requireWindowID(args.WindowID); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.desktop.Close(args.WindowID); err != nil {
		return nil, AckOutput{}, fmt.Errorf("close window %q: %w", args.WindowID, err)
	}
	s.logger.Info("close_window", "window", args.WindowID)
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleRaiseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := requireWindowID(args.WindowID); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.desktop.Raise(args.WindowID); err != nil {
		return nil, AckOutput{}, fmt.Errorf("raise window %q: %w", args.WindowID, err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := requireWindowID(args.WindowID); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.desktop.Move(args.WindowID, args.X, args.Y); err != nil {
		return nil, AckOutput{}, fmt.Errorf("move window %q: %w", args.WindowID, err)
	}
	s.logger.Debug("move_window", "window", args.WindowID, "x", args.X, "y", args.Y)
	return nil, AckOutput{OK: true}, nil
}

func requireWindowID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("window_id is required")
	}
	return nil
}
