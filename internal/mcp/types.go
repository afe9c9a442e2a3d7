package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes a single open window.
type WindowInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Z          int    `json:"z"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	DocumentID string `json:"document_id,omitempty"`
	Top        bool   `json:"top"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// ListDocumentsInput is the input for the list_documents tool.
type ListDocumentsInput struct{}

// DocumentInfo describes a document that can be opened.
type DocumentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	Size int    `json:"size"`
}

// ListDocumentsOutput is the output for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
}

// OpenDocumentInput is the input for the open_document tool.
type OpenDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"required,Id of the document to open (see list_documents)"`
}

// OpenDocumentOutput is the output for the open_document tool.
type OpenDocumentOutput struct {
	WindowID string `json:"window_id"`
}

// WindowInput identifies a window for close_window and raise_window.
type WindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,Id of the target window (see list_windows)"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,Id of the target window (see list_windows)"`
	X        int    `json:"x" jsonschema:"required,New left edge in canvas units"`
	Y        int    `json:"y" jsonschema:"required,New top edge in canvas units"`
}

// AckOutput is returned by tools that only change state.
type AckOutput struct {
	OK bool `json:"ok"`
}
