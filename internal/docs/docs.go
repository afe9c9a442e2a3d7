// Package docs provides the document catalog shown as desktop icons.
// The desktop core only reads it to label icons and to supply window content.
package docs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a document id is not in the catalog.
var ErrNotFound = errors.New("document not found")

// Kind classifies a document for icon selection.
type Kind string

const (
	KindThread Kind = "thread"
	KindText   Kind = "text"
	KindApp    Kind = "app"
	KindFolder Kind = "folder"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindThread, KindText, KindApp, KindFolder:
		return true
	default:
		return false
	}
}

// Icon returns a short glyph for the kind.
func (k Kind) Icon() string {
	switch k {
	case KindThread:
		return "✉"
	case KindApp:
		return "◎"
	case KindFolder:
		return "▤"
	default:
		return "≡"
	}
}

// Document is a single catalog entry.
type Document struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Provider lists and looks up documents.
type Provider interface {
	List() []Document
	Get(id string) (Document, error)
}

// Catalog is a fixed, in-memory Provider.
type Catalog struct {
	docs  []Document
	index map[string]int
}

// NewCatalog builds a catalog from docs. Ids must be unique and non-empty.
func NewCatalog(docs []Document) (*Catalog, error) {
	c := &Catalog{
		docs:  make([]Document, 0, len(docs)),
		index: make(map[string]int, len(docs)),
	}
	for i, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("documents[%d]: id is required", i)
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, fmt.Errorf("documents[%d]: duplicate id %q", i, d.ID)
		}
		if d.Kind == "" {
			d.Kind = KindText
		}
		if !d.Kind.Valid() {
			return nil, fmt.Errorf("documents[%d]: unknown kind %q", i, d.Kind)
		}
		c.index[d.ID] = len(c.docs)
		c.docs = append(c.docs, d)
	}
	return c, nil
}

// List returns the documents in catalog order.
func (c *Catalog) List() []Document {
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Get returns the document with the given id.
func (c *Catalog) Get(id string) (Document, error) {
	i, ok := c.index[id]
	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.docs[i], nil
}

// Builtin returns the stock documents shipped with the desktop.
func Builtin() []Document {
	return []Document{
		{ID: "1", Name: "Welcome.thread", Kind: KindThread, Content: "Welcome to the BBS. This is the first post."},
		{ID: "2", Name: "General.thread", Kind: KindThread, Content: "General discussion board."},
		{ID: "3", Name: "Notes.txt", Kind: KindText, Content: "Local notes file."},
	}
}
