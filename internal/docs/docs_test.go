package docs

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCatalog_Builtin(t *testing.T) {
	c, err := NewCatalog(Builtin())
	if err != nil {
		t.Fatalf("NewCatalog(Builtin()) error: %v", err)
	}
	got := c.List()
	if len(got) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(got))
	}
	if got[2].Name != "Notes.txt" || got[2].Kind != KindText {
		t.Errorf("List()[2] = %+v, want Notes.txt/text", got[2])
	}

	d, err := c.Get("2")
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	if d.Name != "General.thread" {
		t.Errorf("Get(2).Name = %q, want General.thread", d.Name)
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		docs    []Document
		wantErr string
	}{
		{"empty id", []Document{{ID: " ", Name: "x"}}, "id is required"},
		{"duplicate", []Document{{ID: "a"}, {ID: "a"}}, "duplicate id"},
		{"bad kind", []Document{{ID: "a", Kind: "spreadsheet"}}, "unknown kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.docs)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewCatalog error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewCatalog_DefaultsKindToText(t *testing.T) {
	c, err := NewCatalog([]Document{{ID: "a", Name: "a"}})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	d, _ := c.Get("a")
	if d.Kind != KindText {
		t.Errorf("Kind = %q, want text", d.Kind)
	}
}

func TestGet_NotFound(t *testing.T) {
	c, _ := NewCatalog(Builtin())
	if _, err := c.Get("404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(404) error = %v, want ErrNotFound", err)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	c, _ := NewCatalog(Builtin())
	l := c.List()
	l[0].Name = "changed"
	if c.List()[0].Name == "changed" {
		t.Error("List() exposes internal slice")
	}
}
