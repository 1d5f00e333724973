package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/span"
)

func TestPosition(t *testing.T) {
	file := File{Path: "a.kind", Source: "Main = 1\n  Foo.bar\n"}

	tests := []struct {
		offset uint32
		line   int
		col    int
	}{
		{offset: 0, line: 1, col: 1},
		{offset: 7, line: 1, col: 8},
		{offset: 9, line: 2, col: 1},
		{offset: 11, line: 2, col: 3},
		{offset: 100, line: 3, col: 1},
	}

	for _, tt := range tests {
		line, col := file.Position(tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("offset %d: expected %d:%d, got %d:%d", tt.offset, tt.line, tt.col, line, col)
		}
	}
}

func TestRender(t *testing.T) {
	s := New()
	ctx, err := s.AddFile("a.kind", "Main = 1\n  Foo.bar\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diag := diagnostics.UnboundTopLevel("Foo.bar", []span.Span{
		span.Locatable(span.Range{Start: 11, End: 18, Ctx: ctx}),
	})

	var sb strings.Builder
	if err := s.Render(&sb, diag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "a.kind:2:3: cannot find the top-level definition 'Foo.bar'\n" +
		"   2 |   Foo.bar\n" +
		"     |   ^^^^^^^\n"
	if sb.String() != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, sb.String())
	}
}

func TestRenderWithoutPosition(t *testing.T) {
	s := New()
	var sb strings.Builder

	if err := s.Render(&sb, diagnostics.ThereIsNoMain()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != "cannot find the 'Main' entry point\n" {
		t.Errorf("unexpected rendering %q", sb.String())
	}

	sb.Reset()
	unknown := diagnostics.UnboundVariable("x", []span.Span{span.Locatable(span.Range{Start: 0, End: 1, Ctx: 7})})
	if err := s.Render(&sb, unknown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.String() != "cannot find the definition 'x'\n" {
		t.Errorf("unexpected rendering %q", sb.String())
	}
}

func TestRenderAllDrainsInOrder(t *testing.T) {
	s := New()
	s.Diagnostics.Send(diagnostics.UnboundVariable("a", nil))
	s.Diagnostics.Send(diagnostics.UnboundVariable("b", nil))

	var sb strings.Builder
	n, err := s.RenderAll(&sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 diagnostics, got %d", n)
	}
	if sb.String() != "cannot find the definition 'a'\ncannot find the definition 'b'\n" {
		t.Errorf("unexpected rendering %q", sb.String())
	}
	if s.Diagnostics.Len() != 0 {
		t.Errorf("expected the collector to be drained")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.kind")
	if err := os.WriteFile(path, []byte("Main = 1"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := New()
	if _, err := s.AddFile("first.kind", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, err := s.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx != 1 {
		t.Errorf("expected context 1, got %d", ctx)
	}
	file, ok := s.File(ctx)
	if !ok || file.Source != "Main = 1" {
		t.Errorf("unexpected file %+v", file)
	}
	if _, err := s.LoadFile(filepath.Join(t.TempDir(), "missing.kind")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
