// Package session owns the files loaded for one run and the diagnostics
// collector shared by its passes. A session is created when the pipeline
// starts and only read after loading finishes.
package session

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/span"
)

type File struct {
	Path   string
	Source string
}

type Session struct {
	files       []File
	Diagnostics *diagnostics.Collector
}

func New() *Session {
	return &Session{Diagnostics: diagnostics.New()}
}

// AddFile caches source under the next context index.
func (s *Session) AddFile(path, source string) (span.SyntaxCtxIndex, error) {
	if len(s.files) > span.MaxCtx {
		return 0, fmt.Errorf("too many files loaded, the limit is %d", span.MaxCtx+1)
	}
	s.files = append(s.files, File{Path: path, Source: source})
	return span.SyntaxCtxIndex(len(s.files) - 1), nil
}

func (s *Session) LoadFile(path string) (span.SyntaxCtxIndex, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return s.AddFile(path, string(source))
}

func (s *Session) File(ctx span.SyntaxCtxIndex) (File, bool) {
	if ctx < 0 || int(ctx) >= len(s.files) {
		return File{}, false
	}
	return s.files[ctx], true
}

// Position returns the 1-based line and column of offset in file.
func (f File) Position(offset uint32) (line, col int) {
	if int(offset) > len(f.Source) {
		offset = uint32(len(f.Source))
	}
	before := f.Source[:offset]
	line = strings.Count(before, "\n") + 1
	col = int(offset) - (strings.LastIndex(before, "\n") + 1) + 1
	return line, col
}

func (f File) line(n int) string {
	lines := strings.Split(f.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// Render writes diag as `path:line:col: message` followed by the source line
// of every span it points at, underlined. Spans without a position, or in a
// file the session does not know, only contribute the message.
func (s *Session) Render(w io.Writer, diag diagnostics.Diagnostic) error {
	var sb strings.Builder
	header := false

	for _, sp := range diag.Spans() {
		if !sp.Locatable {
			continue
		}
		file, ok := s.File(sp.Range.Ctx)
		if !ok {
			continue
		}
		line, col := file.Position(sp.Range.Start)
		if !header {
			fmt.Fprintf(&sb, "%s:%d:%d: %s\n", file.Path, line, col, diag.Message())
			header = true
		} else {
			fmt.Fprintf(&sb, "%s:%d:%d:\n", file.Path, line, col)
		}

		text := file.line(line)
		width := int(sp.Range.End) - int(sp.Range.Start)
		if rest := len(text) - (col - 1); width > rest {
			width = rest
		}
		if width < 1 {
			width = 1
		}
		fmt.Fprintf(&sb, "%4d | %s\n", line, text)
		fmt.Fprintf(&sb, "     | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
	}

	if !header {
		fmt.Fprintf(&sb, "%s\n", diag.Message())
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderAll drains the collector and renders every diagnostic, returning how
// many there were.
func (s *Session) RenderAll(w io.Writer) (int, error) {
	diags := s.Diagnostics.Drain()
	for _, diag := range diags {
		if err := s.Render(w, diag); err != nil {
			return 0, err
		}
	}
	return len(diags), nil
}
