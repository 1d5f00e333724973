// Package driver strings the passes together: resolution of the surface
// module, the external desugaring phase, then checking or evaluation on the
// engine. Every step reports to the session's collector, and a step that
// reported errors stops the pipeline before the next one runs.
package driver

import (
	"sort"

	"github.com/kind-lang/kindhvm/internal/ast"
	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/checker"
	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/session"
	"github.com/kind-lang/kindhvm/internal/span"
	"github.com/kind-lang/kindhvm/internal/unbound"
)

const mainEntry = "Main"

// Desugarer is the phase that elaborates a resolved surface module into a
// book. It lives outside this module.
type Desugarer interface {
	Desugar(sender diagnostics.Sender, module *ast.Module) (*book.Book, error)
}

type DesugarFunc func(sender diagnostics.Sender, module *ast.Module) (*book.Book, error)

func (f DesugarFunc) Desugar(sender diagnostics.Sender, module *ast.Module) (*book.Book, error) {
	return f(sender, module)
}

// counter forwards diagnostics and counts them.
type counter struct {
	sender diagnostics.Sender
	sent   int
}

func (c *counter) Send(diag diagnostics.Diagnostic) {
	c.sent++
	c.sender.Send(diag)
}

// CheckUnboundTopLevel resolves module and reports every unbound name,
// sorted by name, along with any linearity error. It returns true when
// something was reported.
func CheckUnboundTopLevel(s *session.Session, module *ast.Module) (failed bool) {
	sender := &counter{sender: s.Diagnostics}
	locals, tops := unbound.GetModuleUnbound(sender, module, true)

	for _, name := range sortedKeys(locals) {
		occurrences := make([]span.Span, 0, len(locals[name]))
		for _, local := range locals[name] {
			occurrences = append(occurrences, local.Span())
		}
		sender.Send(diagnostics.UnboundVariable(name, occurrences))
	}

	for _, name := range sortedKeys(tops) {
		var occurrences []span.Span
		for _, top := range tops[name] {
			if !top.Generated {
				occurrences = append(occurrences, top.Span())
			}
		}
		// A name only sugar asked for still has to exist; report it without
		// a position.
		sender.Send(diagnostics.UnboundTopLevel(name, occurrences))
	}

	return sender.sent > 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ToBook resolves and desugars module.
func ToBook(s *session.Session, module *ast.Module, desugar Desugarer) (*book.Book, error) {
	if CheckUnboundTopLevel(s, module) {
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
	sender := &counter{sender: s.Diagnostics}
	b, err := desugar.Desugar(sender, module)
	if err != nil {
		return nil, err
	}
	if sender.sent > 0 {
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
	return b, nil
}

// TypeCheckModule runs the whole pipeline on a surface module. Entrypoints
// limits the entries checked; empty means all of them.
func TypeCheckModule(s *session.Session, module *ast.Module, desugar Desugarer, c *checker.Checker, entrypoints []string) (*book.Book, error) {
	b, err := ToBook(s, module, desugar)
	if err != nil {
		return nil, err
	}
	if err := TypeCheckBook(s, b, c, entrypoints); err != nil {
		return nil, err
	}
	return b, nil
}

// TypeCheckBook checks an already desugared book. It returns
// COMPILER_ERROR_FOUND when the checker reported errors.
func TypeCheckBook(s *session.Session, b *book.Book, c *checker.Checker, entrypoints []string) error {
	functions := entrypoints
	if len(functions) == 0 {
		functions = b.Names()
	}
	succeeded, err := c.TypeCheck(b, s.Diagnostics, functions)
	if err != nil {
		return err
	}
	if !succeeded {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

func EvalModule(s *session.Session, module *ast.Module, desugar Desugarer, c *checker.Checker) (*book.Expr, error) {
	b, err := ToBook(s, module, desugar)
	if err != nil {
		return nil, err
	}
	return EvalBook(s, b, c)
}

func EvalBook(s *session.Session, b *book.Book, c *checker.Checker) (*book.Expr, error) {
	if !CheckMainEntry(s, b) {
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
	return c.Eval(b)
}

// CheckMainEntry reports a missing Main.
func CheckMainEntry(s *session.Session, b *book.Book) bool {
	if _, ok := b.Get(mainEntry); !ok {
		s.Diagnostics.Send(diagnostics.ThereIsNoMain())
		return false
	}
	return true
}
