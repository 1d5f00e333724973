// Package testutil builds small desugared books for tests across packages.
package testutil

import (
	"testing"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

func Rng(start int) span.Range {
	return span.Range{Start: uint32(start), End: uint32(start + 1)}
}

func Qualified(name string) ident.QualifiedIdent {
	return ident.ParseQualified(name, span.Range{}).ToGenerated()
}

func Arg(name string, typ *book.Expr) *book.Argument {
	return &book.Argument{Name: ident.Generate(name), Type: typ, Span: span.Generated()}
}

func Rule(name string, body *book.Expr, pats ...*book.Expr) *book.Rule {
	return &book.Rule{Name: Qualified(name), Pats: pats, Body: body, Span: span.Generated()}
}

func Entry(name string, args []*book.Argument, typ *book.Expr, rules ...*book.Rule) *book.Entry {
	return &book.Entry{Name: Qualified(name), Args: args, Type: typ, Rules: rules, Span: span.Generated()}
}

func BookOf(t testing.TB, entries ...*book.Entry) *book.Book {
	t.Helper()
	b := book.New()
	for _, e := range entries {
		if err := b.Add(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return b
}

// Identity is `Id (x: U60) : U60` with `Id x = x`.
func Identity() *book.Entry {
	return Entry("Id", []*book.Argument{Arg("x", book.U60Of())}, book.U60Of(),
		Rule("Id", book.VarOf("x"), book.VarOf("x")),
	)
}

// Main is `Main : U60` with `Main = body`.
func Main(body *book.Expr) *book.Entry {
	return Entry("Main", nil, book.U60Of(), Rule("Main", body))
}

// IdentityBook holds Identity and `Main = Id 5`.
func IdentityBook(t testing.TB) *book.Book {
	t.Helper()
	return BookOf(t, Identity(), Main(book.FunOf("Id", book.NumOf(5))))
}

// Log is the tracing primitive `HVM.log (a r: Type) (log: a) (ret: r) : r`.
func Log() *book.Entry {
	typ := book.TypOf()
	return Entry("HVM.log",
		[]*book.Argument{Arg("a", typ), Arg("r", typ), Arg("log", book.VarOf("a")), Arg("ret", book.VarOf("r"))},
		book.VarOf("r"),
		Rule("HVM.log", book.VarOf("ret"), book.VarOf("a"), book.VarOf("r"), book.VarOf("log"), book.VarOf("ret")),
	)
}

// NatAdd is unary naturals with recursive addition.
func NatAdd() []*book.Entry {
	nat := book.CtrOf("Nat")
	return []*book.Entry{
		Entry("Nat", nil, book.TypOf()),
		Entry("Nat.zero", nil, nat),
		Entry("Nat.succ", []*book.Argument{Arg("pred", nat)}, nat),
		Entry("Nat.add", []*book.Argument{Arg("a", nat), Arg("b", nat)}, nat,
			Rule("Nat.add", book.VarOf("b"), book.CtrOf("Nat.zero"), book.VarOf("b")),
			Rule("Nat.add",
				book.CtrOf("Nat.succ", book.FunOf("Nat.add", book.VarOf("a"), book.VarOf("b"))),
				book.CtrOf("Nat.succ", book.VarOf("a")), book.VarOf("b"),
			),
		),
	}
}
