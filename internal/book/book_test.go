package book

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

func entryNamed(name string) *Entry {
	return &Entry{Name: ident.ParseQualified(name, span.Range{}), Type: TypOf()}
}

func TestBookKeepsInsertionOrder(t *testing.T) {
	b := New()
	for _, name := range []string{"Zeta", "Alpha", "Nat.succ", "Beta"} {
		if err := b.Add(entryNamed(name)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var got []string
	for _, entry := range b.Entries() {
		got = append(got, entry.Name.String())
	}
	if diff := cmp.Diff([]string{"Zeta", "Alpha", "Nat.succ", "Beta"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBookRejectsDuplicates(t *testing.T) {
	b := New()
	_ = b.Add(entryNamed("A"))
	if err := b.Add(entryNamed("A")); !errors.Is(err, ERR_DUPLICATED_ENTRY) {
		t.Errorf("expected ERR_DUPLICATED_ENTRY, got %v", err)
	}
	if b.Len() != 1 {
		t.Errorf("expected one entry, got %d", b.Len())
	}
}

func TestExprString(t *testing.T) {
	tests := []struct {
		expr     *Expr
		expected string
	}{
		{expr: FunOf("Nat.add", NumOf(1), VarOf("x")), expected: "(Nat.add 1 x)"},
		{expr: AllOf("~", U60Of(), U60Of()), expected: "(U60 -> U60)"},
		{expr: LamOf("x", AppOf(VarOf("f"), VarOf("x"))), expected: "(x => (f x))"},
		{expr: StrOf("a\"b"), expected: `"a\"b"`},
		{expr: NewExpr(EXPR_ERR, span.Generated(), nil), expected: "<error>"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
