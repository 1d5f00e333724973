package diagnostics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/span"
)

func at(ctx, start, end int) span.Span {
	r, err := span.NewRange(start, end, span.SyntaxCtxIndex(ctx))
	if err != nil {
		panic(err)
	}
	return span.Locatable(r)
}

func TestCollectorKeepsProducerOrder(t *testing.T) {
	const producers, perProducer = 8, 50

	collector := New()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				collector.Send(UnboundVariable(fmt.Sprintf("%d:%d", p, i), nil))
			}
		}(p)
	}
	wg.Wait()

	if got := collector.Len(); got != producers*perProducer {
		t.Fatalf("expected %d diagnostics, got %d", producers*perProducer, got)
	}

	next := make([]int, producers)
	for _, diag := range collector.Drain() {
		var p, i int
		if _, err := fmt.Sscanf(diag.(*PassError).Name(), "%d:%d", &p, &i); err != nil {
			t.Fatalf("unexpected name %q: %v", diag.(*PassError).Name(), err)
		}
		if i != next[p] {
			t.Fatalf("producer %d: expected diagnostic %d, got %d", p, next[p], i)
		}
		next[p]++
	}

	if got := collector.Len(); got != 0 {
		t.Errorf("expected an empty collector after Drain, got %d", got)
	}
}

func TestPassErrorMessages(t *testing.T) {
	first, repeated := at(0, 4, 5), at(0, 10, 11)
	tests := []struct {
		name     string
		diag     *PassError
		kind     Kind
		expected string
		spans    []span.Span
	}{
		{
			name:     "unbound variable",
			diag:     UnboundVariable("x", []span.Span{first}),
			kind:     KIND_UNBOUND_VARIABLE,
			expected: "cannot find the definition 'x'",
			spans:    []span.Span{first},
		},
		{
			name:     "unbound top-level",
			diag:     UnboundTopLevel("Foo.bar", []span.Span{first, repeated}),
			kind:     KIND_UNBOUND_TOP_LEVEL,
			expected: "cannot find the top-level definition 'Foo.bar' (2 occurrences)",
			spans:    []span.Span{first, repeated},
		},
		{
			name:     "repeated variable",
			diag:     RepeatedVariable("a", first.Range, repeated.Range),
			kind:     KIND_REPEATED_VARIABLE,
			expected: "the variable 'a' is bound more than once in the same pattern",
			spans:    []span.Span{repeated, first},
		},
		{
			name:     "repeated constructor",
			diag:     RepeatedConstructor("zero", first.Range, repeated.Range),
			kind:     KIND_REPEATED_CONSTRUCTOR,
			expected: "the constructor 'zero' is declared more than once",
			spans:    []span.Span{repeated, first},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.diag.Kind() != tt.kind {
				t.Errorf("expected kind %d, got %d", tt.kind, tt.diag.Kind())
			}
			if got := tt.diag.Message(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if diff := cmp.Diff(tt.spans, tt.diag.Spans()); diff != "" {
				t.Errorf("spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckerErrorMessages(t *testing.T) {
	orig := at(0, 20, 25)
	nat := book.CtrOf("Nat")
	u60 := book.U60Of()

	tests := []struct {
		name     string
		diag     *CheckerError
		expected string
	}{
		{name: "unbound", diag: CheckerUnboundVariable(nil, orig, "y"), expected: "cannot find the definition 'y'"},
		{name: "hole", diag: CantInferHole(nil, orig), expected: "cannot infer the type of this hole, add an annotation"},
		{name: "lambda", diag: CantInferLambda(nil, orig), expected: "cannot infer the type of this lambda, add an annotation"},
		{name: "invalid call", diag: InvalidCall(nil, orig), expected: "this is not a function"},
		{name: "too many arguments", diag: TooManyArguments(nil, orig), expected: "too many arguments"},
		{name: "impossible case", diag: ImpossibleCase(nil, orig, nat, u60), expected: "impossible case: expected Nat, found U60"},
		{name: "inspection", diag: Inspection(nil, orig, nat), expected: "expected type: Nat"},
		{name: "mismatch", diag: TypeMismatch(nil, orig, nat, u60), expected: "type mismatch\n  expected: Nat\n  detected: U60"},
		{
			name: "with context",
			diag: TooManyArguments([]ContextEntry{
				{Name: "n", Type: nat, Values: []*book.Expr{book.CtrOf("Nat.zero")}},
				{Name: "m", Type: u60},
			}, orig),
			expected: "too many arguments\ncontext:\n  n : Nat\n  n = Nat.zero\n  m : U60",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.diag.Message(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if got := tt.diag.Origin(); got != orig {
				t.Errorf("expected origin %s, got %s", orig, got)
			}
		})
	}
}

func TestCheckerErrorSpans(t *testing.T) {
	orig := at(1, 3, 9)

	located := book.U60Of()
	located.Span = at(1, 40, 43)
	sameAsOrig := book.U60Of()
	sameAsOrig.Span = orig

	tests := []struct {
		name     string
		detected *book.Expr
		expected []span.Span
	}{
		{name: "generated detected term", detected: book.U60Of(), expected: []span.Span{orig}},
		{name: "located detected term", detected: located, expected: []span.Span{orig, located.Span}},
		{name: "detected at the origin", detected: sameAsOrig, expected: []span.Span{orig}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := TypeMismatch(nil, orig, book.CtrOf("Nat"), tt.detected)
			if diff := cmp.Diff(tt.expected, diag.Spans()); diff != "" {
				t.Errorf("spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestThereIsNoMain(t *testing.T) {
	var diag Diagnostic = ThereIsNoMain()
	if diag.Kind() != KIND_THERE_IS_NO_MAIN {
		t.Errorf("expected KIND_THERE_IS_NO_MAIN, got %d", diag.Kind())
	}
	if got := diag.Message(); got != "cannot find the 'Main' entry point" {
		t.Errorf("unexpected message %q", got)
	}
	if spans := diag.Spans(); len(spans) != 0 {
		t.Errorf("expected no spans, got %v", spans)
	}
}
