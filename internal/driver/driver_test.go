package driver

import (
	"errors"
	"testing"

	"github.com/kind-lang/kindhvm/internal/ast"
	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/checker"
	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/hvm/reduce"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/session"
	"github.com/kind-lang/kindhvm/internal/testutil"
)

type engineSpy struct {
	engine hvm.Engine
	loads  int
}

func (e *engineSpy) Load(code string) (hvm.Runtime, error) {
	e.loads++
	return e.engine.Load(code)
}

type desugarSpy struct {
	book  *book.Book
	diags []diagnostics.Diagnostic
	calls int
}

func (d *desugarSpy) Desugar(sender diagnostics.Sender, module *ast.Module) (*book.Book, error) {
	d.calls++
	for _, diag := range d.diags {
		sender.Send(diag)
	}
	return d.book, nil
}

// mainModule is `Main : Type` with `Main = <body>`.
func mainModule(body *ast.Expr) *ast.Module {
	typ := ast.NewExpr(ast.EXPR_LIT, testutil.Rng(0), &ast.Lit{Kind: ast.LIT_TYPE})
	main := &ast.TopLevel{
		Kind: ast.TOP_ENTRY,
		Node: &ast.Entry{
			Name:  ident.ParseQualified("Main", testutil.Rng(0)),
			Type:  typ,
			Rules: []*ast.Rule{{Name: ident.ParseQualified("Main", testutil.Rng(0)), Body: body}},
		},
	}
	return &ast.Module{Entries: []*ast.TopLevel{main}}
}

func reference(name string, at int) *ast.Expr {
	return ast.NewExpr(ast.EXPR_CONSTR, testutil.Rng(at), &ast.Constr{Name: ident.ParseQualified(name, testutil.Rng(at))})
}

func newChecker(t *testing.T, checkAll string) (*checker.Checker, *engineSpy) {
	t.Helper()
	bootstrap, err := checker.NewBootstrap("test", "Kind.API.eval_main = (Kind.Term.FN0 Main. 0)\nKind.API.check_all = "+checkAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spy := &engineSpy{engine: reduce.New(reduce.Options{})}
	return checker.New(spy, bootstrap, checker.Options{}), spy
}

func TestUnboundReferenceStopsBeforeTheEngine(t *testing.T) {
	s := session.New()
	c, engine := newChecker(t, "List.nil")
	desugar := &desugarSpy{book: testutil.IdentityBook(t)}

	_, err := TypeCheckModule(s, mainModule(reference("Foo.bar", 7)), desugar, c, nil)
	if !errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}
	if desugar.calls != 0 || engine.loads != 0 {
		t.Errorf("expected no desugaring and no engine run, got %d and %d", desugar.calls, engine.loads)
	}

	diags := s.Diagnostics.Drain()
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	pass, ok := diags[0].(*diagnostics.PassError)
	if !ok || pass.Kind() != diagnostics.KIND_UNBOUND_TOP_LEVEL || pass.Name() != "Foo.bar" {
		t.Fatalf("unexpected diagnostic %v", diags[0])
	}
	if spans := pass.Spans(); len(spans) != 1 || spans[0].Range.Start != 7 {
		t.Errorf("expected one occurrence at 7, got %v", spans)
	}
}

func TestUnboundNamesAreSorted(t *testing.T) {
	s := session.New()
	body := ast.NewExpr(ast.EXPR_APP, testutil.Rng(1), &ast.App{
		Head: reference("Zed.a", 1),
		Args: []*ast.AppBinding{{Value: reference("Abc.b", 2)}},
	})

	if !CheckUnboundTopLevel(s, mainModule(body)) {
		t.Fatalf("expected failure")
	}

	var names []string
	for _, diag := range s.Diagnostics.Drain() {
		names = append(names, diag.(*diagnostics.PassError).Name())
	}
	if len(names) != 2 || names[0] != "Abc.b" || names[1] != "Zed.a" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestMissingOpenStopsBeforeDesugaring(t *testing.T) {
	s := session.New()
	c, engine := newChecker(t, "List.nil")
	desugar := &desugarSpy{book: testutil.IdentityBook(t)}

	// record Pair { fst : Type }
	// Main = let Pair {fst} = Type; fst
	typ := ast.NewExpr(ast.EXPR_LIT, testutil.Rng(3), &ast.Lit{Kind: ast.LIT_TYPE})
	pair := &ast.TopLevel{
		Kind: ast.TOP_RECORD_TYPE,
		Node: &ast.RecordType{
			Name:        ident.ParseQualified("Pair", testutil.Rng(1)),
			Constructor: ident.New("new", testutil.Rng(2)),
			Fields:      []*ast.Field{{Name: ident.New("fst", testutil.Rng(3)), Type: typ}},
		},
	}
	let := ast.NewExpr(ast.EXPR_LET, testutil.Rng(5), &ast.Let{
		Binding: &ast.Destruct{
			Kind:     ast.DESTRUCT_RECORD,
			Range:    testutil.Rng(5),
			Type:     ident.ParseQualified("Pair", testutil.Rng(6)),
			Bindings: []*ast.CaseBinding{{Field: ident.New("fst", testutil.Rng(7))}},
		},
		Value: typ,
		Body:  ast.NewExpr(ast.EXPR_VAR, testutil.Rng(8), &ast.Var{Name: ident.New("fst", testutil.Rng(8))}),
	})
	module := mainModule(let)
	module.Entries = append([]*ast.TopLevel{pair}, module.Entries...)

	_, err := TypeCheckModule(s, module, desugar, c, nil)
	if !errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}
	if desugar.calls != 0 || engine.loads != 0 {
		t.Errorf("expected no desugaring and no engine run, got %d and %d", desugar.calls, engine.loads)
	}

	diags := s.Diagnostics.Drain()
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	pass := diags[0].(*diagnostics.PassError)
	if pass.Name() != "Pair.open" {
		t.Fatalf("expected Pair.open to be reported, got %s", pass.Name())
	}
	if spans := pass.Spans(); len(spans) != 1 || spans[0].Range.Start != 5 {
		t.Errorf("expected the let to be pointed at, got %v", spans)
	}
}

func TestGeneratedOnlyReferenceIsStillReported(t *testing.T) {
	s := session.New()
	name := ident.ParseQualified("Nat.match", testutil.Rng(0)).ToSugar().ToGenerated()
	body := ast.NewExpr(ast.EXPR_CONSTR, testutil.Rng(4), &ast.Constr{Name: name})

	if !CheckUnboundTopLevel(s, mainModule(body)) {
		t.Fatalf("expected failure")
	}

	diags := s.Diagnostics.Drain()
	if len(diags) != 1 || diags[0].(*diagnostics.PassError).Name() != "Nat.match" {
		t.Fatalf("expected Nat.match to be reported, got %v", diags)
	}
	if spans := diags[0].Spans(); len(spans) != 0 {
		t.Errorf("expected no position for a generated reference, got %v", spans)
	}
}

func TestTypeCheckModule(t *testing.T) {
	tests := []struct {
		name      string
		checkAll  string
		desugared []diagnostics.Diagnostic
		expected  error
		diags     int
		loads     int
	}{
		{name: "clean", checkAll: "List.nil", loads: 1},
		{
			name:     "checker errors",
			checkAll: "(List.cons (Kind.Error.Quoted.invalid_call List.nil 0) (List.cons (Kind.Error.Quoted.too_many_arguments List.nil 0) List.nil))",
			expected: diagnostics.COMPILER_ERROR_FOUND,
			diags:    2,
			loads:    1,
		},
		{
			name:      "desugaring errors",
			checkAll:  "List.nil",
			desugared: []diagnostics.Diagnostic{diagnostics.UnboundVariable("y", nil)},
			expected:  diagnostics.COMPILER_ERROR_FOUND,
			diags:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New()
			c, engine := newChecker(t, tt.checkAll)
			desugar := &desugarSpy{book: testutil.IdentityBook(t), diags: tt.desugared}

			b, err := TypeCheckModule(s, mainModule(reference("Main", 7)), desugar, c, []string{"Main"})
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
			if tt.expected == nil && b == nil {
				t.Errorf("expected the checked book")
			}
			if got := s.Diagnostics.Len(); got != tt.diags {
				t.Errorf("expected %d diagnostics, got %d", tt.diags, got)
			}
			if engine.loads != tt.loads {
				t.Errorf("expected %d engine loads, got %d", tt.loads, engine.loads)
			}
		})
	}
}

func TestEvalModule(t *testing.T) {
	s := session.New()
	c, _ := newChecker(t, "List.nil")
	desugar := DesugarFunc(func(sender diagnostics.Sender, module *ast.Module) (*book.Book, error) {
		return testutil.IdentityBook(t), nil
	})

	value, err := EvalModule(s, mainModule(reference("Main", 7)), desugar, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := value.String(); got != "5" {
		t.Errorf("expected 5, got %s", got)
	}
}

func TestEvalWithoutMain(t *testing.T) {
	s := session.New()
	c, engine := newChecker(t, "List.nil")

	_, err := EvalBook(s, book.New(), c)
	if !errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}
	if engine.loads != 0 {
		t.Errorf("expected no engine run")
	}

	diags := s.Diagnostics.Drain()
	if len(diags) != 1 || diags[0].Kind() != diagnostics.KIND_THERE_IS_NO_MAIN {
		t.Errorf("expected a missing Main diagnostic, got %v", diags)
	}
}
