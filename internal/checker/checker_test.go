package checker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/hvm/reduce"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
	"github.com/kind-lang/kindhvm/internal/testutil"
)

type rejectingEngine struct {
	loads int
}

func (e *rejectingEngine) Load(code string) (hvm.Runtime, error) {
	e.loads++
	return nil, errors.New("syntax error")
}

// refusingRuntime accepts the program on Load and refuses it when run, the
// way an external engine does.
type refusingRuntime struct{}

func (refusingRuntime) AllocCode(code string) (hvm.Host, error) { return 0, nil }
func (refusingRuntime) RunIO(host hvm.Host) error {
	return fmt.Errorf("hvm exited: %w", hvm.ERR_REJECTED)
}
func (refusingRuntime) Normalize(host hvm.Host) error { return nil }
func (refusingRuntime) Readback(host hvm.Host) (*hvm.Term, error) {
	return nil, errors.New("never run")
}

type refusingEngine struct{}

func (refusingEngine) Load(code string) (hvm.Runtime, error) { return refusingRuntime{}, nil }

func bootstrapOf(t *testing.T, source string) Bootstrap {
	t.Helper()
	bootstrap, err := NewBootstrap("test", source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return bootstrap
}

func TestEvalIdentity(t *testing.T) {
	c := New(reduce.New(reduce.Options{}), DefaultBootstrap(), Options{})

	value, err := c.Eval(testutil.IdentityBook(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := value.String(); got != "5" {
		t.Errorf("expected 5, got %s", got)
	}
}

func TestEvalTracesLog(t *testing.T) {
	var trace strings.Builder
	b := testutil.BookOf(t,
		testutil.Log(),
		testutil.Main(book.FunOf("HVM.log", book.U60Of(), book.U60Of(), book.NumOf(42), book.NumOf(1))),
	)

	c := New(reduce.New(reduce.Options{Trace: &trace}), DefaultBootstrap(), Options{})
	value, err := c.Eval(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := value.String(); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
	if !strings.Contains(trace.String(), "42") {
		t.Errorf("expected the logged value in the trace, got %q", trace.String())
	}
}

func TestTypeCheck(t *testing.T) {
	tests := []struct {
		name      string
		checkAll  string
		succeeded bool
		messages  []string
	}{
		{
			name:      "no errors",
			checkAll:  "List.nil",
			succeeded: true,
		},
		{
			name:     "one record",
			checkAll: "(List.cons (Kind.Error.Quoted.type_mismatch List.nil 0 (Kind.Term.u60 0) (Kind.Term.typ 0)) List.nil)",
			messages: []string{"type mismatch\n  expected: U60\n  detected: Type"},
		},
		{
			name:     "records read the generated relations",
			checkAll: "(List.cons (Kind.Error.Quoted.inspection List.nil 0 (TypeOf Id.)) (List.cons (Kind.Error.Quoted.invalid_call List.nil 0) List.nil))",
			messages: []string{"expected type: ((x : U60) -> U60)", "this is not a function"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bootstrap := bootstrapOf(t, "Kind.API.check_all = "+tt.checkAll)
			c := New(reduce.New(reduce.Options{}), bootstrap, Options{})
			collector := diagnostics.New()

			succeeded, err := c.TypeCheck(testutil.IdentityBook(t), collector, []string{"Id", "Main"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if succeeded != tt.succeeded {
				t.Errorf("expected succeeded=%v, got %v", tt.succeeded, succeeded)
			}

			diags := collector.Drain()
			if len(diags) != len(tt.messages) {
				t.Fatalf("expected %d diagnostics, got %d", len(tt.messages), len(diags))
			}
			for i, diag := range diags {
				if diag.Message() != tt.messages[i] {
					t.Errorf("diagnostic %d: expected %q, got %q", i, tt.messages[i], diag.Message())
				}
			}
		})
	}
}

func TestTypeCheckFailures(t *testing.T) {
	broken := testutil.BookOf(t,
		testutil.Entry("Broken", nil, book.TypOf(), testutil.Rule("Broken", book.NewExpr(book.EXPR_ERR, span.Generated(), nil))),
	)

	tests := []struct {
		name      string
		engine    hvm.Engine
		bootstrap Bootstrap
		book      *book.Book
		expected  error
	}{
		{
			name:      "default bootstrap",
			engine:    reduce.New(reduce.Options{}),
			bootstrap: DefaultBootstrap(),
			book:      testutil.IdentityBook(t),
			expected:  ERR_NO_CHECKER,
		},
		{
			name:      "engine rejects",
			engine:    &rejectingEngine{},
			bootstrap: bootstrapOf(t, "Kind.API.check_all = List.nil"),
			book:      testutil.IdentityBook(t),
			expected:  ERR_ENGINE_REJECTED,
		},
		{
			name:      "engine refuses when running",
			engine:    refusingEngine{},
			bootstrap: bootstrapOf(t, "Kind.API.check_all = List.nil"),
			book:      testutil.IdentityBook(t),
			expected:  ERR_ENGINE_REJECTED,
		},
		{
			name:      "malformed report",
			engine:    reduce.New(reduce.Options{}),
			bootstrap: bootstrapOf(t, "Kind.API.check_all = 5"),
			book:      testutil.IdentityBook(t),
			expected:  ERR_INTERNAL,
		},
		{
			name:      "error marker",
			engine:    reduce.New(reduce.Options{}),
			bootstrap: bootstrapOf(t, "Kind.API.check_all = List.nil"),
			book:      broken,
			expected:  ERR_INTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := diagnostics.New()
			_, err := New(tt.engine, tt.bootstrap, Options{}).TypeCheck(tt.book, collector, nil)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
			if collector.Len() != 0 {
				t.Errorf("internal failures must not produce diagnostics")
			}
		})
	}
}

func TestGenChecker(t *testing.T) {
	bootstrap := bootstrapOf(t, "Kind.API.check_all = List.nil")
	gen := func() string {
		code, err := GenChecker(bootstrap, testutil.IdentityBook(t), []string{"Id"}, ident.NewCodec(), Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return code
	}

	code := gen()
	if !strings.HasPrefix(code, "Kind.API.check_all = List.nil\n") {
		t.Errorf("expected the bootstrap first, got %q", code[:40])
	}
	if !strings.HasSuffix(code, "Functions = (List.cons Id. List.nil)\n") {
		t.Errorf("expected the functions list last")
	}
	if code != gen() {
		t.Errorf("generated code differs between runs")
	}
}

func TestLoadBootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checker.hvm")
	source := "// version: 2.1\nKind.API.check_all = List.nil\n"
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bootstrap, err := LoadBootstrap(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bootstrap.Version != "2.1" {
		t.Errorf("expected version 2.1, got %s", bootstrap.Version)
	}
	if !bootstrap.Defines(checkAllEntry) || bootstrap.Defines(evalMainEntry) {
		t.Errorf("unexpected entries for %q", source)
	}

	if _, err := LoadBootstrap(filepath.Join(t.TempDir(), "missing.hvm")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
	if _, err := NewBootstrap("bad", "(Foo = "); err == nil {
		t.Errorf("expected a syntax error")
	}
	if got := DefaultBootstrap().Version; got != "eval-prelude" {
		t.Errorf("expected the embedded prelude, got %s", got)
	}
}
