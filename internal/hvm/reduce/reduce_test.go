package reduce

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kind-lang/kindhvm/internal/hvm"
)

const arithmetic = `
(Add Z b) = b
(Add (S a) b) = (S (Add a b))

(IsZero 0) = 1
(IsZero n) = 0

(Twice f x) = (f (f x))
`

func run(t *testing.T, engine *Engine, code, entry string) *hvm.Term {
	t.Helper()
	rt, err := engine.Load(code)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	term, err := hvm.Run(rt, entry)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	return term
}

func TestNormalForms(t *testing.T) {
	tests := []struct {
		entry    string
		expected string
	}{
		{entry: "(Add (S (S Z)) (S Z))", expected: "(S (S (S Z)))"},
		{entry: "(IsZero (- 3 3))", expected: "1"},
		{entry: "(IsZero 4)", expected: "0"},
		{entry: "(Twice @_n (+ _n 1) 5)", expected: "7"},
		{entry: "(* 3 (+ 1 1))", expected: "6"},
		{entry: "(- 0 1)", expected: "1152921504606846975"},
		{entry: "(/ 1 0)", expected: "0"},
		{entry: "(Pair (Add Z 1) (IsZero 0))", expected: "(Pair 1 1)"},
		{entry: "@_x (Add Z _x)", expected: "@_x _x"},
		{entry: "(Unknown (Add Z 2))", expected: "(Unknown 2)"},
	}

	engine := New(Options{})
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			if got := run(t, engine, arithmetic, tt.entry).String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSubstitutionAvoidsCapture(t *testing.T) {
	term := run(t, New(Options{}), "", "(@_x @_y _x _y)")

	if term.Kind != hvm.TERM_LAM {
		t.Fatalf("expected a lambda, got %s", term)
	}
	if term.Name == "_y" {
		t.Errorf("binder captured the free variable: %s", term)
	}
	if term.Body.Kind != hvm.TERM_VAR || term.Body.Name != "_y" {
		t.Errorf("expected the body to be the free _y, got %s", term.Body)
	}
}

func TestPutWritesTrace(t *testing.T) {
	code := `
(Log msg ret) = (HVM.put (HVM.Term.show msg) ret)
Main = (Log (Pair 1 (Add Z 2)) 42)
Hello = (HVM.put (String.cons 104 (String.cons 105 String.nil)) 0)
` + arithmetic

	var trace bytes.Buffer
	engine := New(Options{Trace: &trace})

	if got := run(t, engine, code, "Main").String(); got != "42" {
		t.Errorf("expected 42, got %s", got)
	}
	run(t, engine, code, "Hello")

	if got := trace.String(); got != "(Pair 1 2)\nhi\n" {
		t.Errorf("unexpected trace %q", got)
	}
}

func TestLoadRejectsInvalidRules(t *testing.T) {
	wide := "(Wide a b c d e f g h i j k l m n o p) = 0"
	tests := []struct {
		name     string
		code     string
		expected error
	}{
		{name: "unbound variable", code: "(F a) = b", expected: ERR_INVALID_RULE},
		{name: "repeated variable", code: "(F a a) = a", expected: ERR_INVALID_RULE},
		{name: "lambda pattern", code: "(F @x x) = 0", expected: ERR_INVALID_RULE},
		{name: "wildcard on the right", code: "(F *) = *", expected: ERR_INVALID_RULE},
		{name: "arity", code: wide, expected: ERR_ARITY},
		{name: "syntax", code: "(F a = a", expected: hvm.ERR_SYNTAX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(Options{}).Load(tt.code); !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestStepLimit(t *testing.T) {
	rt, err := New(Options{MaxSteps: 1000}).Load("Loop = Loop")
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if _, err := hvm.Run(rt, "Loop"); !errors.Is(err, ERR_STEP_LIMIT) {
		t.Errorf("expected ERR_STEP_LIMIT, got %v", err)
	}
}

func TestInvalidHost(t *testing.T) {
	rt, _ := New(Options{}).Load("")
	if err := rt.Normalize(3); !errors.Is(err, ERR_INVALID_HOST) {
		t.Errorf("expected ERR_INVALID_HOST, got %v", err)
	}
}
