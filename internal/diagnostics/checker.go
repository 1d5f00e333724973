package diagnostics

import (
	"fmt"
	"strings"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/span"
)

// ContextEntry is one variable of the typing context a checker error was
// raised in. Values holds the terms the variable is known to be equal to.
type ContextEntry struct {
	Name   string
	Type   *book.Expr
	Values []*book.Expr
}

// CheckerError is a diagnostic decoded from the checker's report.
type CheckerError struct {
	kind     Kind
	ctx      []ContextEntry
	orig     span.Span
	name     string
	expected *book.Expr
	detected *book.Expr
}

func CheckerUnboundVariable(ctx []ContextEntry, orig span.Span, name string) *CheckerError {
	return &CheckerError{kind: KIND_CHECKER_UNBOUND_VARIABLE, ctx: ctx, orig: orig, name: name}
}

func CantInferHole(ctx []ContextEntry, orig span.Span) *CheckerError {
	return &CheckerError{kind: KIND_CANT_INFER_HOLE, ctx: ctx, orig: orig}
}

func CantInferLambda(ctx []ContextEntry, orig span.Span) *CheckerError {
	return &CheckerError{kind: KIND_CANT_INFER_LAMBDA, ctx: ctx, orig: orig}
}

func InvalidCall(ctx []ContextEntry, orig span.Span) *CheckerError {
	return &CheckerError{kind: KIND_INVALID_CALL, ctx: ctx, orig: orig}
}

func TooManyArguments(ctx []ContextEntry, orig span.Span) *CheckerError {
	return &CheckerError{kind: KIND_TOO_MANY_ARGUMENTS, ctx: ctx, orig: orig}
}

func ImpossibleCase(ctx []ContextEntry, orig span.Span, expected, detected *book.Expr) *CheckerError {
	return &CheckerError{kind: KIND_IMPOSSIBLE_CASE, ctx: ctx, orig: orig, expected: expected, detected: detected}
}

func Inspection(ctx []ContextEntry, orig span.Span, expected *book.Expr) *CheckerError {
	return &CheckerError{kind: KIND_INSPECTION, ctx: ctx, orig: orig, expected: expected}
}

func TypeMismatch(ctx []ContextEntry, orig span.Span, expected, detected *book.Expr) *CheckerError {
	return &CheckerError{kind: KIND_TYPE_MISMATCH, ctx: ctx, orig: orig, expected: expected, detected: detected}
}

func (e *CheckerError) Kind() Kind              { return e.kind }
func (e *CheckerError) Context() []ContextEntry { return e.ctx }
func (e *CheckerError) Name() string            { return e.name }
func (e *CheckerError) Expected() *book.Expr    { return e.expected }
func (e *CheckerError) Detected() *book.Expr    { return e.detected }
func (e *CheckerError) Origin() span.Span       { return e.orig }

// Spans is the origin of the error followed, for mismatches, by the position
// of the detected term when it has one.
func (e *CheckerError) Spans() []span.Span {
	spans := []span.Span{e.orig}
	if e.detected != nil && e.detected.Span.Locatable && e.detected.Span != e.orig {
		spans = append(spans, e.detected.Span)
	}
	return spans
}

func (e *CheckerError) Message() string {
	var sb strings.Builder
	switch e.kind {
	case KIND_CHECKER_UNBOUND_VARIABLE:
		fmt.Fprintf(&sb, "cannot find the definition '%s'", e.name)
	case KIND_CANT_INFER_HOLE:
		sb.WriteString("cannot infer the type of this hole, add an annotation")
	case KIND_CANT_INFER_LAMBDA:
		sb.WriteString("cannot infer the type of this lambda, add an annotation")
	case KIND_INVALID_CALL:
		sb.WriteString("this is not a function")
	case KIND_TOO_MANY_ARGUMENTS:
		sb.WriteString("too many arguments")
	case KIND_IMPOSSIBLE_CASE:
		fmt.Fprintf(&sb, "impossible case: expected %s, found %s", e.expected, e.detected)
	case KIND_INSPECTION:
		fmt.Fprintf(&sb, "expected type: %s", e.expected)
	case KIND_TYPE_MISMATCH:
		fmt.Fprintf(&sb, "type mismatch\n  expected: %s\n  detected: %s", e.expected, e.detected)
	default:
		return "unknown checker error"
	}

	if len(e.ctx) > 0 {
		sb.WriteString("\ncontext:")
		for _, entry := range e.ctx {
			fmt.Fprintf(&sb, "\n  %s : %s", entry.Name, entry.Type)
			for _, value := range entry.Values {
				fmt.Fprintf(&sb, "\n  %s = %s", entry.Name, value)
			}
		}
	}
	return sb.String()
}
