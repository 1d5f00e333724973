package diagnostics

import (
	"fmt"

	"github.com/kind-lang/kindhvm/internal/span"
)

// PassError is reported by the resolution passes.
type PassError struct {
	kind  Kind
	name  string
	spans []span.Span
}

func UnboundVariable(name string, occurrences []span.Span) *PassError {
	return &PassError{kind: KIND_UNBOUND_VARIABLE, name: name, spans: occurrences}
}

func UnboundTopLevel(name string, occurrences []span.Span) *PassError {
	return &PassError{kind: KIND_UNBOUND_TOP_LEVEL, name: name, spans: occurrences}
}

// RepeatedVariable points at the first binding and at the repeated one.
func RepeatedVariable(name string, first, repeated span.Range) *PassError {
	return &PassError{
		kind:  KIND_REPEATED_VARIABLE,
		name:  name,
		spans: []span.Span{span.Locatable(repeated), span.Locatable(first)},
	}
}

func RepeatedConstructor(name string, first, repeated span.Range) *PassError {
	return &PassError{
		kind:  KIND_REPEATED_CONSTRUCTOR,
		name:  name,
		spans: []span.Span{span.Locatable(repeated), span.Locatable(first)},
	}
}

func (e *PassError) Kind() Kind         { return e.kind }
func (e *PassError) Name() string       { return e.name }
func (e *PassError) Spans() []span.Span { return e.spans }

func (e *PassError) Message() string {
	switch e.kind {
	case KIND_UNBOUND_VARIABLE:
		return fmt.Sprintf("cannot find the definition '%s'", e.name)
	case KIND_UNBOUND_TOP_LEVEL:
		return fmt.Sprintf("cannot find the top-level definition '%s'%s", e.name, occurrences(len(e.spans)))
	case KIND_REPEATED_VARIABLE:
		return fmt.Sprintf("the variable '%s' is bound more than once in the same pattern", e.name)
	case KIND_REPEATED_CONSTRUCTOR:
		return fmt.Sprintf("the constructor '%s' is declared more than once", e.name)
	default:
		return fmt.Sprintf("unknown pass error '%s'", e.name)
	}
}

func occurrences(n int) string {
	if n <= 1 {
		return ""
	}
	return fmt.Sprintf(" (%d occurrences)", n)
}
