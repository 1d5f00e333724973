// Package ident holds local and qualified identifiers and the numeric codec
// used to embed names inside generated rules.
package ident

import (
	"strings"

	"github.com/kind-lang/kindhvm/internal/span"
)

// Ident is a local name: a variable, a binder or a pattern variable.
type Ident struct {
	Name      string
	Range     span.Range
	Generated bool
}

func New(name string, r span.Range) Ident {
	return Ident{Name: name, Range: r}
}

// Generate builds a name that does not come from the source, e.g. the binder
// of a non-dependent function type.
func Generate(name string) Ident {
	return Ident{Name: name, Generated: true}
}

func (i Ident) String() string { return i.Name }

func (i Ident) Span() span.Span {
	if i.Generated {
		return span.Generated()
	}
	return span.Locatable(i.Range)
}

// QualifiedIdent names a top-level definition, e.g. `Nat.succ`. Root is the
// namespace part and Aux the optional trailing segments.
type QualifiedIdent struct {
	Root  string
	Aux   string
	Range span.Range

	// Sugar marks names synthesized for a sugar form (`List.cons` for a list
	// literal); Generated marks names that have no source position at all.
	Sugar     bool
	Generated bool
}

func NewQualified(root, aux string, r span.Range) QualifiedIdent {
	return QualifiedIdent{Root: root, Aux: aux, Range: r}
}

func NewSugared(root, aux string, r span.Range) QualifiedIdent {
	return QualifiedIdent{Root: root, Aux: aux, Range: r, Sugar: true}
}

// ParseQualified splits `A.B.c` at its first dot.
func ParseQualified(name string, r span.Range) QualifiedIdent {
	root, aux, _ := strings.Cut(name, ".")
	return QualifiedIdent{Root: root, Aux: aux, Range: r}
}

func (q QualifiedIdent) String() string {
	if q.Aux == "" {
		return q.Root
	}
	return q.Root + "." + q.Aux
}

func (q QualifiedIdent) AddSegment(segment string) QualifiedIdent {
	next := q
	if q.Aux == "" {
		next.Aux = segment
	} else {
		next.Aux = q.Aux + "." + segment
	}
	return next
}

func (q QualifiedIdent) ToSugar() QualifiedIdent {
	q.Sugar = true
	return q
}

func (q QualifiedIdent) ToGenerated() QualifiedIdent {
	q.Generated = true
	return q
}

func (q QualifiedIdent) Span() span.Span {
	if q.Generated {
		return span.Generated()
	}
	return span.Locatable(q.Range)
}
