package ast

import (
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

type SttmKind int

const (
	STTM_ASK      SttmKind = iota // ask x = value; next
	STTM_LET                      // let x = value; next
	STTM_EXPR                     // value; next
	STTM_RETURN                   // return value
	STTM_RET_EXPR                 // value (last statement)
)

// Sttm is one statement of a `do` block.
type Sttm struct {
	Kind     SttmKind
	Range    span.Range
	Destruct *Destruct
	Value    *Expr
	Next     *Sttm
}

type DestructKind int

const (
	DESTRUCT_IDENT DestructKind = iota
	DESTRUCT_RECORD
)

// Destruct is the left side of a let/ask: a plain name or a record pattern
// `Pair.new fst snd`.
type Destruct struct {
	Kind     DestructKind
	Range    span.Range
	Ident    ident.Ident
	Type     ident.QualifiedIdent
	Bindings []*CaseBinding
	Ignore   bool
}

// CaseBinding binds a field, optionally under another name (`fst = a`).
type CaseBinding struct {
	Field   ident.Ident
	Renamed *ident.Ident
}

func (c *CaseBinding) Bound() ident.Ident {
	if c.Renamed != nil {
		return *c.Renamed
	}
	return c.Field
}
