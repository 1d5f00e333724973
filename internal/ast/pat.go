package ast

import (
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

type PatKind int

const (
	PAT_VAR PatKind = iota
	PAT_STR
	PAT_NUM
	PAT_HOLE
	PAT_LIST
	PAT_PAIR
	PAT_APP
)

// Pat is a rule pattern. Only the fields relevant to Kind are set:
// Var for PAT_VAR, Name+Pats for PAT_APP, Pats for PAT_LIST and PAT_PAIR
// (two elements), Num and Str for literals.
type Pat struct {
	Kind  PatKind
	Range span.Range

	Var  ident.Ident
	Name ident.QualifiedIdent
	Pats []*Pat
	Num  uint64
	Str  string
}

func VarPat(name ident.Ident) *Pat {
	return &Pat{Kind: PAT_VAR, Range: name.Range, Var: name}
}

func AppPat(name ident.QualifiedIdent, r span.Range, pats ...*Pat) *Pat {
	return &Pat{Kind: PAT_APP, Range: r, Name: name, Pats: pats}
}
