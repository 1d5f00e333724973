package ast

import (
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

type TopLevelKind int

const (
	TOP_SUM_TYPE    TopLevelKind = iota // *SumType
	TOP_RECORD_TYPE                     // *RecordType
	TOP_ENTRY                           // *Entry
)

type TopLevel struct {
	Kind TopLevelKind
	Node any
}

func (t *TopLevel) Name() ident.QualifiedIdent {
	switch t.Kind {
	case TOP_SUM_TYPE:
		return t.Node.(*SumType).Name
	case TOP_RECORD_TYPE:
		return t.Node.(*RecordType).Name
	default:
		return t.Node.(*Entry).Name
	}
}

type Argument struct {
	Hidden bool
	Erased bool
	Name   ident.Ident
	Type   *Expr
	Range  span.Range
}

type Rule struct {
	Name  ident.QualifiedIdent
	Pats  []*Pat
	Body  *Expr
	Range span.Range
}

type Entry struct {
	Name  ident.QualifiedIdent
	Args  []*Argument
	Type  *Expr
	Rules []*Rule
	Range span.Range
}

type Constructor struct {
	Name ident.Ident
	Args []*Argument
	Type *Expr
}

type SumType struct {
	Name         ident.QualifiedIdent
	Parameters   []*Argument
	Indices      []*Argument
	Constructors []*Constructor
}

type Field struct {
	Name ident.Ident
	Type *Expr
}

type RecordType struct {
	Name        ident.QualifiedIdent
	Parameters  []*Argument
	Constructor ident.Ident
	Fields      []*Field
}
