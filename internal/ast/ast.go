// Package ast defines the surface (concrete) tree that the parser hands to the
// name-resolution passes. Nodes keep their source ranges so every diagnostic
// can point back at the text.
package ast

import (
	"fmt"

	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

type ExprKind int

const (
	EXPR_VAR    ExprKind = iota // *Var
	EXPR_CONSTR                 // *Constr
	EXPR_ALL                    // *All
	EXPR_LAMBDA                 // *Lambda
	EXPR_APP                    // *App
	EXPR_ANN                    // *Ann
	EXPR_LIT                    // *Lit
	EXPR_BINARY                 // *Binary
	EXPR_LET                    // *Let
	EXPR_SIGMA                  // *Sigma
	EXPR_MATCH                  // *Match
	EXPR_SUBST                  // *Subst
	EXPR_HOLE                   // nil
	EXPR_DO                     // *Do
	EXPR_IF                     // *If
	EXPR_PAIR                   // *Pair
	EXPR_LIST                   // *List
)

func (k ExprKind) String() string {
	switch k {
	case EXPR_VAR:
		return "EXPR_VAR"
	case EXPR_CONSTR:
		return "EXPR_CONSTR"
	case EXPR_ALL:
		return "EXPR_ALL"
	case EXPR_LAMBDA:
		return "EXPR_LAMBDA"
	case EXPR_APP:
		return "EXPR_APP"
	case EXPR_ANN:
		return "EXPR_ANN"
	case EXPR_LIT:
		return "EXPR_LIT"
	case EXPR_BINARY:
		return "EXPR_BINARY"
	case EXPR_LET:
		return "EXPR_LET"
	case EXPR_SIGMA:
		return "EXPR_SIGMA"
	case EXPR_MATCH:
		return "EXPR_MATCH"
	case EXPR_SUBST:
		return "EXPR_SUBST"
	case EXPR_HOLE:
		return "EXPR_HOLE"
	case EXPR_DO:
		return "EXPR_DO"
	case EXPR_IF:
		return "EXPR_IF"
	case EXPR_PAIR:
		return "EXPR_PAIR"
	case EXPR_LIST:
		return "EXPR_LIST"
	default:
		return fmt.Sprintf("Unknown Expr Kind: %d", int(k))
	}
}

type Expr struct {
	Kind  ExprKind
	Range span.Range
	Node  any
}

func NewExpr(kind ExprKind, r span.Range, node any) *Expr {
	return &Expr{Kind: kind, Range: r, Node: node}
}

type Var struct {
	Name ident.Ident
}

// Binding is one argument of a constructor call; Name is set for named
// arguments (`Pair.new (fst = a) (snd = b)`).
type Binding struct {
	Name  *ident.Ident
	Value *Expr
}

type Constr struct {
	Name ident.QualifiedIdent
	Args []*Binding
}

// All is a dependent function type. Name is nil for `A -> B`.
type All struct {
	Name   *ident.Ident
	Type   *Expr
	Body   *Expr
	Erased bool
}

type Lambda struct {
	Name   ident.Ident
	Binder *Expr
	Body   *Expr
	Erased bool
}

type AppBinding struct {
	Value  *Expr
	Erased bool
}

type App struct {
	Head *Expr
	Args []*AppBinding
}

type Ann struct {
	Value *Expr
	Type  *Expr
}

type LitKind int

const (
	LIT_TYPE LitKind = iota
	LIT_U60
	LIT_NUM
	LIT_STR
	LIT_CHAR
	LIT_HELP
)

type Lit struct {
	Kind LitKind
	Num  uint64
	Str  string
}

type Operator int

const (
	OP_ADD Operator = iota
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_AND
	OP_OR
	OP_XOR
	OP_SHL
	OP_SHR
	OP_LTN
	OP_LTE
	OP_EQL
	OP_GTE
	OP_GTN
	OP_NEQ
)

type Binary struct {
	Op    Operator
	Left  *Expr
	Right *Expr
}

type Let struct {
	Binding *Destruct
	Value   *Expr
	Body    *Expr
}

type Sigma struct {
	Name *ident.Ident
	Type *Expr
	Body *Expr
}

type Case struct {
	Constructor ident.Ident
	Bindings    []*CaseBinding
	Value       *Expr
}

type Match struct {
	Type      ident.QualifiedIdent
	Scrutinee *Expr
	Cases     []*Case
	Motive    *Expr
}

// Subst is `## name / redex expr`. Index is filled in by name resolution with
// the position of Name in the enclosing context.
type Subst struct {
	Name  ident.Ident
	Index int
	Redex int
	Expr  *Expr
}

type Do struct {
	Type ident.QualifiedIdent
	Sttm *Sttm
}

type If struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

type Pair struct {
	Fst *Expr
	Snd *Expr
}

type List struct {
	Items []*Expr
}
