// Package book holds the elaborated, desugared program handed to the checker
// backend. It is produced upstream and only read from here on.
package book

import (
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

type ExprKind int

const (
	EXPR_VAR    ExprKind = iota // *Var
	EXPR_TYP                    // nil
	EXPR_U60                    // nil
	EXPR_NUM                    // *Num
	EXPR_ALL                    // *All
	EXPR_LAMBDA                 // *Lambda
	EXPR_LET                    // *Let
	EXPR_APP                    // *App
	EXPR_CTR                    // *Call
	EXPR_FUN                    // *Call
	EXPR_ANN                    // *Ann
	EXPR_SUB                    // *Sub
	EXPR_HOLE                   // *Hole
	EXPR_HLP                    // *Hlp
	EXPR_STR                    // *Str
	EXPR_BINARY                 // *Binary
	EXPR_ERR                    // nil
)

func (k ExprKind) String() string {
	switch k {
	case EXPR_VAR:
		return "EXPR_VAR"
	case EXPR_TYP:
		return "EXPR_TYP"
	case EXPR_U60:
		return "EXPR_U60"
	case EXPR_NUM:
		return "EXPR_NUM"
	case EXPR_ALL:
		return "EXPR_ALL"
	case EXPR_LAMBDA:
		return "EXPR_LAMBDA"
	case EXPR_LET:
		return "EXPR_LET"
	case EXPR_APP:
		return "EXPR_APP"
	case EXPR_CTR:
		return "EXPR_CTR"
	case EXPR_FUN:
		return "EXPR_FUN"
	case EXPR_ANN:
		return "EXPR_ANN"
	case EXPR_SUB:
		return "EXPR_SUB"
	case EXPR_HOLE:
		return "EXPR_HOLE"
	case EXPR_HLP:
		return "EXPR_HLP"
	case EXPR_STR:
		return "EXPR_STR"
	case EXPR_BINARY:
		return "EXPR_BINARY"
	case EXPR_ERR:
		return "EXPR_ERR"
	default:
		return "EXPR_UNKNOWN"
	}
}

// Expr is a node of the desugared tree. Node holds the payload listed next to
// Kind; kinds without payload keep it nil.
type Expr struct {
	Kind ExprKind
	Span span.Span
	Node any
}

type Var struct {
	Name ident.Ident
}

type Num struct {
	Value uint64
}

// All is a dependent function type. Anonymous binders are named `~`.
type All struct {
	Name   ident.Ident
	Type   *Expr
	Body   *Expr
	Erased bool
}

type Lambda struct {
	Name   ident.Ident
	Body   *Expr
	Erased bool
}

type Let struct {
	Name  ident.Ident
	Value *Expr
	Body  *Expr
}

type App struct {
	Head *Expr
	Args []*Expr
}

// Call is a saturated constructor or function call.
type Call struct {
	Name ident.QualifiedIdent
	Args []*Expr
}

type Ann struct {
	Value *Expr
	Type  *Expr
}

// Sub marks a pending substitution of Name, at context Index, with Redex
// reductions left.
type Sub struct {
	Name  ident.Ident
	Index int
	Redex int
	Expr  *Expr
}

type Hole struct {
	Num uint64
}

type Hlp struct {
	Name ident.Ident
}

type Str struct {
	Value string
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

var operatorSymbols = [...]string{
	OP_ADD: "+",
	OP_SUB: "-",
	OP_MUL: "*",
	OP_DIV: "/",
	OP_MOD: "%",
	OP_AND: "&",
	OP_OR:  "|",
	OP_XOR: "^",
	OP_SHL: "<<",
	OP_SHR: ">>",
	OP_LTN: "<",
	OP_LTE: "<=",
	OP_EQL: "==",
	OP_GTE: ">=",
	OP_GTN: ">",
	OP_NEQ: "!=",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorSymbols) {
		return "?"
	}
	return operatorSymbols[op]
}

// ParseOperator is the inverse of Operator.String.
func ParseOperator(symbol string) (Operator, bool) {
	for op, s := range operatorSymbols {
		if s == symbol {
			return Operator(op), true
		}
	}
	return 0, false
}

type Binary struct {
	Op    Operator
	Left  *Expr
	Right *Expr
}

func NewExpr(kind ExprKind, s span.Span, node any) *Expr {
	return &Expr{Kind: kind, Span: s, Node: node}
}

// Constructors for the common shapes. They build generated (location-less)
// nodes; set Span afterwards when a position is known.

func VarOf(name string) *Expr {
	return NewExpr(EXPR_VAR, span.Generated(), &Var{Name: ident.Generate(name)})
}

func NumOf(n uint64) *Expr {
	return NewExpr(EXPR_NUM, span.Generated(), &Num{Value: n})
}

func TypOf() *Expr { return NewExpr(EXPR_TYP, span.Generated(), nil) }

func U60Of() *Expr { return NewExpr(EXPR_U60, span.Generated(), nil) }

func CtrOf(name string, args ...*Expr) *Expr {
	return NewExpr(EXPR_CTR, span.Generated(), &Call{Name: ident.ParseQualified(name, span.Range{}).ToGenerated(), Args: args})
}

func FunOf(name string, args ...*Expr) *Expr {
	return NewExpr(EXPR_FUN, span.Generated(), &Call{Name: ident.ParseQualified(name, span.Range{}).ToGenerated(), Args: args})
}

func LamOf(name string, body *Expr) *Expr {
	return NewExpr(EXPR_LAMBDA, span.Generated(), &Lambda{Name: ident.Generate(name), Body: body})
}

func AllOf(name string, typ, body *Expr) *Expr {
	return NewExpr(EXPR_ALL, span.Generated(), &All{Name: ident.Generate(name), Type: typ, Body: body})
}

func AppOf(head *Expr, args ...*Expr) *Expr {
	return NewExpr(EXPR_APP, span.Generated(), &App{Head: head, Args: args})
}

func StrOf(value string) *Expr {
	return NewExpr(EXPR_STR, span.Generated(), &Str{Value: value})
}
