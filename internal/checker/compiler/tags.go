package compiler

import (
	"fmt"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/hvm"
)

// termTag is the constructor a node kind is quoted with. A few kinds use a
// different, evaluating tag inside quoted bodies; see evalTag.
type termTag int

const (
	TAG_VAR termTag = iota
	TAG_ALL
	TAG_LAM
	TAG_APP
	TAG_FUN
	TAG_CTR
	TAG_LET
	TAG_ANN
	TAG_SUB
	TAG_TYP
	TAG_U60
	TAG_NUM
	TAG_OP2
	TAG_HOL
	TAG_HLP
)

var tagNames = [...]string{
	TAG_VAR: "Kind.Term.var",
	TAG_ALL: "Kind.Term.all",
	TAG_LAM: "Kind.Term.lam",
	TAG_APP: "Kind.Term.app",
	TAG_FUN: "Kind.Term.fun",
	TAG_CTR: "Kind.Term.ctr",
	TAG_LET: "Kind.Term.let",
	TAG_ANN: "Kind.Term.ann",
	TAG_SUB: "Kind.Term.sub",
	TAG_TYP: "Kind.Term.typ",
	TAG_U60: "Kind.Term.u60",
	TAG_NUM: "Kind.Term.num",
	TAG_OP2: "Kind.Term.op2",
	TAG_HOL: "Kind.Term.hol",
	TAG_HLP: "Kind.Term.hlp",
}

var evalTagNames = map[termTag]string{
	TAG_APP: "Kind.Term.eval_app",
	TAG_LET: "Kind.Term.eval_let",
	TAG_ANN: "Kind.Term.eval_ann",
	TAG_SUB: "Kind.Term.eval_sub",
	TAG_OP2: "Kind.Term.eval_op",
}

func (tag termTag) String() string {
	return tagNames[tag]
}

// evalTag picks the constructor for tag: quoted bodies use the evaluating
// variant where one exists, everything else keeps the plain tag.
func evalTag(quote bool, tag termTag) string {
	if quote {
		if name, ok := evalTagNames[tag]; ok {
			return name
		}
	}
	return tag.String()
}

// sized appends the argument count to the tag, since the engine dispatches
// on exact constructor names.
func sized(tag termTag, n int) string {
	return fmt.Sprintf("%s%d", tag, n)
}

const (
	fnCallPrefix     = "Kind.Term.FN"
	quotedCallPrefix = "QT"
	directPrefix     = "F$"
	quotedPrefix     = "Q$"

	setOriginTag = "Kind.Term.set_origin"
	ruleLhsTag   = "Kind.Rule.lhs"
	ruleRhsTag   = "Kind.Rule.rhs"

	stringCons = "String.cons"
	stringNil  = "String.nil"
	listCons   = "List.cons"
	listNil    = "List.nil"

	nameOf    = "NameOf"
	hashOf    = "HashOf"
	typeOf    = "TypeOf"
	ruleOf    = "RuleOf"
	functions = "Functions"

	logPrimitive = "HVM.log"
	putBuiltin   = "HVM.put"
	showBuiltin  = "HVM.Term.show"
)

var operatorNames = [...]string{
	book.OP_ADD: "Kind.Operator.add",
	book.OP_SUB: "Kind.Operator.sub",
	book.OP_MUL: "Kind.Operator.mul",
	book.OP_DIV: "Kind.Operator.div",
	book.OP_MOD: "Kind.Operator.mod",
	book.OP_AND: "Kind.Operator.and",
	book.OP_OR:  "Kind.Operator.or",
	book.OP_XOR: "Kind.Operator.xor",
	book.OP_SHL: "Kind.Operator.shl",
	book.OP_SHR: "Kind.Operator.shr",
	book.OP_LTN: "Kind.Operator.ltn",
	book.OP_LTE: "Kind.Operator.lte",
	book.OP_EQL: "Kind.Operator.eql",
	book.OP_GTE: "Kind.Operator.gte",
	book.OP_GTN: "Kind.Operator.gtn",
	book.OP_NEQ: "Kind.Operator.neq",
}

var directOps = [...]hvm.Op{
	book.OP_ADD: hvm.OP_ADD,
	book.OP_SUB: hvm.OP_SUB,
	book.OP_MUL: hvm.OP_MUL,
	book.OP_DIV: hvm.OP_DIV,
	book.OP_MOD: hvm.OP_MOD,
	book.OP_AND: hvm.OP_AND,
	book.OP_OR:  hvm.OP_OR,
	book.OP_XOR: hvm.OP_XOR,
	book.OP_SHL: hvm.OP_SHL,
	book.OP_SHR: hvm.OP_SHR,
	book.OP_LTN: hvm.OP_LTN,
	book.OP_LTE: hvm.OP_LTE,
	book.OP_EQL: hvm.OP_EQL,
	book.OP_GTE: hvm.OP_GTE,
	book.OP_GTN: hvm.OP_GTN,
	book.OP_NEQ: hvm.OP_NEQ,
}
