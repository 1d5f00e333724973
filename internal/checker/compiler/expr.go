package compiler

import (
	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

// pattern is the state of a rule's left side. The positional counter is
// shared by all patterns of one rule.
type pattern struct {
	// reify encodes variables as `Kind.Term.var` nodes carrying their
	// position instead of binding them, for the RuleOf relation.
	reify bool
	count uint64
}

// matches reports whether spans must be left as wildcards: rule left sides
// must match terms from any position.
func (p *pattern) matches() bool {
	return p != nil && !p.reify
}

func nativeVar(name string) string {
	return "_" + name
}

// ctrName is the name of an entry used as a value: `Nat.succ` becomes the
// nullary constructor `Nat.succ.`.
func ctrName(name ident.QualifiedIdent) *hvm.Term {
	return hvm.Ctr(name.String() + ".")
}

func list(items []*hvm.Term) *hvm.Term {
	tail := hvm.Ctr(listNil)
	for i := len(items) - 1; i >= 0; i-- {
		tail = hvm.Ctr(listCons, items[i], tail)
	}
	return tail
}

func str(value string) *hvm.Term {
	runes := []rune(value)
	tail := hvm.Ctr(stringNil)
	for i := len(runes) - 1; i >= 0; i-- {
		tail = hvm.Ctr(stringCons, hvm.Num(uint64(runes[i])), tail)
	}
	return tail
}

func (cg *codegen) nameID(name string) *hvm.Term {
	id, err := cg.codec.Encode(name)
	if err != nil {
		fail("%v", err)
	}
	return hvm.Num(id)
}

func (cg *codegen) spanNum(s span.Span, pat *pattern) *hvm.Term {
	if pat.matches() {
		return hvm.Var(hvm.Wildcard)
	}
	if s.Locatable && !s.Range.Representable() {
		fail("span %s cannot be encoded", s)
	}
	return hvm.Num(span.Encode(s))
}

// node builds `(head prefix... spine...)` with the spine packed under the
// ceiling.
func (cg *codegen) node(head string, prefix []*hvm.Term, spine []*hvm.Term) *hvm.Term {
	args := make([]*hvm.Term, 0, len(prefix)+len(spine))
	args = append(args, prefix...)
	args = append(args, hvm.Pack(spine, cg.ceiling)...)
	return hvm.Ctr(head, args...)
}

func (cg *codegen) encodeAll(exprs []*book.Expr, quote bool, pat *pattern) []*hvm.Term {
	terms := make([]*hvm.Term, len(exprs))
	for i, expr := range exprs {
		terms[i] = cg.encode(expr, quote, pat)
	}
	return terms
}

// encode is the one encoder behind both rule families. quote selects the
// quoted form; pat is nil outside rule left sides.
func (cg *codegen) encode(expr *book.Expr, quote bool, pat *pattern) *hvm.Term {
	s := cg.spanNum(expr.Span, pat)

	switch expr.Kind {
	case book.EXPR_VAR:
		name := expr.Node.(*book.Var).Name.Name
		switch {
		case pat != nil && pat.reify:
			idx := pat.count
			pat.count++
			return hvm.Ctr(TAG_VAR.String(), s, cg.nameID(name), hvm.Num(idx))
		case pat != nil:
			pat.count++
			return hvm.Var(nativeVar(name))
		case quote:
			return hvm.Ctr(setOriginTag, s, hvm.Var(nativeVar(name)))
		default:
			return hvm.Var(nativeVar(name))
		}

	case book.EXPR_TYP:
		return hvm.Ctr(TAG_TYP.String(), s)

	case book.EXPR_U60:
		return hvm.Ctr(TAG_U60.String(), s)

	case book.EXPR_NUM:
		n := expr.Node.(*book.Num).Value
		if !quote {
			return hvm.Num(n)
		}
		return hvm.Ctr(TAG_NUM.String(), s, hvm.Num(n))

	case book.EXPR_ALL:
		all := expr.Node.(*book.All)
		return hvm.Ctr(evalTag(quote, TAG_ALL),
			s,
			cg.nameID(all.Name.Name),
			cg.encode(all.Type, quote, pat),
			hvm.Lam(nativeVar(all.Name.Name), cg.encode(all.Body, quote, pat)),
		)

	case book.EXPR_LAMBDA:
		lambda := expr.Node.(*book.Lambda)
		body := hvm.Lam(nativeVar(lambda.Name.Name), cg.encode(lambda.Body, quote, pat))
		if !quote {
			return body
		}
		return hvm.Ctr(evalTag(quote, TAG_LAM), s, cg.nameID(lambda.Name.Name), body)

	case book.EXPR_LET:
		let := expr.Node.(*book.Let)
		value := cg.encode(let.Value, quote, pat)
		body := hvm.Lam(nativeVar(let.Name.Name), cg.encode(let.Body, quote, pat))
		if !quote {
			return hvm.App(body, value)
		}
		return hvm.Ctr(evalTag(quote, TAG_LET), s, cg.nameID(let.Name.Name), value, body)

	case book.EXPR_APP:
		app := expr.Node.(*book.App)
		term := cg.encode(app.Head, quote, pat)
		for _, arg := range app.Args {
			if quote {
				term = hvm.Ctr(evalTag(quote, TAG_APP), s, term, cg.encode(arg, quote, pat))
			} else {
				term = hvm.App(term, cg.encode(arg, quote, pat))
			}
		}
		return term

	case book.EXPR_CTR:
		call := expr.Node.(*book.Call)
		spine := cg.encodeAll(call.Args, quote, pat)
		return cg.node(sized(TAG_CTR, len(spine)), []*hvm.Term{ctrName(call.Name), s}, spine)

	case book.EXPR_FUN:
		call := expr.Node.(*book.Call)
		spine := cg.encodeAll(call.Args, quote, pat)
		if !quote {
			return cg.node(directPrefix+call.Name.String(), []*hvm.Term{s}, spine)
		}
		return cg.node(sized(TAG_FUN, len(spine)), []*hvm.Term{ctrName(call.Name), s}, spine)

	case book.EXPR_ANN:
		ann := expr.Node.(*book.Ann)
		if !quote {
			return cg.encode(ann.Value, quote, pat)
		}
		return hvm.Ctr(evalTag(quote, TAG_ANN), s, cg.encode(ann.Value, quote, pat), cg.encode(ann.Type, quote, pat))

	case book.EXPR_SUB:
		sub := expr.Node.(*book.Sub)
		if !quote {
			return cg.encode(sub.Expr, quote, pat)
		}
		return hvm.Ctr(evalTag(quote, TAG_SUB),
			s,
			cg.nameID(sub.Name.Name),
			hvm.Num(uint64(sub.Index)),
			hvm.Num(uint64(sub.Redex)),
			cg.encode(sub.Expr, quote, pat),
		)

	case book.EXPR_HOLE:
		return hvm.Ctr(TAG_HOL.String(), s, hvm.Num(expr.Node.(*book.Hole).Num))

	case book.EXPR_HLP:
		return hvm.Ctr(TAG_HLP.String(), s, cg.nameID(expr.Node.(*book.Hlp).Name.Name))

	case book.EXPR_STR:
		return str(expr.Node.(*book.Str).Value)

	case book.EXPR_BINARY:
		binary := expr.Node.(*book.Binary)
		left, right := cg.encode(binary.Left, quote, pat), cg.encode(binary.Right, quote, pat)
		if !quote {
			return hvm.Op2(directOps[binary.Op], left, right)
		}
		return hvm.Ctr(evalTag(quote, TAG_OP2), hvm.Ctr(operatorNames[binary.Op]), s, left, right)

	case book.EXPR_ERR:
		fail("error marker at %s reached the encoder", expr.Span)
	}

	fail("unknown expression kind %s", expr.Kind)
	return nil
}
