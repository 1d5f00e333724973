package compiler

import (
	"fmt"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/ident"
)

const origVar = "orig"

func argVars(n int) []*hvm.Term {
	vars := make([]*hvm.Term, n)
	for i := range vars {
		vars[i] = hvm.Var(fmt.Sprintf("x%d", i))
	}
	return vars
}

// entry emits, in order: NameOf, HashOf, TypeOf, the two call forms, the
// quoted and direct rules, their fallbacks and RuleOf.
func (cg *codegen) entry(entry *book.Entry) {
	name := entry.Name.String()
	self := ctrName(entry.Name)

	cg.file.Push(hvm.Ctr(nameOf, self), str(name))
	cg.file.Push(hvm.Ctr(hashOf, self), hvm.Num(ident.Hash(name)))
	cg.file.Push(hvm.Ctr(typeOf, self), cg.typeOf(entry.Args, entry.Type))

	orig := []*hvm.Term{hvm.Var(origVar)}
	vars := argVars(len(entry.Args))
	arity := len(entry.Args)

	cg.file.Push(
		cg.node(fmt.Sprintf("%s%d", fnCallPrefix, arity), []*hvm.Term{self, hvm.Var(origVar)}, vars),
		cg.node(directPrefix+name, orig, vars),
	)
	cg.file.Push(
		cg.node(fmt.Sprintf("%s%d", quotedCallPrefix, arity), []*hvm.Term{self, hvm.Var(origVar)}, vars),
		cg.node(quotedPrefix+name, orig, vars),
	)

	for _, rule := range entry.Rules {
		cg.rule(rule)
	}

	// Calls no rule matches become neutral terms the checker can inspect.
	neutral := cg.node(sized(TAG_FUN, arity), []*hvm.Term{self, hvm.Var(origVar)}, vars)
	cg.file.Push(cg.node(quotedPrefix+name, orig, vars), neutral)
	cg.file.Push(cg.node(directPrefix+name, orig, vars), neutral)

	cg.file.Push(hvm.Ctr(ruleOf, self), cg.ruleOf(entry))
}

// typeOf curries the arguments into a chain of quoted function types.
func (cg *codegen) typeOf(args []*book.Argument, typ *book.Expr) *hvm.Term {
	if len(args) == 0 {
		return cg.encode(typ, true, nil)
	}
	arg := args[0]
	return hvm.Ctr(TAG_ALL.String(),
		cg.spanNum(arg.Span, nil),
		cg.nameID(arg.Name.Name),
		cg.encode(arg.Type, true, nil),
		hvm.Lam(nativeVar(arg.Name.Name), cg.typeOf(args[1:], typ)),
	)
}

func (cg *codegen) rule(rule *book.Rule) {
	name := rule.Name.String()
	orig := []*hvm.Term{hvm.Var(origVar)}

	// Q$ arguments arrive quoted, so literals match their quoted form.
	quoted := cg.encodeAll(rule.Pats, true, &pattern{})
	cg.file.Push(cg.node(quotedPrefix+name, orig, quoted), cg.encode(rule.Body, true, nil))

	if name == logPrimitive {
		cg.file.Push(
			hvm.Ctr(directPrefix+name, hvm.Var(origVar), hvm.Var("a"), hvm.Var("r"), hvm.Var("log"), hvm.Var("ret")),
			hvm.Ctr(putBuiltin, hvm.Ctr(showBuiltin, hvm.Var("log")), hvm.Var("ret")),
		)
		return
	}

	direct := cg.encodeAll(rule.Pats, false, &pattern{})
	cg.file.Push(cg.node(directPrefix+name, orig, direct), cg.encode(rule.Body, false, nil))
}

// ruleOf reifies every rule as `(Kind.Rule.lhs p0 (Kind.Rule.lhs p1 ...
// (Kind.Rule.rhs (QT<n> Name. span p0 p1 ...))))`.
func (cg *codegen) ruleOf(entry *book.Entry) *hvm.Term {
	rules := make([]*hvm.Term, 0, len(entry.Rules))
	for _, rule := range entry.Rules {
		pats := cg.encodeAll(rule.Pats, true, &pattern{reify: true})
		chain := hvm.Ctr(ruleRhsTag, cg.node(
			fmt.Sprintf("%s%d", quotedCallPrefix, len(pats)),
			[]*hvm.Term{ctrName(entry.Name), cg.spanNum(rule.Span, nil)},
			pats,
		))
		for i := len(pats) - 1; i >= 0; i-- {
			chain = hvm.Ctr(ruleLhsTag, pats[i], chain)
		}
		rules = append(rules, chain)
	}
	return list(rules)
}
