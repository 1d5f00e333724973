// Package unbound collects the unbound variables and top-level references of a
// surface module and checks that patterns are linear. It also reports the
// names that sugar forms depend on (`List.cons` for a list literal, ...) so a
// missing desugaring target surfaces as an ordinary unbound name.
package unbound

import (
	"github.com/kind-lang/kindhvm/internal/ast"
	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

// Unbound maps a local name to every occurrence that did not resolve.
type Unbound map[string][]ident.Ident

// UnboundTopLevel maps a qualified name to the set of its unresolved
// occurrences. Each occurrence is stored once, in first-seen order.
type UnboundTopLevel map[string][]ident.QualifiedIdent

func (u UnboundTopLevel) add(name ident.QualifiedIdent) {
	key := name.String()
	for _, seen := range u[key] {
		if seen == name {
			return
		}
	}
	u[key] = append(u[key], name)
}

type UnboundCollector struct {
	errors   diagnostics.Sender
	emitErrs bool

	context Context
	// frame is the context mark where the current group of linear bindings
	// (one rule's patterns, one constructor's fields...) starts.
	frame int

	topLevelDefs    map[string]span.Range
	unboundTopLevel UnboundTopLevel
	unbound         Unbound
}

// New builds a collector. With emitErrs unset the traversal only collects
// names and never sends linearity diagnostics.
func New(sender diagnostics.Sender, emitErrs bool) *UnboundCollector {
	return &UnboundCollector{
		errors:          sender,
		emitErrs:        emitErrs,
		topLevelDefs:    make(map[string]span.Range),
		unboundTopLevel: make(UnboundTopLevel),
		unbound:         make(Unbound),
	}
}

func GetModuleUnbound(sender diagnostics.Sender, module *ast.Module, emitErrs bool) (Unbound, UnboundTopLevel) {
	state := New(sender, emitErrs)
	state.VisitModule(module)
	return state.unbound, state.unboundTopLevel
}

func GetBookUnbound(sender diagnostics.Sender, book *ast.Book, emitErrs bool) (Unbound, UnboundTopLevel) {
	state := New(sender, emitErrs)
	state.VisitBook(book)
	return state.unbound, state.unboundTopLevel
}

func (u *UnboundCollector) VisitModule(module *ast.Module) {
	for _, top := range module.Entries {
		u.visitTopLevelNames(top)
	}
	for _, top := range module.Entries {
		u.visitTopLevel(top)
	}
}

func (u *UnboundCollector) VisitBook(book *ast.Book) {
	tops := book.Ordered()
	for _, top := range tops {
		u.visitTopLevelNames(top)
	}
	for _, top := range tops {
		u.visitTopLevel(top)
	}
}

func (u *UnboundCollector) visitTopLevelNames(top *ast.TopLevel) {
	switch top.Kind {
	case ast.TOP_SUM_TYPE:
		sum := top.Node.(*ast.SumType)
		u.topLevelDefs[sum.Name.String()] = sum.Name.Range
		for _, cons := range sum.Constructors {
			name := sum.Name.AddSegment(cons.Name.Name)
			u.topLevelDefs[name.String()] = cons.Name.Range
		}
	case ast.TOP_RECORD_TYPE:
		rec := top.Node.(*ast.RecordType)
		u.topLevelDefs[rec.Name.String()] = rec.Name.Range
		name := rec.Name.AddSegment(rec.Constructor.Name)
		u.topLevelDefs[name.String()] = rec.Constructor.Range
	case ast.TOP_ENTRY:
		entry := top.Node.(*ast.Entry)
		u.topLevelDefs[entry.Name.String()] = entry.Name.Range
	}
}

// enterFrame starts a new group of linear bindings on top of the current
// context and returns what exitFrame needs to undo it.
func (u *UnboundCollector) enterFrame() (mark, prevFrame int) {
	mark, prevFrame = u.context.Mark(), u.frame
	u.frame = mark
	return mark, prevFrame
}

func (u *UnboundCollector) exitFrame(mark, prevFrame int) {
	u.context.Restore(mark)
	u.frame = prevFrame
}

func (u *UnboundCollector) visitTopLevel(top *ast.TopLevel) {
	switch top.Kind {
	case ast.TOP_SUM_TYPE:
		u.visitSumType(top.Node.(*ast.SumType))
	case ast.TOP_RECORD_TYPE:
		u.visitRecordType(top.Node.(*ast.RecordType))
	case ast.TOP_ENTRY:
		u.visitEntry(top.Node.(*ast.Entry))
	}
}

func (u *UnboundCollector) visitSumType(sum *ast.SumType) {
	declared := make(map[string]span.Range, len(sum.Constructors))
	failed := false
	for _, cons := range sum.Constructors {
		if first, ok := declared[cons.Name.Name]; ok {
			failed = true
			if u.emitErrs {
				u.errors.Send(diagnostics.RepeatedConstructor(cons.Name.Name, first, cons.Name.Range))
			}
			continue
		}
		declared[cons.Name.Name] = cons.Name.Range
	}
	if failed {
		return
	}

	mark, prevFrame := u.enterFrame()
	for _, arg := range sum.Parameters {
		u.visitArgument(arg)
	}
	// Constructors see the parameters only; each one states its own indices
	// in its return type.
	params := u.context.Mark()
	for _, arg := range sum.Indices {
		u.visitArgument(arg)
	}
	u.context.Restore(params)

	for _, cons := range sum.Constructors {
		consMark, consFrame := u.enterFrame()
		for _, arg := range cons.Args {
			u.visitArgument(arg)
		}
		if cons.Type != nil {
			u.visitExpr(cons.Type)
		}
		u.exitFrame(consMark, consFrame)
	}
	u.exitFrame(mark, prevFrame)
}

func (u *UnboundCollector) visitRecordType(rec *ast.RecordType) {
	mark, prevFrame := u.enterFrame()
	for _, arg := range rec.Parameters {
		u.visitArgument(arg)
	}
	for _, field := range rec.Fields {
		u.visitExpr(field.Type)
	}
	u.exitFrame(mark, prevFrame)
}

func (u *UnboundCollector) visitEntry(entry *ast.Entry) {
	mark, prevFrame := u.enterFrame()
	for _, arg := range entry.Args {
		u.visitArgument(arg)
	}
	u.visitExpr(entry.Type)
	u.exitFrame(mark, prevFrame)

	for _, rule := range entry.Rules {
		u.visitRule(rule)
	}
}

func (u *UnboundCollector) visitRule(rule *ast.Rule) {
	mark, prevFrame := u.enterFrame()
	for _, pat := range rule.Pats {
		u.visitPat(pat)
	}
	u.visitExpr(rule.Body)
	u.exitFrame(mark, prevFrame)
}

// bindLinear pushes a binding that must be unique in the current frame.
func (u *UnboundCollector) bindLinear(name ident.Ident) {
	if first, ok := u.context.FindSince(u.frame, name.Name); ok {
		if u.emitErrs {
			u.errors.Send(diagnostics.RepeatedVariable(name.Name, first.Range, name.Range))
		}
		return
	}
	u.context.Push(name.Name, name.Range)
}

func (u *UnboundCollector) visitArgument(arg *ast.Argument) {
	if arg.Type != nil {
		u.visitExpr(arg.Type)
	}
	u.bindLinear(arg.Name)
}

func (u *UnboundCollector) visitIdent(name ident.Ident) {
	if !u.context.Contains(name.Name) {
		u.unbound[name.Name] = append(u.unbound[name.Name], name)
	}
}

func (u *UnboundCollector) visitQualifiedIdent(name ident.QualifiedIdent) {
	if _, ok := u.topLevelDefs[name.String()]; !ok {
		u.unboundTopLevel.add(name)
	}
}

func (u *UnboundCollector) visitPat(pat *ast.Pat) {
	switch pat.Kind {
	case ast.PAT_VAR:
		u.bindLinear(pat.Var)
	case ast.PAT_STR, ast.PAT_NUM, ast.PAT_HOLE:
	case ast.PAT_LIST, ast.PAT_PAIR:
		for _, sub := range pat.Pats {
			u.visitPat(sub)
		}
	case ast.PAT_APP:
		u.visitQualifiedIdent(pat.Name)
		for _, sub := range pat.Pats {
			u.visitPat(sub)
		}
	}
}
