package unbound

import (
	"github.com/kind-lang/kindhvm/internal/ast"
	"github.com/kind-lang/kindhvm/internal/ident"
)

func (u *UnboundCollector) visitExpr(expr *ast.Expr) {
	switch expr.Kind {
	case ast.EXPR_VAR:
		u.visitIdent(expr.Node.(*ast.Var).Name)
	case ast.EXPR_CONSTR:
		constr := expr.Node.(*ast.Constr)
		u.visitQualifiedIdent(constr.Name)
		for _, arg := range constr.Args {
			u.visitExpr(arg.Value)
		}
	case ast.EXPR_ALL:
		all := expr.Node.(*ast.All)
		u.visitExpr(all.Type)
		mark := u.context.Mark()
		if all.Name != nil {
			u.context.Push(all.Name.Name, all.Name.Range)
		}
		u.visitExpr(all.Body)
		u.context.Restore(mark)
	case ast.EXPR_LAMBDA:
		lambda := expr.Node.(*ast.Lambda)
		if lambda.Binder != nil {
			u.visitExpr(lambda.Binder)
		}
		mark := u.context.Mark()
		u.context.Push(lambda.Name.Name, lambda.Name.Range)
		u.visitExpr(lambda.Body)
		u.context.Restore(mark)
	case ast.EXPR_APP:
		app := expr.Node.(*ast.App)
		u.visitExpr(app.Head)
		for _, arg := range app.Args {
			u.visitExpr(arg.Value)
		}
	case ast.EXPR_ANN:
		ann := expr.Node.(*ast.Ann)
		u.visitExpr(ann.Value)
		u.visitExpr(ann.Type)
	case ast.EXPR_LIT, ast.EXPR_HOLE:
	case ast.EXPR_BINARY:
		binary := expr.Node.(*ast.Binary)
		u.visitExpr(binary.Left)
		u.visitExpr(binary.Right)
	case ast.EXPR_LET:
		let := expr.Node.(*ast.Let)
		u.visitExpr(let.Value)
		mark := u.context.Mark()
		u.visitDestruct(let.Binding)
		u.visitExpr(let.Body)
		u.context.Restore(mark)
	case ast.EXPR_SIGMA:
		sigma := expr.Node.(*ast.Sigma)
		u.visitQualifiedIdent(ident.NewSugared("Sigma", "new", expr.Range))
		u.visitExpr(sigma.Type)
		mark := u.context.Mark()
		if sigma.Name != nil {
			u.context.Push(sigma.Name.Name, sigma.Name.Range)
		}
		u.visitExpr(sigma.Body)
		u.context.Restore(mark)
	case ast.EXPR_MATCH:
		match := expr.Node.(*ast.Match)
		u.visitQualifiedIdent(match.Type.AddSegment("match").ToSugar())
		u.visitMatch(match)
	case ast.EXPR_SUBST:
		subst := expr.Node.(*ast.Subst)
		u.visitIdent(subst.Name)
		if pos := u.context.Position(subst.Name.Name); pos >= 0 {
			subst.Index = pos
		}
		u.visitExpr(subst.Expr)
	case ast.EXPR_DO:
		do := expr.Node.(*ast.Do)
		u.visitQualifiedIdent(do.Type.AddSegment("pure").ToSugar())
		u.visitQualifiedIdent(do.Type.AddSegment("bind").ToSugar())
		u.visitSttm(do.Sttm)
	case ast.EXPR_IF:
		cond := expr.Node.(*ast.If)
		u.visitQualifiedIdent(ident.NewSugared("Bool", "if", expr.Range))
		u.visitExpr(cond.Cond)
		u.visitExpr(cond.Then)
		u.visitExpr(cond.Else)
	case ast.EXPR_PAIR:
		pair := expr.Node.(*ast.Pair)
		u.visitQualifiedIdent(ident.NewSugared("Pair", "new", expr.Range))
		u.visitExpr(pair.Fst)
		u.visitExpr(pair.Snd)
	case ast.EXPR_LIST:
		list := expr.Node.(*ast.List)
		u.visitQualifiedIdent(ident.NewSugared("List", "nil", expr.Range))
		u.visitQualifiedIdent(ident.NewSugared("List", "cons", expr.Range))
		for _, item := range list.Items {
			u.visitExpr(item)
		}
	}
}

func (u *UnboundCollector) visitMatch(match *ast.Match) {
	u.visitExpr(match.Scrutinee)
	for _, c := range match.Cases {
		mark := u.context.Mark()
		for _, binding := range c.Bindings {
			u.visitCaseBinding(binding)
		}
		u.visitExpr(c.Value)
		u.context.Restore(mark)
	}
	if match.Motive != nil {
		u.visitExpr(match.Motive)
	}
}

func (u *UnboundCollector) visitCaseBinding(binding *ast.CaseBinding) {
	bound := binding.Bound()
	u.context.Push(bound.Name, bound.Range)
}

// visitDestruct binds the names of a let/ask left side. The caller owns the
// context mark.
func (u *UnboundCollector) visitDestruct(destruct *ast.Destruct) {
	switch destruct.Kind {
	case ast.DESTRUCT_RECORD:
		open := destruct.Type.AddSegment("open").ToSugar()
		open.Range = destruct.Range
		u.visitQualifiedIdent(open)
		u.visitQualifiedIdent(destruct.Type)
		for _, binding := range destruct.Bindings {
			u.visitCaseBinding(binding)
		}
	case ast.DESTRUCT_IDENT:
		u.context.Push(destruct.Ident.Name, destruct.Ident.Range)
	}
}

func (u *UnboundCollector) visitSttm(sttm *ast.Sttm) {
	switch sttm.Kind {
	case ast.STTM_ASK, ast.STTM_LET:
		u.visitExpr(sttm.Value)
		mark := u.context.Mark()
		u.visitDestruct(sttm.Destruct)
		u.visitSttm(sttm.Next)
		u.context.Restore(mark)
	case ast.STTM_EXPR:
		u.visitExpr(sttm.Value)
		u.visitSttm(sttm.Next)
	case ast.STTM_RETURN, ast.STTM_RET_EXPR:
		u.visitExpr(sttm.Value)
	}
}
