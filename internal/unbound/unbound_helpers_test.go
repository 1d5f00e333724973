package unbound

import (
	"github.com/kind-lang/kindhvm/internal/ast"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

func rng(start int) span.Range {
	return span.Range{Start: uint32(start), End: uint32(start + 1)}
}

func id(name string, at int) ident.Ident {
	return ident.New(name, rng(at))
}

func qid(name string, at int) ident.QualifiedIdent {
	return ident.ParseQualified(name, rng(at))
}

func varExpr(name string, at int) *ast.Expr {
	return ast.NewExpr(ast.EXPR_VAR, rng(at), &ast.Var{Name: id(name, at)})
}

func constr(name string, at int, args ...*ast.Expr) *ast.Expr {
	bindings := make([]*ast.Binding, 0, len(args))
	for _, arg := range args {
		bindings = append(bindings, &ast.Binding{Value: arg})
	}
	return ast.NewExpr(ast.EXPR_CONSTR, rng(at), &ast.Constr{Name: qid(name, at), Args: bindings})
}

func typeLit(at int) *ast.Expr {
	return ast.NewExpr(ast.EXPR_LIT, rng(at), &ast.Lit{Kind: ast.LIT_TYPE})
}

func lambda(name string, at int, body *ast.Expr) *ast.Expr {
	return ast.NewExpr(ast.EXPR_LAMBDA, rng(at), &ast.Lambda{Name: id(name, at), Body: body})
}

func app(head *ast.Expr, args ...*ast.Expr) *ast.Expr {
	bindings := make([]*ast.AppBinding, 0, len(args))
	for _, arg := range args {
		bindings = append(bindings, &ast.AppBinding{Value: arg})
	}
	return ast.NewExpr(ast.EXPR_APP, head.Range, &ast.App{Head: head, Args: bindings})
}

func arg(name string, at int, typ *ast.Expr) *ast.Argument {
	return &ast.Argument{Name: id(name, at), Type: typ, Range: rng(at)}
}

func entry(name string, args []*ast.Argument, typ *ast.Expr, rules ...*ast.Rule) *ast.TopLevel {
	return &ast.TopLevel{
		Kind: ast.TOP_ENTRY,
		Node: &ast.Entry{Name: qid(name, 0), Args: args, Type: typ, Rules: rules},
	}
}

func rule(name string, body *ast.Expr, pats ...*ast.Pat) *ast.Rule {
	return &ast.Rule{Name: qid(name, 0), Pats: pats, Body: body}
}

func patVar(name string, at int) *ast.Pat {
	return ast.VarPat(id(name, at))
}

func module(tops ...*ast.TopLevel) *ast.Module {
	return &ast.Module{Entries: tops}
}
