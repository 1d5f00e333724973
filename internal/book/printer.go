package book

import (
	"fmt"
	"strings"
)

// String renders the expression in surface-like syntax. It is meant for
// diagnostics, not for reparsing.
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch e.Kind {
	case EXPR_VAR:
		sb.WriteString(e.Node.(*Var).Name.Name)
	case EXPR_TYP:
		sb.WriteString("Type")
	case EXPR_U60:
		sb.WriteString("U60")
	case EXPR_NUM:
		fmt.Fprintf(sb, "%d", e.Node.(*Num).Value)
	case EXPR_ALL:
		all := e.Node.(*All)
		if all.Name.Name == "~" {
			sb.WriteString("(")
			all.Type.write(sb)
			sb.WriteString(" -> ")
		} else {
			fmt.Fprintf(sb, "((%s : ", all.Name.Name)
			all.Type.write(sb)
			sb.WriteString(") -> ")
		}
		all.Body.write(sb)
		sb.WriteString(")")
	case EXPR_LAMBDA:
		lambda := e.Node.(*Lambda)
		fmt.Fprintf(sb, "(%s => ", lambda.Name.Name)
		lambda.Body.write(sb)
		sb.WriteString(")")
	case EXPR_LET:
		let := e.Node.(*Let)
		fmt.Fprintf(sb, "(let %s = ", let.Name.Name)
		let.Value.write(sb)
		sb.WriteString("; ")
		let.Body.write(sb)
		sb.WriteString(")")
	case EXPR_APP:
		app := e.Node.(*App)
		sb.WriteString("(")
		app.Head.write(sb)
		for _, arg := range app.Args {
			sb.WriteString(" ")
			arg.write(sb)
		}
		sb.WriteString(")")
	case EXPR_CTR, EXPR_FUN:
		call := e.Node.(*Call)
		if len(call.Args) == 0 {
			sb.WriteString(call.Name.String())
			return
		}
		sb.WriteString("(")
		sb.WriteString(call.Name.String())
		for _, arg := range call.Args {
			sb.WriteString(" ")
			arg.write(sb)
		}
		sb.WriteString(")")
	case EXPR_ANN:
		ann := e.Node.(*Ann)
		sb.WriteString("{")
		ann.Value.write(sb)
		sb.WriteString(" :: ")
		ann.Type.write(sb)
		sb.WriteString("}")
	case EXPR_SUB:
		sub := e.Node.(*Sub)
		fmt.Fprintf(sb, "(## %s/%d ", sub.Name.Name, sub.Redex)
		sub.Expr.write(sb)
		sb.WriteString(")")
	case EXPR_HOLE:
		fmt.Fprintf(sb, "_%d", e.Node.(*Hole).Num)
	case EXPR_HLP:
		fmt.Fprintf(sb, "?%s", e.Node.(*Hlp).Name.Name)
	case EXPR_STR:
		fmt.Fprintf(sb, "%q", e.Node.(*Str).Value)
	case EXPR_BINARY:
		binary := e.Node.(*Binary)
		fmt.Fprintf(sb, "(%s ", binary.Op)
		binary.Left.write(sb)
		sb.WriteString(" ")
		binary.Right.write(sb)
		sb.WriteString(")")
	case EXPR_ERR:
		sb.WriteString("<error>")
	default:
		sb.WriteString("<unknown>")
	}
}
