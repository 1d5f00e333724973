package report

import (
	"strconv"
	"strings"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

const (
	ctrTag       = "Kind.Term.ctr"
	funTag       = "Kind.Term.fun"
	setOriginTag = "Kind.Term.set_origin"
	stringCons   = "String.cons"
	stringNil    = "String.nil"
)

// termFields is the number of children of each quoted node.
var termFields = map[string]int{
	"Kind.Term.var":      3,
	"Kind.Term.typ":      1,
	"Kind.Term.u60":      1,
	"Kind.Term.num":      2,
	"Kind.Term.all":      4,
	"Kind.Term.lam":      3,
	"Kind.Term.let":      4,
	"Kind.Term.eval_let": 4,
	"Kind.Term.app":      3,
	"Kind.Term.eval_app": 3,
	"Kind.Term.ann":      3,
	"Kind.Term.eval_ann": 3,
	"Kind.Term.sub":      5,
	"Kind.Term.eval_sub": 5,
	"Kind.Term.op2":      4,
	"Kind.Term.eval_op":  4,
	"Kind.Term.hol":      2,
	"Kind.Term.hlp":      2,
	setOriginTag:         2,
}

var operatorTags = map[string]book.Operator{
	"Kind.Operator.add": book.OP_ADD,
	"Kind.Operator.sub": book.OP_SUB,
	"Kind.Operator.mul": book.OP_MUL,
	"Kind.Operator.div": book.OP_DIV,
	"Kind.Operator.mod": book.OP_MOD,
	"Kind.Operator.and": book.OP_AND,
	"Kind.Operator.or":  book.OP_OR,
	"Kind.Operator.xor": book.OP_XOR,
	"Kind.Operator.shl": book.OP_SHL,
	"Kind.Operator.shr": book.OP_SHR,
	"Kind.Operator.ltn": book.OP_LTN,
	"Kind.Operator.lte": book.OP_LTE,
	"Kind.Operator.eql": book.OP_EQL,
	"Kind.Operator.gte": book.OP_GTE,
	"Kind.Operator.gtn": book.OP_GTN,
	"Kind.Operator.neq": book.OP_NEQ,
}

// binder maps the engine's name for a bound variable to its source name.
type binder struct {
	engine string
	source string
	next   *binder
}

func (b *binder) lookup(name string) string {
	for ; b != nil; b = b.next {
		if b.engine == name {
			return b.source
		}
	}
	return strings.TrimPrefix(name, "_")
}

func identAt(name string, s span.Span) ident.Ident {
	if !s.Locatable {
		return ident.Generate(name)
	}
	return ident.New(name, s.Range)
}

// ReadValue reads back a term built by either rule family: quoted nodes,
// native lambdas and numbers, strings and neutral calls. Spines packed in
// argument containers are flattened again.
func (d *Decoder) ReadValue(term *hvm.Term) (*book.Expr, error) {
	return d.read(term, nil)
}

func (d *Decoder) read(term *hvm.Term, env *binder) (*book.Expr, error) {
	generated := span.Generated()

	switch term.Kind {
	case hvm.TERM_NUM:
		return book.NewExpr(book.EXPR_NUM, generated, &book.Num{Value: term.Num}), nil

	case hvm.TERM_VAR:
		name := env.lookup(term.Name)
		return book.NewExpr(book.EXPR_VAR, generated, &book.Var{Name: ident.Generate(name)}), nil

	case hvm.TERM_LAM:
		name := strings.TrimPrefix(term.Name, "_")
		body, err := d.read(term.Body, &binder{engine: term.Name, source: name, next: env})
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_LAMBDA, generated, &book.Lambda{Name: ident.Generate(name), Body: body}), nil

	case hvm.TERM_APP:
		head, err := d.read(term.Args[0], env)
		if err != nil {
			return nil, err
		}
		arg, err := d.read(term.Args[1], env)
		if err != nil {
			return nil, err
		}
		return app(head, arg, generated), nil

	case hvm.TERM_OP2:
		op, ok := book.ParseOperator(term.Op.String())
		if !ok {
			return nil, malformed("unknown operator %s", term.Op)
		}
		left, err := d.read(term.Args[0], env)
		if err != nil {
			return nil, err
		}
		right, err := d.read(term.Args[1], env)
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_BINARY, generated, &book.Binary{Op: op, Left: left, Right: right}), nil

	case hvm.TERM_CTR:
		return d.readCtr(term, env)
	}

	return nil, malformed("unknown term %s", term)
}

// app extends a left-nested application instead of nesting a new one.
func app(head, arg *book.Expr, s span.Span) *book.Expr {
	if head.Kind == book.EXPR_APP {
		inner := head.Node.(*book.App)
		args := append(append([]*book.Expr{}, inner.Args...), arg)
		return book.NewExpr(book.EXPR_APP, s, &book.App{Head: inner.Head, Args: args})
	}
	return book.NewExpr(book.EXPR_APP, s, &book.App{Head: head, Args: []*book.Expr{arg}})
}

func (d *Decoder) readCtr(term *hvm.Term, env *binder) (*book.Expr, error) {
	name, args := term.Name, term.Args

	switch {
	case name == stringCons || name == stringNil:
		return d.readString(term)
	case strings.HasPrefix(name, ctrTag):
		return d.readCall(term, book.EXPR_CTR, strings.TrimPrefix(name, ctrTag), env)
	case strings.HasPrefix(name, funTag):
		return d.readCall(term, book.EXPR_FUN, strings.TrimPrefix(name, funTag), env)
	}

	want, ok := termFields[name]
	if !ok {
		return nil, malformed("unknown node %s", term)
	}
	if len(args) != want {
		return nil, malformed("%s expects %d children, found %d", name, want, len(args))
	}

	first := 0
	if name == "Kind.Term.op2" || name == "Kind.Term.eval_op" {
		first = 1
	}
	s, err := d.span(args[first])
	if err != nil {
		return nil, err
	}

	switch name {
	case setOriginTag:
		expr, err := d.read(args[1], env)
		if err != nil {
			return nil, err
		}
		relocated := *expr
		relocated.Span = s
		return &relocated, nil

	case "Kind.Term.var":
		source, err := d.name(args[1])
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_VAR, s, &book.Var{Name: identAt(source, s)}), nil

	case "Kind.Term.typ":
		return book.NewExpr(book.EXPR_TYP, s, nil), nil

	case "Kind.Term.u60":
		return book.NewExpr(book.EXPR_U60, s, nil), nil

	case "Kind.Term.num":
		if args[1].Kind != hvm.TERM_NUM {
			return nil, malformed("expected a number, found %s", args[1])
		}
		return book.NewExpr(book.EXPR_NUM, s, &book.Num{Value: args[1].Num}), nil

	case "Kind.Term.all":
		typ, err := d.read(args[2], env)
		if err != nil {
			return nil, err
		}
		source, body, err := d.readBinder(args[1], args[3], env)
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_ALL, s, &book.All{Name: source, Type: typ, Body: body}), nil

	case "Kind.Term.lam":
		source, body, err := d.readBinder(args[1], args[2], env)
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_LAMBDA, s, &book.Lambda{Name: source, Body: body}), nil

	case "Kind.Term.let", "Kind.Term.eval_let":
		value, err := d.read(args[2], env)
		if err != nil {
			return nil, err
		}
		source, body, err := d.readBinder(args[1], args[3], env)
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_LET, s, &book.Let{Name: source, Value: value, Body: body}), nil

	case "Kind.Term.app", "Kind.Term.eval_app":
		head, err := d.read(args[1], env)
		if err != nil {
			return nil, err
		}
		arg, err := d.read(args[2], env)
		if err != nil {
			return nil, err
		}
		return app(head, arg, s), nil

	case "Kind.Term.ann", "Kind.Term.eval_ann":
		value, err := d.read(args[1], env)
		if err != nil {
			return nil, err
		}
		typ, err := d.read(args[2], env)
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_ANN, s, &book.Ann{Value: value, Type: typ}), nil

	case "Kind.Term.sub", "Kind.Term.eval_sub":
		source, err := d.name(args[1])
		if err != nil {
			return nil, err
		}
		if args[2].Kind != hvm.TERM_NUM || args[3].Kind != hvm.TERM_NUM {
			return nil, malformed("expected substitution indices, found %s", term)
		}
		expr, err := d.read(args[4], env)
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_SUB, s, &book.Sub{
			Name:  ident.Generate(source),
			Index: int(args[2].Num),
			Redex: int(args[3].Num),
			Expr:  expr,
		}), nil

	case "Kind.Term.op2", "Kind.Term.eval_op":
		op, ok := operatorTags[args[0].Name]
		if args[0].Kind != hvm.TERM_CTR || !ok {
			return nil, malformed("unknown operator %s", args[0])
		}
		left, err := d.read(args[2], env)
		if err != nil {
			return nil, err
		}
		right, err := d.read(args[3], env)
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_BINARY, s, &book.Binary{Op: op, Left: left, Right: right}), nil

	case "Kind.Term.hol":
		if args[1].Kind != hvm.TERM_NUM {
			return nil, malformed("expected a hole number, found %s", args[1])
		}
		return book.NewExpr(book.EXPR_HOLE, s, &book.Hole{Num: args[1].Num}), nil

	default: // Kind.Term.hlp
		source, err := d.name(args[1])
		if err != nil {
			return nil, err
		}
		return book.NewExpr(book.EXPR_HLP, s, &book.Hlp{Name: ident.Generate(source)}), nil
	}
}

// readBinder reads a quoted binder: a name id and the native lambda holding
// its body.
func (d *Decoder) readBinder(nameID, lam *hvm.Term, env *binder) (ident.Ident, *book.Expr, error) {
	source, err := d.name(nameID)
	if err != nil {
		return ident.Ident{}, nil, err
	}
	if lam.Kind != hvm.TERM_LAM {
		return ident.Ident{}, nil, malformed("expected a binder body, found %s", lam)
	}
	body, err := d.read(lam.Body, &binder{engine: lam.Name, source: source, next: env})
	if err != nil {
		return ident.Ident{}, nil, err
	}
	return ident.Generate(source), body, nil
}

// readCall reads `(Kind.Term.ctr<n> Name. span args...)` and the matching
// fun form.
func (d *Decoder) readCall(term *hvm.Term, kind book.ExprKind, size string, env *binder) (*book.Expr, error) {
	n, err := strconv.Atoi(size)
	if err != nil || len(term.Args) < 2 {
		return nil, malformed("unknown node %s", term)
	}
	self := term.Args[0]
	if self.Kind != hvm.TERM_CTR || len(self.Args) != 0 || !strings.HasSuffix(self.Name, ".") {
		return nil, malformed("expected an entry name, found %s", self)
	}
	s, err := d.span(term.Args[1])
	if err != nil {
		return nil, err
	}

	spine := hvm.Unpack(term.Args[2:], d.ceiling)
	if len(spine) != n {
		return nil, malformed("%s expects %d arguments, found %d", term.Name, n, len(spine))
	}
	args := make([]*book.Expr, len(spine))
	for i, arg := range spine {
		if args[i], err = d.read(arg, env); err != nil {
			return nil, err
		}
	}

	name := ident.ParseQualified(strings.TrimSuffix(self.Name, "."), s.Range)
	if !s.Locatable {
		name = name.ToGenerated()
	}
	return book.NewExpr(kind, s, &book.Call{Name: name, Args: args}), nil
}

func (d *Decoder) readString(term *hvm.Term) (*book.Expr, error) {
	var sb strings.Builder
	for term.Kind == hvm.TERM_CTR && term.Name == stringCons && len(term.Args) == 2 {
		if term.Args[0].Kind != hvm.TERM_NUM {
			return nil, malformed("expected a character, found %s", term.Args[0])
		}
		sb.WriteRune(rune(term.Args[0].Num))
		term = term.Args[1]
	}
	if term.Kind != hvm.TERM_CTR || term.Name != stringNil || len(term.Args) != 0 {
		return nil, malformed("expected the end of a string, found %s", term)
	}
	return book.NewExpr(book.EXPR_STR, span.Generated(), &book.Str{Value: sb.String()}), nil
}
