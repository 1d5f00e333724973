// Package hvm models the program format of the graph-reduction engine: terms,
// rewrite rules and files, their text form, and the contract an engine
// implementation fulfils.
package hvm

import "strings"

type TermKind int

const (
	TERM_VAR TermKind = iota // Name
	TERM_LAM                 // Name, Body
	TERM_APP                 // Args[0] applied to Args[1]
	TERM_CTR                 // Name, Args
	TERM_NUM                 // Num
	TERM_OP2                 // Op, Args[0], Args[1]
)

func (k TermKind) String() string {
	switch k {
	case TERM_VAR:
		return "TERM_VAR"
	case TERM_LAM:
		return "TERM_LAM"
	case TERM_APP:
		return "TERM_APP"
	case TERM_CTR:
		return "TERM_CTR"
	case TERM_NUM:
		return "TERM_NUM"
	case TERM_OP2:
		return "TERM_OP2"
	default:
		return "TERM_UNKNOWN"
	}
}

// Wildcard is the name of a pattern variable that matches anything and binds
// nothing.
const Wildcard = "*"

// NumMask keeps numbers inside the engine's 60-bit word.
const NumMask = 1<<60 - 1

type Term struct {
	Kind TermKind
	Name string
	Args []*Term
	Body *Term
	Num  uint64
	Op   Op
}

func Var(name string) *Term {
	return &Term{Kind: TERM_VAR, Name: name}
}

func Lam(name string, body *Term) *Term {
	return &Term{Kind: TERM_LAM, Name: name, Body: body}
}

func App(fn, arg *Term) *Term {
	return &Term{Kind: TERM_APP, Args: []*Term{fn, arg}}
}

func Ctr(name string, args ...*Term) *Term {
	return &Term{Kind: TERM_CTR, Name: name, Args: args}
}

func Num(n uint64) *Term {
	return &Term{Kind: TERM_NUM, Num: n & NumMask}
}

func Op2(op Op, left, right *Term) *Term {
	return &Term{Kind: TERM_OP2, Op: op, Args: []*Term{left, right}}
}

func (t *Term) IsCtr(name string) bool {
	return t.Kind == TERM_CTR && t.Name == name
}

// Arity is the number of direct children of a constructor node.
func (t *Term) Arity() int {
	if t.Kind != TERM_CTR {
		return 0
	}
	return len(t.Args)
}

// WidestArity returns the largest constructor arity found anywhere in t.
func (t *Term) WidestArity() int {
	widest := t.Arity()
	for _, arg := range t.Args {
		if n := arg.WidestArity(); n > widest {
			widest = n
		}
	}
	if t.Body != nil {
		if n := t.Body.WidestArity(); n > widest {
			widest = n
		}
	}
	return widest
}

// IsCtrName tells constructor names apart from variable names in the text
// form: constructors start with an uppercase letter or carry a `.` or `$`.
// Names starting with `_` are always variables.
func IsCtrName(name string) bool {
	if name == "" || name[0] == '_' {
		return false
	}
	if name[0] >= 'A' && name[0] <= 'Z' {
		return true
	}
	return strings.ContainsAny(name, ".$")
}

// Rule rewrites terms matching Lhs into Rhs. Lhs is always a constructor.
type Rule struct {
	Lhs *Term
	Rhs *Term
}

type File struct {
	Rules []Rule
}

func (f *File) Push(lhs, rhs *Term) {
	f.Rules = append(f.Rules, Rule{Lhs: lhs, Rhs: rhs})
}
