package book

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

// ValidationError aggregates every problem found in a book file.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "book: invalid file"
	}
	var b strings.Builder
	b.WriteString("book validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type bookFile struct {
	Files   []string    `yaml:"files"`
	Entries []entryFile `yaml:"entries"`
}

type entryFile struct {
	Name  string     `yaml:"name"`
	At    []int      `yaml:"at"`
	Args  []argFile  `yaml:"args"`
	Type  *Expr      `yaml:"type"`
	Rules []ruleFile `yaml:"rules"`
}

type argFile struct {
	Name   string `yaml:"name"`
	At     []int  `yaml:"at"`
	Type   *Expr  `yaml:"type"`
	Hidden bool   `yaml:"hidden"`
	Erased bool   `yaml:"erased"`
}

type ruleFile struct {
	At   []int   `yaml:"at"`
	Pats []*Expr `yaml:"pats"`
	Body *Expr   `yaml:"body"`
}

// Load reads a desugared book written by the upstream phases.
func Load(path string) (*Book, error) {
	if path == "" {
		return nil, fmt.Errorf("book: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file, path)
}

// Decode reads a book from r; name is only used in error messages.
func Decode(r io.Reader, name string) (*Book, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw bookFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("book: %s is empty", name)
		}
		return nil, fmt.Errorf("book: parse %s: %w", name, err)
	}
	return raw.toBook()
}

func (raw *bookFile) toBook() (*Book, error) {
	var errs ValidationError
	b := New()
	b.Files = raw.Files

	for i, rawEntry := range raw.Entries {
		if rawEntry.Name == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("entries[%d] must have a name", i))
			continue
		}
		if rawEntry.Type == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("entry %s must have a type", rawEntry.Name))
			continue
		}
		at, err := decodeAt(rawEntry.At)
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("entry %s: %v", rawEntry.Name, err))
			continue
		}
		entry := &Entry{
			Name: qualifiedAt(rawEntry.Name, at),
			Type: rawEntry.Type,
			Span: at,
		}
		for _, rawArg := range rawEntry.Args {
			argAt, err := decodeAt(rawArg.At)
			if err != nil {
				errs.Issues = append(errs.Issues, fmt.Sprintf("entry %s: argument %s: %v", rawEntry.Name, rawArg.Name, err))
				continue
			}
			typ := rawArg.Type
			if typ == nil {
				typ = NewExpr(EXPR_TYP, span.Generated(), nil)
			}
			entry.Args = append(entry.Args, &Argument{
				Name:   identAt(rawArg.Name, argAt),
				Type:   typ,
				Hidden: rawArg.Hidden,
				Erased: rawArg.Erased,
				Span:   argAt,
			})
		}
		for j, rawRule := range rawEntry.Rules {
			ruleAt, err := decodeAt(rawRule.At)
			if err != nil {
				errs.Issues = append(errs.Issues, fmt.Sprintf("entry %s: rules[%d]: %v", rawEntry.Name, j, err))
				continue
			}
			if rawRule.Body == nil {
				errs.Issues = append(errs.Issues, fmt.Sprintf("entry %s: rules[%d] must have a body", rawEntry.Name, j))
				continue
			}
			entry.Rules = append(entry.Rules, &Rule{
				Name: entry.Name,
				Pats: rawRule.Pats,
				Body: rawRule.Body,
				Span: ruleAt,
			})
		}
		if err := b.Add(entry); err != nil {
			errs.Issues = append(errs.Issues, err.Error())
		}
	}

	if err := b.Validate(); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return b, nil
}

// decodeAt turns `[ctx, start, end]` into a span. A missing position is a
// generated span.
func decodeAt(at []int) (span.Span, error) {
	if len(at) == 0 {
		return span.Generated(), nil
	}
	if len(at) != 3 {
		return span.Span{}, fmt.Errorf("position must be [ctx, start, end], got %v", at)
	}
	r, err := span.NewRange(at[1], at[2], span.SyntaxCtxIndex(at[0]))
	if err != nil {
		return span.Span{}, err
	}
	return span.Locatable(r), nil
}

func identAt(name string, at span.Span) ident.Ident {
	if !at.Locatable {
		return ident.Generate(name)
	}
	return ident.New(name, at.Range)
}

func qualifiedAt(name string, at span.Span) ident.QualifiedIdent {
	q := ident.ParseQualified(name, at.Range)
	if !at.Locatable {
		q = q.ToGenerated()
	}
	return q
}

type binderNode struct {
	Name   string `yaml:"name"`
	Type   *Expr  `yaml:"type"`
	Value  *Expr  `yaml:"value"`
	Body   *Expr  `yaml:"body"`
	Erased bool   `yaml:"erased"`
}

type callNode struct {
	Name string  `yaml:"name"`
	Args []*Expr `yaml:"args"`
}

type annNode struct {
	Value *Expr `yaml:"value"`
	Type  *Expr `yaml:"type"`
}

type subNode struct {
	Name  string `yaml:"name"`
	Index int    `yaml:"index"`
	Redex int    `yaml:"redex"`
	Expr  *Expr  `yaml:"expr"`
}

type binaryNode struct {
	Op    string `yaml:"op"`
	Left  *Expr  `yaml:"left"`
	Right *Expr  `yaml:"right"`
}

// UnmarshalYAML reads an expression written as a single-key mapping, e.g.
// `{fun: {name: Nat.add, args: [{num: 1}, {var: x}]}}`, optionally with an
// `at: [ctx, start, end]` position next to the kind key.
func (e *Expr) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expression must be a mapping", value.Line)
	}

	var kind string
	var payload *yaml.Node
	var at []int
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Value == "at" {
			if err := val.Decode(&at); err != nil {
				return fmt.Errorf("line %d: %w", val.Line, err)
			}
			continue
		}
		if kind != "" {
			return fmt.Errorf("line %d: expression has both %q and %q", key.Line, kind, key.Value)
		}
		kind, payload = key.Value, val
	}
	if kind == "" {
		return fmt.Errorf("line %d: expression has no kind", value.Line)
	}

	s, err := decodeAt(at)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	e.Span = s

	if err := e.decodeNode(kind, payload, s); err != nil {
		return fmt.Errorf("line %d: %s: %w", payload.Line, kind, err)
	}
	return nil
}

func (e *Expr) decodeNode(kind string, payload *yaml.Node, s span.Span) error {
	switch kind {
	case "var":
		var name string
		if err := payload.Decode(&name); err != nil {
			return err
		}
		e.Kind, e.Node = EXPR_VAR, &Var{Name: identAt(name, s)}
	case "typ":
		e.Kind = EXPR_TYP
	case "u60":
		e.Kind = EXPR_U60
	case "num":
		var n uint64
		if err := payload.Decode(&n); err != nil {
			return err
		}
		e.Kind, e.Node = EXPR_NUM, &Num{Value: n}
	case "all":
		var node binderNode
		if err := payload.Decode(&node); err != nil {
			return err
		}
		if node.Type == nil || node.Body == nil {
			return errors.New("needs a type and a body")
		}
		name := node.Name
		if name == "" {
			name = "~"
		}
		e.Kind, e.Node = EXPR_ALL, &All{Name: identAt(name, s), Type: node.Type, Body: node.Body, Erased: node.Erased}
	case "lam":
		var node binderNode
		if err := payload.Decode(&node); err != nil {
			return err
		}
		if node.Name == "" || node.Body == nil {
			return errors.New("needs a name and a body")
		}
		e.Kind, e.Node = EXPR_LAMBDA, &Lambda{Name: identAt(node.Name, s), Body: node.Body, Erased: node.Erased}
	case "let":
		var node binderNode
		if err := payload.Decode(&node); err != nil {
			return err
		}
		if node.Name == "" || node.Value == nil || node.Body == nil {
			return errors.New("needs a name, a value and a body")
		}
		e.Kind, e.Node = EXPR_LET, &Let{Name: identAt(node.Name, s), Value: node.Value, Body: node.Body}
	case "app":
		var spine []*Expr
		if err := payload.Decode(&spine); err != nil {
			return err
		}
		if len(spine) < 2 {
			return errors.New("needs a head and at least one argument")
		}
		e.Kind, e.Node = EXPR_APP, &App{Head: spine[0], Args: spine[1:]}
	case "ctr", "fun":
		var node callNode
		if err := payload.Decode(&node); err != nil {
			return err
		}
		if node.Name == "" {
			return errors.New("needs a name")
		}
		e.Kind = EXPR_CTR
		if kind == "fun" {
			e.Kind = EXPR_FUN
		}
		e.Node = &Call{Name: qualifiedAt(node.Name, s), Args: node.Args}
	case "ann":
		var node annNode
		if err := payload.Decode(&node); err != nil {
			return err
		}
		if node.Value == nil || node.Type == nil {
			return errors.New("needs a value and a type")
		}
		e.Kind, e.Node = EXPR_ANN, &Ann{Value: node.Value, Type: node.Type}
	case "sub":
		var node subNode
		if err := payload.Decode(&node); err != nil {
			return err
		}
		if node.Name == "" || node.Expr == nil {
			return errors.New("needs a name and an expression")
		}
		e.Kind, e.Node = EXPR_SUB, &Sub{Name: identAt(node.Name, s), Index: node.Index, Redex: node.Redex, Expr: node.Expr}
	case "hole":
		var n uint64
		if err := payload.Decode(&n); err != nil {
			return err
		}
		e.Kind, e.Node = EXPR_HOLE, &Hole{Num: n}
	case "hlp":
		var name string
		if err := payload.Decode(&name); err != nil {
			return err
		}
		e.Kind, e.Node = EXPR_HLP, &Hlp{Name: identAt(name, s)}
	case "str":
		var value string
		if err := payload.Decode(&value); err != nil {
			return err
		}
		e.Kind, e.Node = EXPR_STR, &Str{Value: value}
	case "op":
		var node binaryNode
		if err := payload.Decode(&node); err != nil {
			return err
		}
		op, ok := ParseOperator(node.Op)
		if !ok {
			return fmt.Errorf("unknown operator %q", node.Op)
		}
		if node.Left == nil || node.Right == nil {
			return errors.New("needs two operands")
		}
		e.Kind, e.Node = EXPR_BINARY, &Binary{Op: op, Left: node.Left, Right: node.Right}
	case "err":
		e.Kind = EXPR_ERR
	default:
		return fmt.Errorf("unknown expression kind")
	}
	return nil
}
