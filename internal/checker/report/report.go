// Package report decodes the normal form of a checker run back into
// diagnostics, and quoted or direct terms back into book expressions.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

// ERR_MALFORMED_REPORT means the checker answered with a shape the decoder
// does not know: the bootstrap and the decoder have drifted apart.
var ERR_MALFORMED_REPORT = errors.New("malformed report")

const (
	recordPrefix = "Kind.Error.Quoted."
	contextEntry = "Kind.Context.entry"
	listCons     = "List.cons"
	listNil      = "List.nil"
)

// recordFields is the number of fields each error record carries after its
// context and origin.
var recordFields = map[string]int{
	"unbound_variable":   1,
	"cant_infer_hole":    0,
	"cant_infer_lambda":  0,
	"invalid_call":       0,
	"too_many_arguments": 0,
	"impossible_case":    2,
	"inspection":         1,
	"type_mismatch":      2,
}

type Decoder struct {
	codec   *ident.Codec
	ceiling int
}

// NewDecoder reads names through codec, which must be the one the rules were
// generated with. A zero ceiling means hvm.SpineCeiling.
func NewDecoder(codec *ident.Codec, ceiling int) *Decoder {
	if ceiling == 0 {
		ceiling = hvm.SpineCeiling
	}
	return &Decoder{codec: codec, ceiling: ceiling}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ERR_MALFORMED_REPORT, fmt.Sprintf(format, args...))
}

// ParseReport decodes the list of error records returned by
// `Kind.API.check_all`, keeping their order. An empty list decodes to no
// diagnostics.
func (d *Decoder) ParseReport(term *hvm.Term) ([]*diagnostics.CheckerError, error) {
	records, err := d.list(term)
	if err != nil {
		return nil, err
	}

	errs := make([]*diagnostics.CheckerError, 0, len(records))
	for _, record := range records {
		diag, err := d.record(record)
		if err != nil {
			return nil, err
		}
		errs = append(errs, diag)
	}
	return errs, nil
}

func (d *Decoder) list(term *hvm.Term) ([]*hvm.Term, error) {
	var items []*hvm.Term
	for {
		switch {
		case term.Kind == hvm.TERM_CTR && term.Name == listNil && len(term.Args) == 0:
			return items, nil
		case term.Kind == hvm.TERM_CTR && term.Name == listCons && len(term.Args) == 2:
			items = append(items, term.Args[0])
			term = term.Args[1]
		default:
			return nil, malformed("expected a list, found %s", term)
		}
	}
}

func (d *Decoder) record(term *hvm.Term) (*diagnostics.CheckerError, error) {
	if term.Kind != hvm.TERM_CTR || !strings.HasPrefix(term.Name, recordPrefix) || len(term.Args) < 2 {
		return nil, malformed("expected an error record, found %s", term)
	}
	kind := strings.TrimPrefix(term.Name, recordPrefix)

	ctx, err := d.context(term.Args[0])
	if err != nil {
		return nil, err
	}
	orig, err := d.span(term.Args[1])
	if err != nil {
		return nil, err
	}
	payload := term.Args[2:]

	want, ok := recordFields[kind]
	if !ok {
		return nil, malformed("unknown error kind %s", kind)
	}
	if len(payload) != want {
		return nil, malformed("%s expects %d fields, found %d", kind, want, len(payload))
	}

	if kind == "unbound_variable" {
		name, err := d.name(payload[0])
		if err != nil {
			return nil, err
		}
		return diagnostics.CheckerUnboundVariable(ctx, orig, name), nil
	}

	exprs := make([]*book.Expr, len(payload))
	for i, field := range payload {
		if exprs[i], err = d.ReadValue(field); err != nil {
			return nil, err
		}
	}

	switch kind {
	case "cant_infer_hole":
		return diagnostics.CantInferHole(ctx, orig), nil
	case "cant_infer_lambda":
		return diagnostics.CantInferLambda(ctx, orig), nil
	case "invalid_call":
		return diagnostics.InvalidCall(ctx, orig), nil
	case "too_many_arguments":
		return diagnostics.TooManyArguments(ctx, orig), nil
	case "impossible_case":
		return diagnostics.ImpossibleCase(ctx, orig, exprs[0], exprs[1]), nil
	case "inspection":
		return diagnostics.Inspection(ctx, orig, exprs[0]), nil
	default:
		return diagnostics.TypeMismatch(ctx, orig, exprs[0], exprs[1]), nil
	}
}

func (d *Decoder) context(term *hvm.Term) ([]diagnostics.ContextEntry, error) {
	items, err := d.list(term)
	if err != nil {
		return nil, err
	}

	ctx := make([]diagnostics.ContextEntry, 0, len(items))
	for _, item := range items {
		if item.Kind != hvm.TERM_CTR || item.Name != contextEntry || len(item.Args) != 3 {
			return nil, malformed("expected a context entry, found %s", item)
		}
		name, err := d.name(item.Args[0])
		if err != nil {
			return nil, err
		}
		typ, err := d.ReadValue(item.Args[1])
		if err != nil {
			return nil, err
		}
		vals, err := d.list(item.Args[2])
		if err != nil {
			return nil, err
		}
		entry := diagnostics.ContextEntry{Name: name, Type: typ}
		for _, val := range vals {
			expr, err := d.ReadValue(val)
			if err != nil {
				return nil, err
			}
			entry.Values = append(entry.Values, expr)
		}
		ctx = append(ctx, entry)
	}
	return ctx, nil
}

func (d *Decoder) span(term *hvm.Term) (span.Span, error) {
	if term.Kind != hvm.TERM_NUM {
		return span.Span{}, malformed("expected a span, found %s", term)
	}
	s, err := span.Decode(term.Num)
	if err != nil {
		return span.Span{}, malformed("%v", err)
	}
	return s, nil
}

func (d *Decoder) name(term *hvm.Term) (string, error) {
	if term.Kind != hvm.TERM_NUM {
		return "", malformed("expected a name id, found %s", term)
	}
	name, ok := d.codec.Lookup(term.Num)
	if !ok {
		return "", malformed("unknown name id %d", term.Num)
	}
	return name, nil
}
