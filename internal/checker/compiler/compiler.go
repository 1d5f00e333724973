// Package compiler turns a desugared book into engine rules. Every entry gets
// two families of rules: quoted ones (`Q$Name`), whose results the checking
// algorithm can pattern match and rebuild, and direct ones (`F$Name`), which
// run on the engine's native reduction. Both come from the same encoder and
// tag table.
package compiler

import (
	"errors"
	"fmt"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/ident"
)

var (
	ERR_INTERNAL      = errors.New("internal error")
	ERR_UNKNOWN_ENTRY = errors.New("unknown entry")
)

type Options struct {
	// SpineCeiling is the longest argument spine kept flat, see hvm.Pack.
	// Zero means hvm.SpineCeiling.
	SpineCeiling int
}

func (o Options) ceiling() int {
	if o.SpineCeiling == 0 {
		return hvm.SpineCeiling
	}
	return o.SpineCeiling
}

// internalError aborts code generation from deep inside the encoder. It is
// recovered in CodegenBook and never escapes the package as a panic.
type internalError struct {
	err error
}

func fail(format string, args ...any) {
	panic(internalError{err: fmt.Errorf(format, args...)})
}

type codegen struct {
	file    *hvm.File
	codec   *ident.Codec
	ceiling int
}

// CodegenBook compiles every entry of b, in book order, and finishes with a
// `Functions` rule listing the entries named in functionsToCheck. Names are
// recorded in codec so the report decoder can map ids back. An error marker
// left in the book or a name id collision yields ERR_INTERNAL.
func CodegenBook(b *book.Book, functionsToCheck []string, codec *ident.Codec, opts Options) (file *hvm.File, err error) {
	if err := hvm.ValidCeiling(opts.ceiling()); err != nil {
		return nil, fmt.Errorf("%w: %v", ERR_INTERNAL, err)
	}
	for _, name := range functionsToCheck {
		if _, ok := b.Get(name); !ok {
			return nil, fmt.Errorf("%w: %s", ERR_UNKNOWN_ENTRY, name)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			internal, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			file, err = nil, fmt.Errorf("%w: %v", ERR_INTERNAL, internal.err)
		}
	}()

	cg := &codegen{file: &hvm.File{}, codec: codec, ceiling: opts.ceiling()}
	for _, entry := range b.Entries() {
		cg.entry(entry)
	}
	cg.functions(b, functionsToCheck)
	return cg.file, nil
}

func (cg *codegen) functions(b *book.Book, functionsToCheck []string) {
	wanted := make(map[string]bool, len(functionsToCheck))
	for _, name := range functionsToCheck {
		wanted[name] = true
	}
	var names []*hvm.Term
	for _, entry := range b.Entries() {
		if wanted[entry.Name.String()] {
			names = append(names, ctrName(entry.Name))
		}
	}
	cg.file.Push(hvm.Ctr(functions), list(names))
}
