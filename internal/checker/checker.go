// Package checker runs generated rules on an engine: the bootstrap rule set
// followed by the rules of a book, entered through `Kind.API.check_all` to
// type check or through `Kind.API.eval_main` to evaluate Main.
package checker

import (
	"errors"
	"fmt"

	"github.com/kind-lang/kindhvm/internal/book"
	"github.com/kind-lang/kindhvm/internal/checker/compiler"
	"github.com/kind-lang/kindhvm/internal/checker/report"
	"github.com/kind-lang/kindhvm/internal/diagnostics"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/ident"
)

var (
	ERR_ENGINE_REJECTED = errors.New("engine rejected the program")
	ERR_NO_CHECKER      = errors.New("bootstrap has no checking algorithm")
	ERR_INTERNAL        = compiler.ERR_INTERNAL
)

const (
	checkAllEntry = "Kind.API.check_all"
	evalMainEntry = "Kind.API.eval_main"
)

type Options struct {
	SpineCeiling int
}

type Checker struct {
	engine    hvm.Engine
	bootstrap Bootstrap
	opts      Options
}

func New(engine hvm.Engine, bootstrap Bootstrap, opts Options) *Checker {
	return &Checker{engine: engine, bootstrap: bootstrap, opts: opts}
}

// GenChecker returns the program run by the engine: the bootstrap followed by
// the rules generated for b. Names are recorded in codec.
func GenChecker(bootstrap Bootstrap, b *book.Book, functionsToCheck []string, codec *ident.Codec, opts Options) (string, error) {
	file, err := compiler.CodegenBook(b, functionsToCheck, codec, compiler.Options{SpineCeiling: opts.SpineCeiling})
	if err != nil {
		return "", err
	}
	code := bootstrap.Source
	if code != "" && code[len(code)-1] != '\n' {
		code += "\n"
	}
	return code + file.String(), nil
}

// TypeCheck checks the entries named in functionsToCheck and sends every
// error the checker reports, in order. It returns false iff any was sent.
// The returned error is an internal failure and never a user diagnostic.
func (c *Checker) TypeCheck(b *book.Book, sender diagnostics.Sender, functionsToCheck []string) (bool, error) {
	if !c.bootstrap.Defines(checkAllEntry) {
		return false, fmt.Errorf("%w: %s", ERR_NO_CHECKER, c.bootstrap.Version)
	}

	codec := ident.NewCodec()
	code, err := GenChecker(c.bootstrap, b, functionsToCheck, codec, c.opts)
	if err != nil {
		return false, err
	}
	term, err := c.run(code, checkAllEntry)
	if err != nil {
		return false, err
	}

	errs, err := report.NewDecoder(codec, c.opts.SpineCeiling).ParseReport(term)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ERR_INTERNAL, err)
	}
	for _, diag := range errs {
		sender.Send(diag)
	}
	return len(errs) == 0, nil
}

// Eval runs Main through the direct rules and reads the result back.
func (c *Checker) Eval(b *book.Book) (*book.Expr, error) {
	codec := ident.NewCodec()
	code, err := GenChecker(c.bootstrap, b, b.Names(), codec, c.opts)
	if err != nil {
		return nil, err
	}
	term, err := c.run(code, evalMainEntry)
	if err != nil {
		return nil, err
	}

	value, err := report.NewDecoder(codec, c.opts.SpineCeiling).ReadValue(term)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ERR_INTERNAL, err)
	}
	return value, nil
}

// run loads code into a fresh runtime. A program the engine refuses means
// the generated rules are broken.
func (c *Checker) run(code, entry string) (*hvm.Term, error) {
	rt, err := c.engine.Load(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ERR_ENGINE_REJECTED, err)
	}
	host, err := rt.AllocCode(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ERR_ENGINE_REJECTED, err)
	}
	if err := rt.RunIO(host); err != nil {
		if errors.Is(err, hvm.ERR_REJECTED) {
			return nil, fmt.Errorf("%w: %v", ERR_ENGINE_REJECTED, err)
		}
		return nil, fmt.Errorf("running %s: %w", entry, err)
	}
	if err := rt.Normalize(host); err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", entry, err)
	}
	return rt.Readback(host)
}
