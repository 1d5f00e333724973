// Package reduce is an in-process runtime for the rule format of package hvm.
// It evaluates lazily, first matching rule wins, and is meant for tests and
// small programs rather than speed.
package reduce

import (
	"errors"
	"fmt"
	"io"

	"github.com/kind-lang/kindhvm/internal/hvm"
)

var (
	ERR_INVALID_RULE = errors.New("invalid rule")
	ERR_ARITY        = errors.New("node arity over the engine limit")
	ERR_STEP_LIMIT   = errors.New("step limit reached")
	ERR_INVALID_HOST = errors.New("invalid host")
)

type Options struct {
	// Trace receives the output of `HVM.put`. Nil discards it.
	Trace io.Writer
	// MaxSteps bounds the number of reduction steps of one runtime. Zero
	// means no bound.
	MaxSteps int
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Load parses and validates code. Every call returns an independent runtime.
func (e *Engine) Load(code string) (hvm.Runtime, error) {
	file, err := hvm.ParseFile(code)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		rules:    make(map[string][]hvm.Rule),
		trace:    e.opts.Trace,
		maxSteps: e.opts.MaxSteps,
	}
	for _, rule := range file.Rules {
		if err := checkRule(rule); err != nil {
			return nil, fmt.Errorf("%w in `%s`", err, rule)
		}
		rt.rules[rule.Lhs.Name] = append(rt.rules[rule.Lhs.Name], rule)
	}
	return rt, nil
}

func checkRule(rule hvm.Rule) error {
	if rule.Lhs.WidestArity() >= hvm.MaxArity || rule.Rhs.WidestArity() >= hvm.MaxArity {
		return ERR_ARITY
	}
	bound := make(map[string]bool)
	for _, pat := range rule.Lhs.Args {
		if err := collectPatternVars(pat, bound); err != nil {
			return err
		}
	}
	return checkBound(rule.Rhs, bound)
}

func collectPatternVars(pat *hvm.Term, bound map[string]bool) error {
	switch pat.Kind {
	case hvm.TERM_VAR:
		if pat.Name == hvm.Wildcard {
			return nil
		}
		if bound[pat.Name] {
			return fmt.Errorf("%w: variable %s bound twice", ERR_INVALID_RULE, pat.Name)
		}
		bound[pat.Name] = true
	case hvm.TERM_NUM:
	case hvm.TERM_CTR:
		for _, arg := range pat.Args {
			if err := collectPatternVars(arg, bound); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %s cannot appear in a pattern", ERR_INVALID_RULE, pat.Kind)
	}
	return nil
}

func checkBound(term *hvm.Term, bound map[string]bool) error {
	switch term.Kind {
	case hvm.TERM_VAR:
		if !bound[term.Name] {
			return fmt.Errorf("%w: unbound variable %s", ERR_INVALID_RULE, term.Name)
		}
	case hvm.TERM_LAM:
		shadowed := bound[term.Name]
		bound[term.Name] = true
		err := checkBound(term.Body, bound)
		bound[term.Name] = shadowed
		return err
	default:
		for _, arg := range term.Args {
			if err := checkBound(arg, bound); err != nil {
				return err
			}
		}
	}
	return nil
}

type Runtime struct {
	rules    map[string][]hvm.Rule
	heap     []*hvm.Term
	trace    io.Writer
	steps    int
	maxSteps int
	fresh    int
}

func (rt *Runtime) AllocCode(code string) (hvm.Host, error) {
	term, err := hvm.ParseTerm(code)
	if err != nil {
		return 0, err
	}
	rt.heap = append(rt.heap, term)
	return hvm.Host(len(rt.heap) - 1), nil
}

func (rt *Runtime) lookup(host hvm.Host) (*hvm.Term, error) {
	if int(host) >= len(rt.heap) {
		return nil, fmt.Errorf("%w: %d", ERR_INVALID_HOST, host)
	}
	return rt.heap[host], nil
}

// RunIO reduces the root to weak head normal form, which performs every
// `HVM.put` on the way.
func (rt *Runtime) RunIO(host hvm.Host) error {
	term, err := rt.lookup(host)
	if err != nil {
		return err
	}
	whnf, err := rt.whnf(term)
	if err != nil {
		return err
	}
	rt.heap[host] = whnf
	return nil
}

func (rt *Runtime) Normalize(host hvm.Host) error {
	term, err := rt.lookup(host)
	if err != nil {
		return err
	}
	normal, err := rt.normalize(term)
	if err != nil {
		return err
	}
	rt.heap[host] = normal
	return nil
}

func (rt *Runtime) Readback(host hvm.Host) (*hvm.Term, error) {
	return rt.lookup(host)
}

// Steps is the number of reduction steps taken so far.
func (rt *Runtime) Steps() int { return rt.steps }
