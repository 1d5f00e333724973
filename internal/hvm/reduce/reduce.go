package reduce

import (
	"fmt"
	"io"
	"strings"

	"github.com/kind-lang/kindhvm/internal/hvm"
)

const (
	putName  = "HVM.put"
	showName = "HVM.Term.show"
)

func (rt *Runtime) tick() error {
	rt.steps++
	if rt.maxSteps > 0 && rt.steps > rt.maxSteps {
		return fmt.Errorf("%w after %d steps", ERR_STEP_LIMIT, rt.maxSteps)
	}
	return nil
}

func (rt *Runtime) freshName(base string) string {
	rt.fresh++
	return fmt.Sprintf("%s'%d", base, rt.fresh)
}

func (rt *Runtime) whnf(term *hvm.Term) (*hvm.Term, error) {
	for {
		if err := rt.tick(); err != nil {
			return nil, err
		}

		switch term.Kind {
		case hvm.TERM_APP:
			fn, err := rt.whnf(term.Args[0])
			if err != nil {
				return nil, err
			}
			if fn.Kind != hvm.TERM_LAM {
				return hvm.App(fn, term.Args[1]), nil
			}
			term = rt.subst(fn.Body, fn.Name, term.Args[1])
		case hvm.TERM_OP2:
			left, err := rt.whnf(term.Args[0])
			if err != nil {
				return nil, err
			}
			right, err := rt.whnf(term.Args[1])
			if err != nil {
				return nil, err
			}
			if left.Kind != hvm.TERM_NUM || right.Kind != hvm.TERM_NUM {
				return hvm.Op2(term.Op, left, right), nil
			}
			return hvm.Num(term.Op.Apply(left.Num, right.Num)), nil
		case hvm.TERM_CTR:
			if term.Name == putName && len(term.Args) == 2 {
				if err := rt.put(term.Args[0]); err != nil {
					return nil, err
				}
				term = term.Args[1]
				continue
			}
			next, ok, err := rt.rewrite(term)
			if err != nil {
				return nil, err
			}
			if !ok {
				return next, nil
			}
			term = next
		default:
			return term, nil
		}
	}
}

// rewrite tries the rules of the constructor in order. When none matches it
// returns the constructor with whatever arguments were forced while trying.
func (rt *Runtime) rewrite(term *hvm.Term) (*hvm.Term, bool, error) {
	rules := rt.rules[term.Name]
	if len(rules) == 0 {
		return term, false, nil
	}

	args := make([]*hvm.Term, len(term.Args))
	copy(args, term.Args)

	for _, rule := range rules {
		if len(rule.Lhs.Args) != len(args) {
			continue
		}
		env := make(map[string]*hvm.Term)
		matched := true
		for i, pat := range rule.Lhs.Args {
			forced, ok, err := rt.match(pat, args[i], env)
			if err != nil {
				return nil, false, err
			}
			args[i] = forced
			if !ok {
				matched = false
				break
			}
		}
		if matched {
			return rt.instantiate(rule.Rhs, env), true, nil
		}
	}
	return hvm.Ctr(term.Name, args...), false, nil
}

// match forces term only as deep as pat needs and returns the forced term so
// the work is kept for the next rule.
func (rt *Runtime) match(pat, term *hvm.Term, env map[string]*hvm.Term) (*hvm.Term, bool, error) {
	switch pat.Kind {
	case hvm.TERM_VAR:
		if pat.Name != hvm.Wildcard {
			env[pat.Name] = term
		}
		return term, true, nil
	case hvm.TERM_NUM:
		forced, err := rt.whnf(term)
		if err != nil {
			return nil, false, err
		}
		return forced, forced.Kind == hvm.TERM_NUM && forced.Num == pat.Num, nil
	case hvm.TERM_CTR:
		forced, err := rt.whnf(term)
		if err != nil {
			return nil, false, err
		}
		if forced.Kind != hvm.TERM_CTR || forced.Name != pat.Name || len(forced.Args) != len(pat.Args) {
			return forced, false, nil
		}
		args := make([]*hvm.Term, len(forced.Args))
		copy(args, forced.Args)
		for i, sub := range pat.Args {
			arg, ok, err := rt.match(sub, args[i], env)
			if err != nil {
				return nil, false, err
			}
			args[i] = arg
			if !ok {
				return hvm.Ctr(forced.Name, args...), false, nil
			}
		}
		return hvm.Ctr(forced.Name, args...), true, nil
	}
	return term, false, nil
}

// instantiate builds a rule's right side. Every binder gets a fresh name, so
// the values in env can never be captured.
func (rt *Runtime) instantiate(term *hvm.Term, env map[string]*hvm.Term) *hvm.Term {
	switch term.Kind {
	case hvm.TERM_VAR:
		if value, ok := env[term.Name]; ok {
			return value
		}
		return term
	case hvm.TERM_LAM:
		fresh := rt.freshName(term.Name)
		shadowed, had := env[term.Name]
		env[term.Name] = hvm.Var(fresh)
		body := rt.instantiate(term.Body, env)
		if had {
			env[term.Name] = shadowed
		} else {
			delete(env, term.Name)
		}
		return hvm.Lam(fresh, body)
	case hvm.TERM_NUM:
		return term
	}
	args := make([]*hvm.Term, len(term.Args))
	for i, arg := range term.Args {
		args[i] = rt.instantiate(arg, env)
	}
	return &hvm.Term{Kind: term.Kind, Name: term.Name, Args: args, Op: term.Op}
}

// subst replaces the free occurrences of name in term with value, renaming
// binders that would capture a free variable of value.
func (rt *Runtime) subst(term *hvm.Term, name string, value *hvm.Term) *hvm.Term {
	free := make(map[string]bool)
	freeVars(value, map[string]bool{}, free)
	return rt.substWith(term, name, value, free)
}

func (rt *Runtime) substWith(term *hvm.Term, name string, value *hvm.Term, free map[string]bool) *hvm.Term {
	switch term.Kind {
	case hvm.TERM_VAR:
		if term.Name == name {
			return value
		}
		return term
	case hvm.TERM_LAM:
		if term.Name == name {
			return term
		}
		if free[term.Name] {
			fresh := rt.freshName(term.Name)
			body := rt.substWith(term.Body, term.Name, hvm.Var(fresh), map[string]bool{fresh: true})
			return hvm.Lam(fresh, rt.substWith(body, name, value, free))
		}
		return hvm.Lam(term.Name, rt.substWith(term.Body, name, value, free))
	case hvm.TERM_NUM:
		return term
	}
	args := make([]*hvm.Term, len(term.Args))
	for i, arg := range term.Args {
		args[i] = rt.substWith(arg, name, value, free)
	}
	return &hvm.Term{Kind: term.Kind, Name: term.Name, Args: args, Op: term.Op}
}

func freeVars(term *hvm.Term, bound, free map[string]bool) {
	switch term.Kind {
	case hvm.TERM_VAR:
		if !bound[term.Name] {
			free[term.Name] = true
		}
	case hvm.TERM_LAM:
		shadowed := bound[term.Name]
		bound[term.Name] = true
		freeVars(term.Body, bound, free)
		bound[term.Name] = shadowed
	default:
		for _, arg := range term.Args {
			freeVars(arg, bound, free)
		}
	}
}

func (rt *Runtime) normalize(term *hvm.Term) (*hvm.Term, error) {
	whnf, err := rt.whnf(term)
	if err != nil {
		return nil, err
	}
	switch whnf.Kind {
	case hvm.TERM_LAM:
		body, err := rt.normalize(whnf.Body)
		if err != nil {
			return nil, err
		}
		return hvm.Lam(whnf.Name, body), nil
	case hvm.TERM_APP, hvm.TERM_CTR, hvm.TERM_OP2:
		args := make([]*hvm.Term, len(whnf.Args))
		for i, arg := range whnf.Args {
			if args[i], err = rt.normalize(arg); err != nil {
				return nil, err
			}
		}
		return &hvm.Term{Kind: whnf.Kind, Name: whnf.Name, Args: args, Op: whnf.Op}, nil
	}
	return whnf, nil
}

// put writes the rendering of msg to the trace, one message per line.
// `(HVM.Term.show t)` renders t itself and a `String.cons` chain renders as
// the text it spells.
func (rt *Runtime) put(msg *hvm.Term) error {
	normal, err := rt.normalize(msg)
	if err != nil {
		return err
	}
	if rt.trace == nil {
		return nil
	}
	text := normal.String()
	if normal.IsCtr(showName) && len(normal.Args) == 1 {
		text = normal.Args[0].String()
	} else if s, ok := readString(normal); ok {
		text = s
	}
	_, err = io.WriteString(rt.trace, text+"\n")
	return err
}

func readString(term *hvm.Term) (string, bool) {
	var sb strings.Builder
	for term.IsCtr("String.cons") && len(term.Args) == 2 {
		if term.Args[0].Kind != hvm.TERM_NUM {
			return "", false
		}
		sb.WriteRune(rune(term.Args[0].Num))
		term = term.Args[1]
	}
	if !term.IsCtr("String.nil") {
		return "", false
	}
	return sb.String(), true
}
