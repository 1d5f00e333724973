package unbound

import "github.com/kind-lang/kindhvm/internal/span"

type binding struct {
	Range span.Range
	Name  string
}

// Context is the stack of names in scope. Entering a binder takes a Mark and
// leaving it calls Restore with that mark, which truncates the stack back to
// exactly the bindings that were visible before, so sibling branches never see
// each other's names.
type Context struct {
	vars []binding
}

func (ctx *Context) Mark() int { return len(ctx.vars) }

func (ctx *Context) Restore(mark int) {
	if mark > len(ctx.vars) {
		panic("unbound: restoring a context mark that was never taken")
	}
	ctx.vars = ctx.vars[:mark]
}

func (ctx *Context) Push(name string, r span.Range) {
	ctx.vars = append(ctx.vars, binding{Range: r, Name: name})
}

func (ctx *Context) Contains(name string) bool {
	return ctx.Position(name) >= 0
}

// Position returns the index of the outermost binding called name, or -1.
func (ctx *Context) Position(name string) int {
	for i, b := range ctx.vars {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// FindSince looks name up among the bindings pushed after mark.
func (ctx *Context) FindSince(mark int, name string) (binding, bool) {
	for _, b := range ctx.vars[mark:] {
		if b.Name == name {
			return b, true
		}
	}
	return binding{}, false
}

func (ctx *Context) Len() int { return len(ctx.vars) }
