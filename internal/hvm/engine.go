package hvm

import "errors"

// ERR_REJECTED marks a program the engine refused. Runtimes that only see
// the program when running it wrap their refusal with it.
var ERR_REJECTED = errors.New("program rejected by the engine")

// Host addresses a node allocated inside a runtime.
type Host uint64

// Engine compiles a program into a fresh runtime. Runtimes are never shared:
// rules loaded into one cannot be unloaded, so every compilation unit asks
// for its own.
type Engine interface {
	Load(code string) (Runtime, error)
}

// Runtime is the fixed API of a loaded program. The calls are synchronous.
type Runtime interface {
	// AllocCode allocates the term written in code, usually a bare entry
	// symbol such as `Kind.API.check_all`.
	AllocCode(code string) (Host, error)
	// RunIO runs the effect phase rooted at host to completion.
	RunIO(host Host) error
	Normalize(host Host) error
	Readback(host Host) (*Term, error)
}

// Run is the usual sequence: allocate entry, run its effects, normalize and
// read the result back.
func Run(rt Runtime, entry string) (*Term, error) {
	host, err := rt.AllocCode(entry)
	if err != nil {
		return nil, err
	}
	if err := rt.RunIO(host); err != nil {
		return nil, err
	}
	if err := rt.Normalize(host); err != nil {
		return nil, err
	}
	return rt.Readback(host)
}
