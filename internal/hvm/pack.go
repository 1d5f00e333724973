package hvm

import (
	"fmt"
	"strings"
)

const (
	// MaxArity is the engine's fixed limit on constructor children.
	MaxArity = 16
	// SpineCeiling is the longest argument spine kept flat. Calls prefix the
	// spine with up to two more children (name and origin), so a packed spine
	// of SpineCeiling-1 elements still fits under MaxArity.
	SpineCeiling = 14

	ArgsPrefix = "Kind.Term.args"
)

// ValidCeiling reports whether ceiling can be used to pack spines.
func ValidCeiling(ceiling int) error {
	if ceiling < 3 || ceiling > MaxArity-2 {
		return fmt.Errorf("spine ceiling must be between 3 and %d, got %d", MaxArity-2, ceiling)
	}
	return nil
}

// Pack keeps a spine shorter than ceiling. A spine at or over the ceiling
// keeps its first ceiling-2 elements and moves the tail into one
// `Kind.Term.args<N>` container, packed again if needed. The result always
// has fewer than ceiling elements.
func Pack(spine []*Term, ceiling int) []*Term {
	if len(spine) < ceiling {
		return spine
	}
	head, tail := spine[:ceiling-2], spine[ceiling-2:]
	packed := make([]*Term, 0, ceiling-1)
	packed = append(packed, head...)
	return append(packed, Ctr(fmt.Sprintf("%s%d", ArgsPrefix, len(tail)), Pack(tail, ceiling)...))
}

// Unpack inverts Pack.
func Unpack(args []*Term, ceiling int) []*Term {
	if len(args) != ceiling-1 || !isArgsContainer(args[len(args)-1]) {
		return args
	}
	last := args[len(args)-1]
	flat := make([]*Term, 0, len(args)+len(last.Args))
	flat = append(flat, args[:len(args)-1]...)
	return append(flat, Unpack(last.Args, ceiling)...)
}

func isArgsContainer(t *Term) bool {
	return t.Kind == TERM_CTR && strings.HasPrefix(t.Name, ArgsPrefix)
}
