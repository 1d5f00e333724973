package hvm

import (
	"strconv"
	"strings"
)

func (t *Term) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Term) write(sb *strings.Builder) {
	switch t.Kind {
	case TERM_VAR:
		sb.WriteString(t.Name)
	case TERM_LAM:
		sb.WriteString("@")
		sb.WriteString(t.Name)
		sb.WriteString(" ")
		t.Body.write(sb)
	case TERM_APP:
		head, args := t.spine()
		sb.WriteString("(")
		if head.Kind == TERM_CTR && len(head.Args) == 0 {
			// `(Foo x)` would read back as a constructor with one field.
			sb.WriteString("(")
			sb.WriteString(head.Name)
			sb.WriteString(")")
		} else {
			head.write(sb)
		}
		for _, arg := range args {
			sb.WriteString(" ")
			arg.write(sb)
		}
		sb.WriteString(")")
	case TERM_CTR:
		if len(t.Args) == 0 {
			sb.WriteString(t.Name)
			return
		}
		sb.WriteString("(")
		sb.WriteString(t.Name)
		for _, arg := range t.Args {
			sb.WriteString(" ")
			arg.write(sb)
		}
		sb.WriteString(")")
	case TERM_NUM:
		sb.WriteString(strconv.FormatUint(t.Num, 10))
	case TERM_OP2:
		sb.WriteString("(")
		sb.WriteString(t.Op.String())
		sb.WriteString(" ")
		t.Args[0].write(sb)
		sb.WriteString(" ")
		t.Args[1].write(sb)
		sb.WriteString(")")
	}
}

// spine flattens a left-nested application into its head and arguments.
func (t *Term) spine() (*Term, []*Term) {
	var args []*Term
	head := t
	for head.Kind == TERM_APP {
		args = append(args, head.Args[1])
		head = head.Args[0]
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return head, args
}

func (r Rule) String() string {
	return r.Lhs.String() + " = " + r.Rhs.String()
}

// String renders one rule per line. Equal files render to equal text.
func (f *File) String() string {
	var sb strings.Builder
	for _, rule := range f.Rules {
		rule.Lhs.write(&sb)
		sb.WriteString(" = ")
		rule.Rhs.write(&sb)
		sb.WriteString("\n")
	}
	return sb.String()
}
