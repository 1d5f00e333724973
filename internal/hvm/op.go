package hvm

type Op int

const (
	OP_ADD Op = iota
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_AND
	OP_OR
	OP_XOR
	OP_SHL
	OP_SHR
	OP_LTN
	OP_LTE
	OP_EQL
	OP_GTE
	OP_GTN
	OP_NEQ
)

var opSymbols = [...]string{
	OP_ADD: "+",
	OP_SUB: "-",
	OP_MUL: "*",
	OP_DIV: "/",
	OP_MOD: "%",
	OP_AND: "&",
	OP_OR:  "|",
	OP_XOR: "^",
	OP_SHL: "<<",
	OP_SHR: ">>",
	OP_LTN: "<",
	OP_LTE: "<=",
	OP_EQL: "==",
	OP_GTE: ">=",
	OP_GTN: ">",
	OP_NEQ: "!=",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return "?"
	}
	return opSymbols[op]
}

func ParseOp(symbol string) (Op, bool) {
	for op, s := range opSymbols {
		if s == symbol {
			return Op(op), true
		}
	}
	return 0, false
}

func boolWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Apply computes the operation on 60-bit words. Division and modulo by zero
// yield zero.
func (op Op) Apply(a, b uint64) uint64 {
	var r uint64
	switch op {
	case OP_ADD:
		r = a + b
	case OP_SUB:
		r = a - b
	case OP_MUL:
		r = a * b
	case OP_DIV:
		if b != 0 {
			r = a / b
		}
	case OP_MOD:
		if b != 0 {
			r = a % b
		}
	case OP_AND:
		r = a & b
	case OP_OR:
		r = a | b
	case OP_XOR:
		r = a ^ b
	case OP_SHL:
		r = a << (b & 63)
	case OP_SHR:
		r = a >> (b & 63)
	case OP_LTN:
		r = boolWord(a < b)
	case OP_LTE:
		r = boolWord(a <= b)
	case OP_EQL:
		r = boolWord(a == b)
	case OP_GTE:
		r = boolWord(a >= b)
	case OP_GTN:
		r = boolWord(a > b)
	case OP_NEQ:
		r = boolWord(a != b)
	}
	return r & NumMask
}
