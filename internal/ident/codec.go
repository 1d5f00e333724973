package ident

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

var ERR_IDENT_COLLISION = errors.New("identifier id collision")

// WordMask keeps ids inside the engine's 60-bit numbers.
const WordMask = 1<<60 - 1

// Hash is the raw, table-free id of a name.
func Hash(name string) uint64 {
	return xxhash.Sum64String(name) & WordMask
}

// Codec maps names to ids for one compilation run and remembers the inverse so
// the report decoder can turn ids back into names. It is owned by a single
// run and is not safe for concurrent use.
type Codec struct {
	names map[uint64]string
}

func NewCodec() *Codec {
	return &Codec{names: make(map[uint64]string)}
}

func (c *Codec) Encode(name string) (uint64, error) {
	id := Hash(name)
	if seen, ok := c.names[id]; ok {
		if seen != name {
			return 0, fmt.Errorf("%w: '%s' and '%s' both map to %d", ERR_IDENT_COLLISION, seen, name, id)
		}
		return id, nil
	}
	c.names[id] = name
	return id, nil
}

func (c *Codec) Lookup(id uint64) (string, bool) {
	name, ok := c.names[id]
	return name, ok
}

func (c *Codec) Len() int { return len(c.names) }
