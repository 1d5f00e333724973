package book

import (
	"errors"
	"fmt"

	"github.com/kind-lang/kindhvm/internal/ident"
	"github.com/kind-lang/kindhvm/internal/span"
)

var ERR_DUPLICATED_ENTRY = errors.New("duplicated entry")

type Argument struct {
	Name   ident.Ident
	Type   *Expr
	Hidden bool
	Erased bool
	Span   span.Span
}

// Rule is one equation of an entry. It has one pattern per argument.
type Rule struct {
	Name ident.QualifiedIdent
	Pats []*Expr
	Body *Expr
	Span span.Span
}

type Entry struct {
	Name  ident.QualifiedIdent
	Args  []*Argument
	Type  *Expr
	Rules []*Rule
	Span  span.Span
}

// Book maps qualified names to entries and remembers insertion order, so
// everything that walks it is deterministic.
type Book struct {
	// Files lists the source paths; the position of a path is the context
	// index its spans carry.
	Files []string

	names   []string
	entries map[string]*Entry
}

func New() *Book {
	return &Book{entries: make(map[string]*Entry)}
}

func (b *Book) Add(entry *Entry) error {
	name := entry.Name.String()
	if _, ok := b.entries[name]; ok {
		return fmt.Errorf("%w: %s", ERR_DUPLICATED_ENTRY, name)
	}
	b.names = append(b.names, name)
	b.entries[name] = entry
	return nil
}

func (b *Book) Get(name string) (*Entry, bool) {
	entry, ok := b.entries[name]
	return entry, ok
}

func (b *Book) Names() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

func (b *Book) Entries() []*Entry {
	entries := make([]*Entry, 0, len(b.names))
	for _, name := range b.names {
		entries = append(entries, b.entries[name])
	}
	return entries
}

func (b *Book) Len() int { return len(b.names) }

// Validate checks that every rule has one pattern per argument.
func (b *Book) Validate() error {
	for _, entry := range b.Entries() {
		for _, rule := range entry.Rules {
			if len(rule.Pats) != len(entry.Args) {
				return fmt.Errorf("entry %s: rule has %d patterns but the entry takes %d arguments", entry.Name, len(rule.Pats), len(entry.Args))
			}
		}
	}
	return nil
}
