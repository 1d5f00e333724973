package ast

// Module is the content of one parsed file, in source order.
type Module struct {
	Entries []*TopLevel
}

// Book is every top-level definition loaded for a compilation unit, keyed by
// qualified name. Names keeps the load order.
type Book struct {
	Names   []string
	Entries map[string]*TopLevel
}

func NewBook() *Book {
	return &Book{Entries: make(map[string]*TopLevel)}
}

func (b *Book) Add(top *TopLevel) {
	name := top.Name().String()
	if _, ok := b.Entries[name]; !ok {
		b.Names = append(b.Names, name)
	}
	b.Entries[name] = top
}

func (b *Book) Ordered() []*TopLevel {
	tops := make([]*TopLevel, 0, len(b.Names))
	for _, name := range b.Names {
		tops = append(tops, b.Entries[name])
	}
	return tops
}
