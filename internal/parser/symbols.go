package parser

import "sort"

// SymbolSet holds the names declared so far in one parse. It only grows:
// there is no removal, shadowing or scoping.
type SymbolSet struct {
	names map[string]struct{}
	order []string
}

// NewSymbolSet returns an empty set.
func NewSymbolSet() *SymbolSet {
	return &SymbolSet{names: make(map[string]struct{})}
}

// Declare adds name. Declaring a name twice is a no-op.
func (s *SymbolSet) Declare(name string) {
	if _, ok := s.names[name]; ok {
		return
	}
	s.names[name] = struct{}{}
	s.order = append(s.order, name)
}

// Declared reports whether name has been declared.
func (s *SymbolSet) Declared(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct names.
func (s *SymbolSet) Len() int {
	return len(s.order)
}

// Names returns the declared names in declaration order.
func (s *SymbolSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Sorted returns the declared names in lexical order.
func (s *SymbolSet) Sorted() []string {
	out := s.Names()
	sort.Strings(out)
	return out
}
