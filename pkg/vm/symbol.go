package vm

import (
	"sync"
	"unsafe"
)

// Symbol is a unique, immutable primitive. Identity is pointer identity.
type Symbol struct {
	description    string
	hasDescription bool
}

func NewSymbol(description string) *Symbol {
	return &Symbol{description: description, hasDescription: true}
}

// NewAnonymousSymbol creates a symbol whose description is undefined.
func NewAnonymousSymbol() *Symbol {
	return &Symbol{}
}

func (s *Symbol) Description() (string, bool) {
	return s.description, s.hasDescription
}

func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

func (s *Symbol) Value() Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(s)}
}

func NewSymbolValue(s *Symbol) Value { return s.Value() }

// Well-known symbols are shared by every realm.
var (
	SymbolToStringTag = NewSymbol("Symbol.toStringTag")
	SymbolToPrimitive = NewSymbol("Symbol.toPrimitive")
	SymbolHasInstance = NewSymbol("Symbol.hasInstance")
	SymbolIterator    = NewSymbol("Symbol.iterator")
	SymbolSpecies     = NewSymbol("Symbol.species")
)

// SymbolRegistry backs Symbol.for and Symbol.keyFor. Each realm owns one.
type SymbolRegistry struct {
	mu     sync.Mutex
	byKey  map[string]*Symbol
	bySymb map[*Symbol]string
}

func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{
		byKey:  make(map[string]*Symbol),
		bySymb: make(map[*Symbol]string),
	}
}

// For returns the registered symbol for key, creating it on first use.
func (r *SymbolRegistry) For(key string) *Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byKey[key]; ok {
		return s
	}
	s := NewSymbol(key)
	r.byKey[key] = s
	r.bySymb[s] = key
	return s
}

// KeyFor returns the registry key of s, if s was created by For.
func (r *SymbolRegistry) KeyFor(s *Symbol) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.bySymb[s]
	return key, ok
}
