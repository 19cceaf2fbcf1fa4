package vm

import "sort"

// propertyTable stores own properties and remembers their enumeration
// order: indices ascending, then strings and symbols in insertion order.
type propertyTable struct {
	props   map[PropertyKey]*property
	indices []uint32
	strings []string
	symbols []*Symbol
	// indicesSorted is false after an out-of-order index insert.
	indicesSorted bool
}

func newPropertyTable() *propertyTable {
	return &propertyTable{
		props:         make(map[PropertyKey]*property),
		indicesSorted: true,
	}
}

func (t *propertyTable) get(key PropertyKey) (*property, bool) {
	p, ok := t.props[key]
	return p, ok
}

func (t *propertyTable) has(key PropertyKey) bool {
	_, ok := t.props[key]
	return ok
}

func (t *propertyTable) len() int { return len(t.props) }

// set inserts or replaces the property stored under key. Replacing keeps
// the original position.
func (t *propertyTable) set(key PropertyKey, p *property) {
	if _, exists := t.props[key]; !exists {
		switch key.kind {
		case KeyKindIndex:
			if n := len(t.indices); n > 0 && t.indices[n-1] > key.index {
				t.indicesSorted = false
			}
			t.indices = append(t.indices, key.index)
		case KeyKindString:
			t.strings = append(t.strings, key.name)
		case KeyKindSymbol:
			t.symbols = append(t.symbols, key.sym)
		}
	}
	t.props[key] = p
}

func (t *propertyTable) remove(key PropertyKey) {
	if _, exists := t.props[key]; !exists {
		return
	}
	delete(t.props, key)
	switch key.kind {
	case KeyKindIndex:
		for i, idx := range t.indices {
			if idx == key.index {
				t.indices = append(t.indices[:i], t.indices[i+1:]...)
				break
			}
		}
	case KeyKindString:
		for i, name := range t.strings {
			if name == key.name {
				t.strings = append(t.strings[:i], t.strings[i+1:]...)
				break
			}
		}
	case KeyKindSymbol:
		for i, sym := range t.symbols {
			if sym == key.sym {
				t.symbols = append(t.symbols[:i], t.symbols[i+1:]...)
				break
			}
		}
	}
}

func (t *propertyTable) sortIndices() {
	if !t.indicesSorted {
		sort.Slice(t.indices, func(i, j int) bool { return t.indices[i] < t.indices[j] })
		t.indicesSorted = true
	}
}

// indexKeys returns the index keys in ascending order.
func (t *propertyTable) indexKeys() []uint32 {
	t.sortIndices()
	out := make([]uint32, len(t.indices))
	copy(out, t.indices)
	return out
}

// keys returns every key in enumeration order.
func (t *propertyTable) keys() []PropertyKey {
	t.sortIndices()
	out := make([]PropertyKey, 0, len(t.props))
	for _, idx := range t.indices {
		out = append(out, PropertyKey{kind: KeyKindIndex, index: idx})
	}
	for _, name := range t.strings {
		out = append(out, PropertyKey{kind: KeyKindString, name: name})
	}
	for _, sym := range t.symbols {
		out = append(out, PropertyKey{kind: KeyKindSymbol, sym: sym})
	}
	return out
}

// nonIndexKeys returns string keys then symbol keys in insertion order.
func (t *propertyTable) nonIndexKeys() []PropertyKey {
	out := make([]PropertyKey, 0, len(t.strings)+len(t.symbols))
	for _, name := range t.strings {
		out = append(out, PropertyKey{kind: KeyKindString, name: name})
	}
	for _, sym := range t.symbols {
		out = append(out, PropertyKey{kind: KeyKindSymbol, sym: sym})
	}
	return out
}
