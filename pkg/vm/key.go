package vm

import (
	"math"
	"strconv"
)

// KeyKind distinguishes the three property key variants.
type KeyKind uint8

const (
	KeyKindString KeyKind = iota
	KeyKindIndex
	KeyKindSymbol
)

// maxArrayIndex is the largest valid array index, 2^32 - 2.
const maxArrayIndex = math.MaxUint32 - 1

// PropertyKey is a string, an array index or a symbol. Keys are comparable
// and two keys are equal iff they have the same variant and payload.
type PropertyKey struct {
	kind  KeyKind
	name  string
	index uint32
	sym   *Symbol
}

// NewStringKey canonicalizes s: decimal strings naming an array index
// become index keys.
func NewStringKey(s string) PropertyKey {
	if idx, ok := parseArrayIndex(s); ok {
		return PropertyKey{kind: KeyKindIndex, index: idx}
	}
	return PropertyKey{kind: KeyKindString, name: s}
}

func NewIndexKey(index uint32) PropertyKey {
	if index > maxArrayIndex {
		return PropertyKey{kind: KeyKindString, name: strconv.FormatUint(uint64(index), 10)}
	}
	return PropertyKey{kind: KeyKindIndex, index: index}
}

func NewSymbolKey(s *Symbol) PropertyKey {
	return PropertyKey{kind: KeyKindSymbol, sym: s}
}

// parseArrayIndex accepts only canonical decimal strings: no sign, no
// leading zeros, no "-0", and at most 2^32 - 2.
func parseArrayIndex(s string) (uint32, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	if s[0] == '0' {
		return 0, len(s) == 1
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	if n > maxArrayIndex {
		return 0, false
	}
	return uint32(n), true
}

func (k PropertyKey) Kind() KeyKind   { return k.kind }
func (k PropertyKey) IsString() bool  { return k.kind == KeyKindString }
func (k PropertyKey) IsIndex() bool   { return k.kind == KeyKindIndex }
func (k PropertyKey) IsSymbol() bool  { return k.kind == KeyKindSymbol }
func (k PropertyKey) Index() uint32   { return k.index }
func (k PropertyKey) Symbol() *Symbol { return k.sym }

// Name returns the string form of string and index keys.
func (k PropertyKey) Name() string {
	switch k.kind {
	case KeyKindIndex:
		return strconv.FormatUint(uint64(k.index), 10)
	case KeyKindSymbol:
		return k.sym.String()
	}
	return k.name
}

func (k PropertyKey) String() string {
	if k.kind == KeyKindSymbol {
		return "[" + k.sym.String() + "]"
	}
	return k.Name()
}

// Value converts the key back into a language value (string or symbol).
func (k PropertyKey) Value() Value {
	if k.kind == KeyKindSymbol {
		return k.sym.Value()
	}
	return NewString(k.Name())
}

// keyFromPrimitive converts an already primitive value to a key without
// calling user code.
func keyFromPrimitive(v Value) PropertyKey {
	switch v.typ {
	case TypeSymbol:
		return NewSymbolKey(v.AsSymbol())
	case TypeNumber:
		f := v.AsNumber()
		if f >= 0 && f <= maxArrayIndex && f == math.Trunc(f) && !(f == 0 && math.Signbit(f)) {
			return PropertyKey{kind: KeyKindIndex, index: uint32(f)}
		}
		return PropertyKey{kind: KeyKindString, name: numberToString(f)}
	}
	return NewStringKey(v.String())
}
