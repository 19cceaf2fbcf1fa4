package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeSymbol
	TypeObject
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

type stringBox struct {
	value string
}

// Value is a tagged language value. Numbers live in payload, strings,
// symbols and objects behind obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeNumber, payload: math.Float64bits(value)}
}

func IntValue(value int) Value {
	return NumberValue(float64(value))
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&stringBox{value: value})}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsNullish() bool   { return v.typ == TypeUndefined || v.typ == TypeNull }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool    { return v.typ == TypeNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsSymbol() bool    { return v.typ == TypeSymbol }
func (v Value) IsObject() bool    { return v.typ == TypeObject }

// IsCallable reports whether v is an object with a [[Call]] internal method.
func (v Value) IsCallable() bool {
	o := v.AsObject()
	return o != nil && o.IsCallable()
}

// IsConstructor reports whether v is an object with a [[Construct]] internal method.
func (v Value) IsConstructor() bool {
	o := v.AsObject()
	return o != nil && o.IsConstructor()
}

func (v Value) AsBoolean() bool {
	return v.typ == TypeBoolean && v.payload != 0
}

func (v Value) AsNumber() float64 {
	if v.typ != TypeNumber {
		return math.NaN()
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		return ""
	}
	return (*stringBox)(v.obj).value
}

// AsSymbol returns the symbol held by v, or nil.
func (v Value) AsSymbol() *Symbol {
	if v.typ != TypeSymbol {
		return nil
	}
	return (*Symbol)(v.obj)
}

// AsObject returns the object held by v, or nil.
func (v Value) AsObject() *Object {
	if v.typ != TypeObject {
		return nil
	}
	return (*Object)(v.obj)
}

// ToBoolean never calls user code.
func (v Value) ToBoolean() bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.payload != 0
	case TypeNumber:
		f := v.AsNumber()
		return f != 0 && !math.IsNaN(f)
	case TypeString:
		return v.AsString() != ""
	default:
		return true
	}
}

// String renders v without side effects. It is used for diagnostics and
// never invokes user code.
func (v Value) String() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.payload != 0 {
			return "true"
		}
		return "false"
	case TypeNumber:
		return numberToString(v.AsNumber())
	case TypeString:
		return v.AsString()
	case TypeSymbol:
		return v.AsSymbol().String()
	case TypeObject:
		return v.AsObject().String()
	default:
		return "<unknown>"
	}
}

// Inspect is like String but quotes strings, for use inside messages.
func (v Value) Inspect() string {
	if v.typ == TypeString {
		return strconv.Quote(v.AsString())
	}
	return v.String()
}

// SameValue implements the SameValue comparison.
func SameValue(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeNumber:
		x, y := a.AsNumber(), b.AsNumber()
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		if x == 0 && y == 0 {
			return math.Signbit(x) == math.Signbit(y)
		}
		return x == y
	case TypeString:
		return a.AsString() == b.AsString()
	default:
		return a.payload == b.payload && a.obj == b.obj
	}
}

// SameValueZero is SameValue except that +0 and -0 are equal.
func SameValueZero(a, b Value) bool {
	if a.typ == TypeNumber && b.typ == TypeNumber {
		x, y := a.AsNumber(), b.AsNumber()
		if x == 0 && y == 0 {
			return true
		}
	}
	return SameValue(a, b)
}

// StrictEquals implements the === operator.
func StrictEquals(a, b Value) bool {
	if a.typ == TypeNumber && b.typ == TypeNumber {
		return a.AsNumber() == b.AsNumber()
	}
	return SameValue(a, b)
}

// cleanExponentialFormat removes leading zeros from exponent to match JS format
// e.g., "1e-07" -> "1e-7", "1e+25" -> "1e+25"
func cleanExponentialFormat(s string) string {
	i := strings.IndexAny(s, "eE")
	if i < 0 || i+1 >= len(s) {
		return s
	}
	if s[i+1] != '+' && s[i+1] != '-' {
		return s
	}
	j := i + 2
	for j < len(s)-1 && s[j] == '0' {
		j++
	}
	return s[:i+2] + s[j:]
}

// numberToString implements Number::toString for radix 10.
func numberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return cleanExponentialFormat(strconv.FormatFloat(f, 'e', -1, 64))
}

// stringToNumber implements StringToNumber. Go-specific literal forms
// (underscores, "inf", hex floats) are rejected.
func stringToNumber(s string) float64 {
	s = strings.TrimFunc(s, isJSWhitespace)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil || strings.ContainsRune(s, '_') {
				return math.NaN()
			}
			return float64(n)
		}
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

func isJSWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xA0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// toIntegerOrInfinity truncates f toward zero, mapping NaN to 0.
func toIntegerOrInfinity(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 0) {
		return f
	}
	t := math.Trunc(f)
	if t == 0 {
		return 0
	}
	return t
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint32(m)
}

func toInt32(f float64) int32 {
	return int32(toUint32(f))
}

func toUint16(f float64) uint16 {
	return uint16(toUint32(f))
}

func toInt16(f float64) int16 {
	return int16(toUint32(f))
}

func toUint8(f float64) uint8 {
	return uint8(toUint32(f))
}

func toInt8(f float64) int8 {
	return int8(toUint32(f))
}

// toUint8Clamp rounds half to even and clamps into [0, 255].
func toUint8Clamp(f float64) uint8 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(f))
}

func typeofValue(v Value) string {
	switch v.typ {
	case TypeObject:
		if v.AsObject().IsCallable() {
			return "function"
		}
		return "object"
	case TypeNull:
		return "object"
	default:
		return v.typ.String()
	}
}

// Typeof implements the typeof operator.
func Typeof(v Value) string { return typeofValue(v) }

func (vt ValueType) article() string {
	switch vt {
	case TypeUndefined, TypeObject:
		return "an"
	}
	return "a"
}

// describeType is used in diagnostics such as "got a number".
func describeType(v Value) string {
	return fmt.Sprintf("%s %s", v.typ.article(), v.typ)
}
