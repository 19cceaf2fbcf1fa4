package vm

import (
	"encoding/binary"
	"math"
)

// TypedArrayKind represents the different typed array types
type TypedArrayKind uint8

const (
	TypedArrayInt8 TypedArrayKind = iota
	TypedArrayUint8
	TypedArrayUint8Clamped
	TypedArrayInt16
	TypedArrayUint16
	TypedArrayInt32
	TypedArrayUint32
	TypedArrayFloat32
	TypedArrayFloat64

	typedArrayKindCount
)

// TypedArrayKinds lists every supported view kind in constructor order.
func TypedArrayKinds() []TypedArrayKind {
	kinds := make([]TypedArrayKind, 0, typedArrayKindCount)
	for k := TypedArrayKind(0); k < typedArrayKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// BytesPerElement returns the element size of the kind.
func (kind TypedArrayKind) BytesPerElement() int {
	switch kind {
	case TypedArrayInt8, TypedArrayUint8, TypedArrayUint8Clamped:
		return 1
	case TypedArrayInt16, TypedArrayUint16:
		return 2
	case TypedArrayInt32, TypedArrayUint32, TypedArrayFloat32:
		return 4
	case TypedArrayFloat64:
		return 8
	default:
		return 0
	}
}

// Name returns the constructor name for this kind.
func (kind TypedArrayKind) Name() string {
	switch kind {
	case TypedArrayInt8:
		return "Int8Array"
	case TypedArrayUint8:
		return "Uint8Array"
	case TypedArrayUint8Clamped:
		return "Uint8ClampedArray"
	case TypedArrayInt16:
		return "Int16Array"
	case TypedArrayUint16:
		return "Uint16Array"
	case TypedArrayInt32:
		return "Int32Array"
	case TypedArrayUint32:
		return "Uint32Array"
	case TypedArrayFloat32:
		return "Float32Array"
	case TypedArrayFloat64:
		return "Float64Array"
	default:
		return "TypedArray"
	}
}

// maxBufferByteLength caps allocations made on behalf of scripts.
const maxBufferByteLength = 1 << 30

// ArrayBuffer is the byte store behind typed array views. Detaching is
// permanent and leaves a zero-length buffer.
type ArrayBuffer struct {
	data          []byte
	maxByteLength int
	resizable     bool
	detached      bool
}

func (b *ArrayBuffer) Bytes() []byte      { return b.data }
func (b *ArrayBuffer) ByteLength() int    { return len(b.data) }
func (b *ArrayBuffer) MaxByteLength() int { return b.maxByteLength }
func (b *ArrayBuffer) IsResizable() bool  { return b.resizable }
func (b *ArrayBuffer) IsDetached() bool   { return b.detached }

func (b *ArrayBuffer) Detach() {
	b.detached = true
	b.data = nil
}

// Resize changes the length of a resizable buffer. Bytes exposed by
// growing are zero.
func (b *ArrayBuffer) Resize(n int) bool {
	if !b.resizable || b.detached || n < 0 || n > b.maxByteLength {
		return false
	}
	old := len(b.data)
	if n < old {
		clear(b.data[n:old])
		b.data = b.data[:n]
		return true
	}
	if n <= cap(b.data) {
		b.data = b.data[:n]
		return true
	}
	grown := make([]byte, n, b.maxByteLength)
	copy(grown, b.data)
	b.data = grown
	return true
}

// AllocateArrayBuffer creates an ArrayBuffer object. maxByteLength < 0
// means a fixed-length buffer. A nil proto means ArrayBuffer.prototype.
func (r *Realm) AllocateArrayBuffer(proto *Object, byteLength, maxByteLength int) (*Object, error) {
	if byteLength < 0 || byteLength > maxBufferByteLength {
		return nil, r.NewRangeError(MsgInvalidArrayBufferLength)
	}
	buf := &ArrayBuffer{}
	if maxByteLength >= 0 {
		if byteLength > maxByteLength {
			return nil, r.NewRangeError(MsgArrayBufferMaxLength)
		}
		if maxByteLength > maxBufferByteLength {
			return nil, r.NewRangeError(MsgInvalidArrayBufferLength)
		}
		buf.resizable = true
		buf.maxByteLength = maxByteLength
		buf.data = make([]byte, byteLength, maxByteLength)
	} else {
		buf.maxByteLength = byteLength
		buf.data = make([]byte, byteLength)
	}
	if proto == nil {
		proto = r.ArrayBufferPrototype
	}
	obj := newObject(r, KindOrdinary, "ArrayBuffer", proto, ordinaryMethods)
	obj.internal = buf
	return obj, nil
}

// TransferArrayBuffer copies the bytes of src into a new buffer and
// detaches src. An undefined newLength keeps the current byte length.
// With preserveResizability a resizable source gives a resizable result
// with the same maxByteLength.
func (r *Realm) TransferArrayBuffer(src *Object, newLength Value, preserveResizability bool) (*Object, error) {
	buf, ok := ArrayBufferOf(src)
	if !ok {
		return nil, r.NewTypeError(MsgNotAnObject, src.String())
	}
	n := len(buf.data)
	if !newLength.IsUndefined() {
		var err error
		if n, err = r.ToIndex(newLength); err != nil {
			return nil, err
		}
	}
	if buf.detached {
		return nil, r.NewTypeError(MsgArrayBufferDetached)
	}
	maxLen := -1
	if preserveResizability && buf.resizable {
		maxLen = buf.maxByteLength
	}
	dst, err := r.AllocateArrayBuffer(nil, n, maxLen)
	if err != nil {
		return nil, err
	}
	copy(dst.internal.(*ArrayBuffer).data, buf.data)
	buf.Detach()
	return dst, nil
}

// ArrayBufferOf returns the buffer state of an ArrayBuffer object.
func ArrayBufferOf(o *Object) (*ArrayBuffer, bool) {
	if o == nil {
		return nil, false
	}
	b, ok := o.internal.(*ArrayBuffer)
	return b, ok
}

// TypedArray is the state of an integer-indexed view.
type TypedArray struct {
	kind           TypedArrayKind
	bufferObject   *Object
	buffer         *ArrayBuffer
	byteOffset     int
	arrayLength    int
	lengthTracking bool
}

func (ta *TypedArray) Kind() TypedArrayKind   { return ta.kind }
func (ta *TypedArray) Buffer() *Object        { return ta.bufferObject }
func (ta *TypedArray) IsLengthTracking() bool { return ta.lengthTracking }

// IsOutOfBounds reports whether the view no longer fits its buffer.
// Detached buffers are always out of bounds.
func (ta *TypedArray) IsOutOfBounds() bool {
	if ta.buffer.detached {
		return true
	}
	bufLen := len(ta.buffer.data)
	end := bufLen
	if !ta.lengthTracking {
		end = ta.byteOffset + ta.arrayLength*ta.kind.BytesPerElement()
	}
	return ta.byteOffset > bufLen || end > bufLen
}

// Length is the current element count, zero when out of bounds.
func (ta *TypedArray) Length() int {
	if ta.IsOutOfBounds() {
		return 0
	}
	if ta.lengthTracking {
		return (len(ta.buffer.data) - ta.byteOffset) / ta.kind.BytesPerElement()
	}
	return ta.arrayLength
}

func (ta *TypedArray) ByteLength() int {
	return ta.Length() * ta.kind.BytesPerElement()
}

func (ta *TypedArray) ByteOffset() int {
	if ta.IsOutOfBounds() {
		return 0
	}
	return ta.byteOffset
}

func (ta *TypedArray) isValidIndex(idx float64) bool {
	if ta.buffer.detached {
		return false
	}
	if math.IsNaN(idx) || math.IsInf(idx, 0) || idx != math.Trunc(idx) {
		return false
	}
	if idx == 0 && math.Signbit(idx) {
		return false
	}
	return idx >= 0 && idx < float64(ta.Length())
}

// GetElement reads element i; callers check bounds first.
func (ta *TypedArray) GetElement(i int) Value {
	data := ta.buffer.data[ta.byteOffset+i*ta.kind.BytesPerElement():]
	switch ta.kind {
	case TypedArrayInt8:
		return NumberValue(float64(int8(data[0])))
	case TypedArrayUint8, TypedArrayUint8Clamped:
		return NumberValue(float64(data[0]))
	case TypedArrayInt16:
		return NumberValue(float64(int16(binary.LittleEndian.Uint16(data))))
	case TypedArrayUint16:
		return NumberValue(float64(binary.LittleEndian.Uint16(data)))
	case TypedArrayInt32:
		return NumberValue(float64(int32(binary.LittleEndian.Uint32(data))))
	case TypedArrayUint32:
		return NumberValue(float64(binary.LittleEndian.Uint32(data)))
	case TypedArrayFloat32:
		return NumberValue(float64(math.Float32frombits(binary.LittleEndian.Uint32(data))))
	case TypedArrayFloat64:
		return NumberValue(math.Float64frombits(binary.LittleEndian.Uint64(data)))
	}
	return Undefined
}

// SetElement writes an already converted number to element i.
func (ta *TypedArray) SetElement(i int, num float64) {
	data := ta.buffer.data[ta.byteOffset+i*ta.kind.BytesPerElement():]
	switch ta.kind {
	case TypedArrayInt8:
		data[0] = byte(toInt8(num))
	case TypedArrayUint8:
		data[0] = toUint8(num)
	case TypedArrayUint8Clamped:
		data[0] = toUint8Clamp(num)
	case TypedArrayInt16:
		binary.LittleEndian.PutUint16(data, uint16(toInt16(num)))
	case TypedArrayUint16:
		binary.LittleEndian.PutUint16(data, toUint16(num))
	case TypedArrayInt32:
		binary.LittleEndian.PutUint32(data, uint32(toInt32(num)))
	case TypedArrayUint32:
		binary.LittleEndian.PutUint32(data, toUint32(num))
	case TypedArrayFloat32:
		binary.LittleEndian.PutUint32(data, math.Float32bits(float32(num)))
	case TypedArrayFloat64:
		binary.LittleEndian.PutUint64(data, math.Float64bits(num))
	}
}

// TypedArrayOf returns the view state of a typed array object.
func TypedArrayOf(o *Object) (*TypedArray, bool) {
	if o == nil {
		return nil, false
	}
	ta, ok := o.internal.(*TypedArray)
	return ta, ok
}

func (r *Realm) newTypedArrayObject(ta *TypedArray, proto *Object) *Object {
	if proto == nil {
		proto = r.typedArrayPrototypes[ta.kind]
	}
	obj := newObject(r, KindTypedArray, ta.kind.Name(), proto, typedArrayMethods)
	obj.internal = ta
	return obj
}

// AllocateTypedArray creates a view of length elements over a new buffer.
func (r *Realm) AllocateTypedArray(kind TypedArrayKind, proto *Object, length int) (*Object, error) {
	size := kind.BytesPerElement()
	if length < 0 || length > maxBufferByteLength/size {
		return nil, r.NewRangeError(MsgInvalidTypedArrayLength, numberToString(float64(length)))
	}
	bufObj, err := r.AllocateArrayBuffer(nil, length*size, -1)
	if err != nil {
		return nil, err
	}
	buf := bufObj.internal.(*ArrayBuffer)
	return r.newTypedArrayObject(&TypedArray{
		kind:         kind,
		bufferObject: bufObj,
		buffer:       buf,
		arrayLength:  length,
	}, proto), nil
}

// InitializeTypedArrayFromArrayBuffer creates a view over an existing
// buffer. Undefined length on a resizable buffer gives a length-tracking
// view.
func (r *Realm) InitializeTypedArrayFromArrayBuffer(kind TypedArrayKind, proto *Object, bufObj *Object, byteOffset, length Value) (*Object, error) {
	buf, ok := ArrayBufferOf(bufObj)
	if !ok {
		return nil, r.NewTypeError(MsgNotAnObject, bufObj.String())
	}
	size := kind.BytesPerElement()
	offset, err := r.ToIndex(byteOffset)
	if err != nil {
		return nil, err
	}
	if offset%size != 0 {
		return nil, r.NewRangeError(MsgInvalidTypedArrayOffset, kind.Name(), size)
	}
	newLength := 0
	if !length.IsUndefined() {
		if newLength, err = r.ToIndex(length); err != nil {
			return nil, err
		}
	}
	if buf.detached {
		return nil, r.NewTypeError(MsgArrayBufferDetached)
	}
	bufLen := len(buf.data)
	ta := &TypedArray{kind: kind, bufferObject: bufObj, buffer: buf, byteOffset: offset}
	switch {
	case length.IsUndefined() && buf.resizable:
		if offset > bufLen {
			return nil, r.NewRangeError(MsgInvalidTypedArrayLength, numberToString(float64(offset)))
		}
		ta.lengthTracking = true
	case length.IsUndefined():
		if bufLen%size != 0 {
			return nil, r.NewRangeError(MsgInvalidTypedArrayLength, numberToString(float64(bufLen)))
		}
		if bufLen-offset < 0 {
			return nil, r.NewRangeError(MsgInvalidTypedArrayLength, numberToString(float64(offset)))
		}
		ta.arrayLength = (bufLen - offset) / size
	default:
		if offset+newLength*size > bufLen {
			return nil, r.NewRangeError(MsgInvalidTypedArrayLength, numberToString(float64(newLength)))
		}
		ta.arrayLength = newLength
	}
	return r.newTypedArrayObject(ta, proto), nil
}

// canonicalNumericIndex recognises keys that are canonical numeric
// strings. Such keys never reach the ordinary property table of a view.
func canonicalNumericIndex(key PropertyKey) (float64, bool) {
	switch key.kind {
	case KeyKindIndex:
		return float64(key.index), true
	case KeyKindString:
		if key.name == "-0" {
			return math.Copysign(0, -1), true
		}
		n := stringToNumber(key.name)
		if numberToString(n) == key.name {
			return n, true
		}
	}
	return 0, false
}

func typedArraySetElement(o *Object, idx float64, v Value) error {
	num, err := o.realm.ToNumber(v)
	if err != nil {
		return err
	}
	ta := o.internal.(*TypedArray)
	if ta.isValidIndex(idx) {
		ta.SetElement(int(idx), num)
	}
	return nil
}

func typedArrayGetOwnProperty(o *Object, key PropertyKey) (PropertyDescriptor, bool, error) {
	if idx, ok := canonicalNumericIndex(key); ok {
		ta := o.internal.(*TypedArray)
		if !ta.isValidIndex(idx) {
			return PropertyDescriptor{}, false, nil
		}
		return DataDescriptor(ta.GetElement(int(idx)), true, true, true), true, nil
	}
	return ordinaryGetOwnProperty(o, key)
}

func typedArrayHasProperty(o *Object, key PropertyKey) (bool, error) {
	if idx, ok := canonicalNumericIndex(key); ok {
		return o.internal.(*TypedArray).isValidIndex(idx), nil
	}
	return ordinaryHasProperty(o, key)
}

func typedArrayDefineOwnProperty(o *Object, key PropertyKey, desc PropertyDescriptor) (bool, error) {
	idx, ok := canonicalNumericIndex(key)
	if !ok {
		return ordinaryDefineOwnProperty(o, key, desc)
	}
	if !o.internal.(*TypedArray).isValidIndex(idx) {
		return false, nil
	}
	if desc.Configurable == FlagFalse || desc.Enumerable == FlagFalse || desc.IsAccessor() || desc.Writable == FlagFalse {
		return false, nil
	}
	if desc.HasValue {
		if err := typedArraySetElement(o, idx, desc.Value); err != nil {
			return false, err
		}
	}
	return true, nil
}

func typedArrayGet(o *Object, key PropertyKey, receiver Value) (Value, error) {
	if idx, ok := canonicalNumericIndex(key); ok {
		ta := o.internal.(*TypedArray)
		if !ta.isValidIndex(idx) {
			return Undefined, nil
		}
		return ta.GetElement(int(idx)), nil
	}
	return ordinaryGet(o, key, receiver)
}

func typedArraySet(o *Object, key PropertyKey, v Value, receiver Value) (bool, error) {
	if idx, ok := canonicalNumericIndex(key); ok {
		if receiver.AsObject() == o {
			if err := typedArraySetElement(o, idx, v); err != nil {
				return false, err
			}
			return true, nil
		}
		if !o.internal.(*TypedArray).isValidIndex(idx) {
			return true, nil
		}
	}
	return ordinarySet(o, key, v, receiver)
}

func typedArrayDelete(o *Object, key PropertyKey) (bool, error) {
	if idx, ok := canonicalNumericIndex(key); ok {
		return !o.internal.(*TypedArray).isValidIndex(idx), nil
	}
	return ordinaryDelete(o, key)
}

func typedArrayOwnPropertyKeys(o *Object) ([]PropertyKey, error) {
	n := o.internal.(*TypedArray).Length()
	keys := make([]PropertyKey, 0, n+o.props.len())
	for i := 0; i < n; i++ {
		keys = append(keys, NewIndexKey(uint32(i)))
	}
	return append(keys, o.props.nonIndexKeys()...), nil
}
