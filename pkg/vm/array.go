package vm

import "math"

var lengthKey = NewStringKey("length")

// ArrayCreate makes an empty array exotic object with the given length.
// A nil proto means Array.prototype.
func (r *Realm) ArrayCreate(length float64, proto *Object) (*Object, error) {
	if length < 0 || length > math.MaxUint32 || length != math.Trunc(length) {
		return nil, r.NewRangeError(MsgInvalidArrayLength)
	}
	if proto == nil {
		proto = r.ArrayPrototype
	}
	a := newObject(r, KindArray, "Array", proto, arrayMethods)
	a.DefineOwnPropertyByKey(lengthKey, NumberValue(length), true, false, false)
	return a, nil
}

// NewArray creates an array holding values as enumerable data properties.
func (r *Realm) NewArray(values ...Value) *Object {
	a, _ := r.ArrayCreate(0, nil)
	for i, v := range values {
		a.props.set(NewIndexKey(uint32(i)), &property{value: v, writable: true, enumerable: true, configurable: true})
	}
	a.props.set(lengthKey, &property{value: IntValue(len(values)), writable: true})
	return a
}

// arrayLength reads the stored length of an array exotic object.
func arrayLength(a *Object) (uint32, bool) {
	p, ok := a.props.get(lengthKey)
	if !ok {
		return 0, false
	}
	return uint32(p.value.AsNumber()), p.writable
}

func arrayDefineOwnProperty(a *Object, key PropertyKey, desc PropertyDescriptor) (bool, error) {
	if key == lengthKey {
		return arraySetLength(a, desc)
	}
	if key.kind != KeyKindIndex {
		return ordinaryDefineOwnProperty(a, key, desc)
	}

	length, writable := arrayLength(a)
	if key.index >= length && !writable {
		return false, nil
	}
	ok, err := ordinaryDefineOwnProperty(a, key, desc)
	if err != nil || !ok {
		return false, err
	}
	if key.index >= length {
		p, _ := a.props.get(lengthKey)
		p.value = NumberValue(float64(key.index) + 1)
	}
	return true, nil
}

// arraySetLength truncates from the highest index down and stops at the
// first non-configurable element, leaving length just above it.
func arraySetLength(a *Object, desc PropertyDescriptor) (bool, error) {
	if !desc.HasValue {
		return ordinaryDefineOwnProperty(a, lengthKey, desc)
	}
	r := a.realm
	newLen, err := r.ToUint32(desc.Value)
	if err != nil {
		return false, err
	}
	numberLen, err := r.ToNumber(desc.Value)
	if err != nil {
		return false, err
	}
	if float64(newLen) != numberLen {
		return false, r.NewRangeError(MsgInvalidArrayLength)
	}

	newLenDesc := desc
	newLenDesc.Value = NumberValue(float64(newLen))

	oldLen, oldWritable := arrayLength(a)
	if newLen >= oldLen {
		return ordinaryDefineOwnProperty(a, lengthKey, newLenDesc)
	}
	if !oldWritable {
		return false, nil
	}

	newWritable := newLenDesc.Writable != FlagFalse
	if !newWritable {
		newLenDesc.Writable = FlagTrue
	}
	ok, err := ordinaryDefineOwnProperty(a, lengthKey, newLenDesc)
	if err != nil || !ok {
		return false, err
	}

	indices := a.props.indexKeys()
	for i := len(indices) - 1; i >= 0; i-- {
		idx := indices[i]
		if idx < newLen {
			break
		}
		deleted, err := a.Delete(NewIndexKey(idx))
		if err != nil {
			return false, err
		}
		if !deleted {
			newLenDesc.Value = NumberValue(float64(idx) + 1)
			if !newWritable {
				newLenDesc.Writable = FlagFalse
			}
			if _, err := ordinaryDefineOwnProperty(a, lengthKey, newLenDesc); err != nil {
				return false, err
			}
			return false, nil
		}
	}

	if !newWritable {
		if _, err := ordinaryDefineOwnProperty(a, lengthKey, PropertyDescriptor{Writable: FlagFalse}); err != nil {
			return false, err
		}
	}
	return true, nil
}
