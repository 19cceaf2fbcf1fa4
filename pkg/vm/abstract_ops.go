package vm

import (
	"math"
)

const maxSafeInteger = 1<<53 - 1

var (
	keyEnumerable   = NewStringKey("enumerable")
	keyConfigurable = NewStringKey("configurable")
	keyValue        = NewStringKey("value")
	keyWritable     = NewStringKey("writable")
	keyGet          = NewStringKey("get")
	keySet          = NewStringKey("set")
	keyToString     = NewStringKey("toString")
	keyValueOf      = NewStringKey("valueOf")
)

// Call invokes f, failing with "<f> is not a function" when f is not
// callable.
func (r *Realm) Call(f Value, this Value, args []Value) (Value, error) {
	return r.CallExpr(f.Inspect(), f, this, args)
}

// CallExpr is Call with the source expression used in the diagnostic.
func (r *Realm) CallExpr(expr string, f Value, this Value, args []Value) (Value, error) {
	fn := f.AsObject()
	if fn == nil || !fn.IsCallable() {
		return Undefined, r.NewTypeError(MsgNotAFunction, expr)
	}
	return fn.Call(this, args)
}

// Construct invokes [[Construct]] on f. An undefined newTarget means f.
func (r *Realm) Construct(f Value, args []Value, newTarget Value) (*Object, error) {
	return r.ConstructExpr(f.Inspect(), f, args, newTarget)
}

func (r *Realm) ConstructExpr(expr string, f Value, args []Value, newTarget Value) (*Object, error) {
	fn := f.AsObject()
	if fn == nil || !fn.IsConstructor() {
		return nil, r.NewTypeError(MsgNotAConstructor, expr)
	}
	nt := fn
	if !newTarget.IsUndefined() {
		nt = newTarget.AsObject()
		if nt == nil || !nt.IsConstructor() {
			return nil, r.NewTypeError(MsgNotAConstructor, newTarget.Inspect())
		}
	}
	return fn.Construct(args, nt)
}

// Get reads o[key] with o as receiver.
func (r *Realm) Get(o *Object, key PropertyKey) (Value, error) {
	return o.Get(key, o.Value())
}

// GetV reads a property of any value; primitives are boxed for the lookup
// but stay the receiver.
func (r *Realm) GetV(v Value, key PropertyKey) (Value, error) {
	o, err := r.ToObject(v)
	if err != nil {
		return Undefined, err
	}
	return o.Get(key, v)
}

// GetMethod returns nil when the property is undefined or null.
func (r *Realm) GetMethod(v Value, key PropertyKey) (*Object, error) {
	fn, err := r.GetV(v, key)
	if err != nil {
		return nil, err
	}
	if fn.IsNullish() {
		return nil, nil
	}
	if !fn.IsCallable() {
		return nil, r.NewTypeError(MsgNotAFunction, fn.Inspect())
	}
	return fn.AsObject(), nil
}

// Invoke calls the method v[key].
func (r *Realm) Invoke(v Value, key PropertyKey, args ...Value) (Value, error) {
	fn, err := r.GetV(v, key)
	if err != nil {
		return Undefined, err
	}
	return r.CallExpr(key.String(), fn, v, args)
}

// SetValue performs o[key] = v, throwing if the assignment fails and throw
// is set.
func (r *Realm) SetValue(o *Object, key PropertyKey, v Value, throw bool) error {
	ok, err := o.Set(key, v, o.Value())
	if err != nil {
		return err
	}
	if !ok && throw {
		return r.NewTypeError(MsgSetFalse)
	}
	return nil
}

func (r *Realm) HasOwnProperty(o *Object, key PropertyKey) (bool, error) {
	_, has, err := o.GetOwnProperty(key)
	return has, err
}

func (r *Realm) CreateDataProperty(o *Object, key PropertyKey, v Value) (bool, error) {
	return o.DefineOwnProperty(key, DataDescriptor(v, true, true, true))
}

func (r *Realm) CreateDataPropertyOrThrow(o *Object, key PropertyKey, v Value) error {
	ok, err := r.CreateDataProperty(o, key, v)
	if err != nil {
		return err
	}
	if !ok {
		return r.NewTypeError(MsgDefineOwnPropertyFalse)
	}
	return nil
}

func (r *Realm) DefinePropertyOrThrow(o *Object, key PropertyKey, desc PropertyDescriptor) error {
	ok, err := o.DefineOwnProperty(key, desc)
	if err != nil {
		return err
	}
	if !ok {
		return r.NewTypeError(MsgDefineOwnPropertyFalse)
	}
	return nil
}

func (r *Realm) DeletePropertyOrThrow(o *Object, key PropertyKey) error {
	ok, err := o.Delete(key)
	if err != nil {
		return err
	}
	if !ok {
		return r.NewTypeError(MsgDeleteFalse)
	}
	return nil
}

// IsArray sees through proxies and throws on revoked ones.
func (r *Realm) IsArray(v Value) (bool, error) {
	o := v.AsObject()
	for o != nil {
		switch o.kind {
		case KindArray:
			return true, nil
		case KindProxy:
			target, err := proxyTargetOrThrow(o)
			if err != nil {
				return false, err
			}
			o = target
		default:
			return false, nil
		}
	}
	return false, nil
}

func (r *Realm) LengthOfArrayLike(o *Object) (int, error) {
	v, err := o.Get(lengthKey, o.Value())
	if err != nil {
		return 0, err
	}
	return r.ToLength(v)
}

// CreateListFromArrayLike reads elements 0..length-1 of an array-like.
func (r *Realm) CreateListFromArrayLike(v Value) ([]Value, error) {
	o := v.AsObject()
	if o == nil {
		return nil, r.NewTypeError(MsgNotAnObject, v.Inspect())
	}
	n, err := r.LengthOfArrayLike(o)
	if err != nil {
		return nil, err
	}
	list := make([]Value, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		e, err := o.Get(NewIndexKey(uint32(i)), v)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}

// ToPrimitive honours @@toPrimitive and falls back to valueOf/toString.
// hint is "default", "number" or "string".
func (r *Realm) ToPrimitive(v Value, hint string) (Value, error) {
	o := v.AsObject()
	if o == nil {
		return v, nil
	}
	exotic, err := r.GetMethod(v, NewSymbolKey(SymbolToPrimitive))
	if err != nil {
		return Undefined, err
	}
	if exotic != nil {
		res, err := exotic.Call(v, []Value{NewString(hint)})
		if err != nil {
			return Undefined, err
		}
		if res.IsObject() {
			return Undefined, r.NewTypeError(MsgConvertToPrimitive)
		}
		return res, nil
	}
	order := [2]PropertyKey{keyValueOf, keyToString}
	if hint == "string" {
		order = [2]PropertyKey{keyToString, keyValueOf}
	}
	for _, key := range order {
		method, err := o.Get(key, v)
		if err != nil {
			return Undefined, err
		}
		if fn := method.AsObject(); fn != nil && fn.IsCallable() {
			res, err := fn.Call(v, nil)
			if err != nil {
				return Undefined, err
			}
			if !res.IsObject() {
				return res, nil
			}
		}
	}
	return Undefined, r.NewTypeError(MsgConvertToPrimitive)
}

func (r *Realm) ToNumber(v Value) (float64, error) {
	switch v.typ {
	case TypeUndefined:
		return math.NaN(), nil
	case TypeNull:
		return 0, nil
	case TypeBoolean:
		if v.AsBoolean() {
			return 1, nil
		}
		return 0, nil
	case TypeNumber:
		return v.AsNumber(), nil
	case TypeString:
		return stringToNumber(v.AsString()), nil
	case TypeSymbol:
		return 0, r.NewTypeError(MsgSymbolToNumber)
	}
	prim, err := r.ToPrimitive(v, "number")
	if err != nil {
		return 0, err
	}
	return r.ToNumber(prim)
}

func (r *Realm) ToString(v Value) (string, error) {
	switch v.typ {
	case TypeSymbol:
		return "", r.NewTypeError(MsgSymbolToString)
	case TypeObject:
		prim, err := r.ToPrimitive(v, "string")
		if err != nil {
			return "", err
		}
		return r.ToString(prim)
	}
	return v.String(), nil
}

func (r *Realm) ToPropertyKey(v Value) (PropertyKey, error) {
	prim, err := r.ToPrimitive(v, "string")
	if err != nil {
		return PropertyKey{}, err
	}
	if prim.IsSymbol() {
		return NewSymbolKey(prim.AsSymbol()), nil
	}
	s, err := r.ToString(prim)
	if err != nil {
		return PropertyKey{}, err
	}
	return NewStringKey(s), nil
}

// ToObject boxes primitives into wrapper objects.
func (r *Realm) ToObject(v Value) (*Object, error) {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return nil, r.NewTypeError(MsgToObjectNullOrUndefined)
	case TypeObject:
		return v.AsObject(), nil
	case TypeString:
		return r.NewStringObject(v.AsString()), nil
	default:
		return r.NewPrimitiveWrapper(v, nil), nil
	}
}

// NewPrimitiveWrapper boxes a number, boolean or symbol. A nil proto
// selects the intrinsic prototype for the type.
func (r *Realm) NewPrimitiveWrapper(v Value, proto *Object) *Object {
	class := "Symbol"
	switch v.typ {
	case TypeNumber:
		class = "Number"
		if proto == nil {
			proto = r.NumberPrototype
		}
	case TypeBoolean:
		class = "Boolean"
		if proto == nil {
			proto = r.BooleanPrototype
		}
	default:
		if proto == nil {
			proto = r.SymbolPrototype
		}
	}
	o := newObject(r, KindOrdinary, class, proto, ordinaryMethods)
	o.internal = v
	return o
}

// PrimitiveData returns the primitive wrapped by a Number, Boolean,
// Symbol or String wrapper object.
func (o *Object) PrimitiveData() (Value, bool) {
	switch d := o.internal.(type) {
	case Value:
		return d, true
	case *stringData:
		return NewString(d.value), true
	}
	return Undefined, false
}

func (r *Realm) ToIntegerOrInfinity(v Value) (float64, error) {
	n, err := r.ToNumber(v)
	if err != nil {
		return 0, err
	}
	return toIntegerOrInfinity(n), nil
}

func (r *Realm) ToUint32(v Value) (uint32, error) {
	n, err := r.ToNumber(v)
	if err != nil {
		return 0, err
	}
	return toUint32(n), nil
}

func (r *Realm) ToLength(v Value) (int, error) {
	n, err := r.ToIntegerOrInfinity(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, nil
	}
	return int(math.Min(n, maxSafeInteger)), nil
}

func (r *Realm) ToIndex(v Value) (int, error) {
	if v.IsUndefined() {
		return 0, nil
	}
	n, err := r.ToIntegerOrInfinity(v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxSafeInteger {
		return 0, r.NewRangeError(MsgInvalidIndex)
	}
	return int(n), nil
}

// ToPropertyDescriptor reads the descriptor fields through [[HasProperty]]
// and [[Get]], so proxies observe every lookup.
func (r *Realm) ToPropertyDescriptor(v Value) (PropertyDescriptor, error) {
	var desc PropertyDescriptor
	o := v.AsObject()
	if o == nil {
		return desc, r.NewTypeError(MsgNotAnObject, v.Inspect())
	}
	field := func(key PropertyKey) (Value, bool, error) {
		has, err := o.HasProperty(key)
		if err != nil || !has {
			return Undefined, false, err
		}
		val, err := o.Get(key, v)
		return val, err == nil, err
	}

	if val, ok, err := field(keyEnumerable); err != nil {
		return desc, err
	} else if ok {
		desc.Enumerable = ToFlag(val.ToBoolean())
	}
	if val, ok, err := field(keyConfigurable); err != nil {
		return desc, err
	} else if ok {
		desc.Configurable = ToFlag(val.ToBoolean())
	}
	if val, ok, err := field(keyValue); err != nil {
		return desc, err
	} else if ok {
		desc.Value, desc.HasValue = val, true
	}
	if val, ok, err := field(keyWritable); err != nil {
		return desc, err
	} else if ok {
		desc.Writable = ToFlag(val.ToBoolean())
	}
	if val, ok, err := field(keyGet); err != nil {
		return desc, err
	} else if ok {
		if !val.IsUndefined() && !val.IsCallable() {
			return desc, r.NewTypeError(MsgAccessorBadField, "get")
		}
		desc.Getter, desc.HasGetter = val, true
	}
	if val, ok, err := field(keySet); err != nil {
		return desc, err
	} else if ok {
		if !val.IsUndefined() && !val.IsCallable() {
			return desc, r.NewTypeError(MsgAccessorBadField, "set")
		}
		desc.Setter, desc.HasSetter = val, true
	}
	if desc.IsAccessor() && desc.IsData() {
		return desc, r.NewTypeError(MsgAccessorValueOrWritable)
	}
	return desc, nil
}

// FromPropertyDescriptor returns undefined when present is false.
func (r *Realm) FromPropertyDescriptor(desc PropertyDescriptor, present bool) Value {
	if !present {
		return Undefined
	}
	o := r.NewPlainObject()
	put := func(key PropertyKey, v Value) {
		o.props.set(key, &property{value: v, writable: true, enumerable: true, configurable: true})
	}
	if desc.HasValue {
		put(keyValue, desc.Value)
	}
	if desc.Writable != FlagNotSet {
		put(keyWritable, BooleanValue(desc.Writable.Bool()))
	}
	if desc.HasGetter {
		put(keyGet, desc.Getter)
	}
	if desc.HasSetter {
		put(keySet, desc.Setter)
	}
	if desc.Enumerable != FlagNotSet {
		put(keyEnumerable, BooleanValue(desc.Enumerable.Bool()))
	}
	if desc.Configurable != FlagNotSet {
		put(keyConfigurable, BooleanValue(desc.Configurable.Bool()))
	}
	return o.Value()
}

// EnumerableKind selects what EnumerableOwnProperties collects.
type EnumerableKind uint8

const (
	EnumerateKeys EnumerableKind = iota
	EnumerateValues
	EnumerateEntries
)

// EnumerableOwnProperties backs Object.keys, Object.values and
// Object.entries. Symbol keys are skipped.
func (r *Realm) EnumerableOwnProperties(o *Object, kind EnumerableKind) ([]Value, error) {
	keys, err := o.OwnPropertyKeys()
	if err != nil {
		return nil, err
	}
	var out []Value
	for _, key := range keys {
		if key.IsSymbol() {
			continue
		}
		desc, has, err := o.GetOwnProperty(key)
		if err != nil {
			return nil, err
		}
		if !has || desc.Enumerable != FlagTrue {
			continue
		}
		if kind == EnumerateKeys {
			out = append(out, key.Value())
			continue
		}
		v, err := o.Get(key, o.Value())
		if err != nil {
			return nil, err
		}
		if kind == EnumerateValues {
			out = append(out, v)
		} else {
			out = append(out, r.NewArray(key.Value(), v).Value())
		}
	}
	return out, nil
}

// KeysToValues converts keys into string and symbol values.
func KeysToValues(keys []PropertyKey) []Value {
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = k.Value()
	}
	return out
}
