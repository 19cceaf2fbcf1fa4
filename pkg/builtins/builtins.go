package builtins

import (
	"strconv"

	"metaobj/pkg/vm"
)

// method installs a non-enumerable native function property.
func method(r *vm.Realm, obj *vm.Object, name string, length int, fn vm.NativeFunction) *vm.Object {
	f := r.NewNativeFunction(length, name, fn)
	obj.SetOwnNonEnumerable(name, f.Value())
	return f
}

// symbolMethod installs a method under a well-known symbol. The function
// name follows the "[description]" convention.
func symbolMethod(r *vm.Realm, obj *vm.Object, sym *vm.Symbol, length int, fn vm.NativeFunction, writable bool) *vm.Object {
	desc, _ := sym.Description()
	f := r.NewNativeFunction(length, "["+desc+"]", fn)
	obj.DefineOwnPropertyByKey(vm.NewSymbolKey(sym), f.Value(), writable, false, true)
	return f
}

// getter installs a configurable, non-enumerable accessor without setter.
func getter(r *vm.Realm, obj *vm.Object, key vm.PropertyKey, fn vm.NativeFunction) {
	name := key.Name()
	if key.IsSymbol() {
		desc, _ := key.Symbol().Description()
		name = "[" + desc + "]"
	}
	f := r.NewNativeFunction(0, "get "+name, fn)
	obj.DefineAccessorByKey(key, f.Value(), vm.Undefined, false, true)
}

// constant installs a non-writable, non-enumerable, non-configurable value.
func constant(obj *vm.Object, key vm.PropertyKey, v vm.Value) {
	obj.DefineOwnPropertyByKey(key, v, false, false, false)
}

func toStringTag(obj *vm.Object, tag string) {
	obj.DefineOwnPropertyByKey(vm.NewSymbolKey(vm.SymbolToStringTag), vm.NewString(tag), false, false, true)
}

// linkConstructor wires ctor.prototype and proto.constructor.
func linkConstructor(ctor, proto *vm.Object) {
	ctor.DefineOwnPropertyByKey(vm.NewStringKey("prototype"), proto.Value(), false, false, false)
	proto.DefineOwnPropertyByKey(vm.NewStringKey("constructor"), ctor.Value(), true, false, true)
}

// requireObject returns v as an object or a TypeError naming it.
func requireObject(r *vm.Realm, v vm.Value) (*vm.Object, error) {
	if o := v.AsObject(); o != nil {
		return o, nil
	}
	return nil, r.NewTypeError(vm.MsgNotAnObject, v.Inspect())
}

// requireObjectCoercible rejects undefined and null.
func requireObjectCoercible(r *vm.Realm, v vm.Value) error {
	if v.IsNullish() {
		return r.NewTypeError(vm.MsgToObjectNullOrUndefined)
	}
	return nil
}

// newTargetOr returns the NewTarget of a construct call, or the callee for
// a plain call.
func newTargetOr(call vm.FunctionCall) *vm.Object {
	if call.NewTarget != nil {
		return call.NewTarget
	}
	return call.Callee
}

// indexKey converts an array-like position into a property key. Positions
// beyond the array index range become string keys.
func indexKey(i int) vm.PropertyKey {
	if i >= 0 && uint64(i) < 1<<32-1 {
		return vm.NewIndexKey(uint32(i))
	}
	return vm.NewStringKey(strconv.Itoa(i))
}

// relativeIndex clamps a relative start/end argument into [0, length].
func relativeIndex(r *vm.Realm, v vm.Value, length, dflt int) (int, error) {
	if v.IsUndefined() {
		return dflt, nil
	}
	rel, err := r.ToIntegerOrInfinity(v)
	if err != nil {
		return 0, err
	}
	switch {
	case rel < 0:
		rel += float64(length)
		if rel < 0 {
			rel = 0
		}
	case rel > float64(length):
		rel = float64(length)
	}
	return int(rel), nil
}
