package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaobj/pkg/vm"
)

func TestReflectArities(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	for name, length := range map[string]float64{
		"apply":                    3,
		"construct":                2,
		"defineProperty":           3,
		"deleteProperty":           2,
		"get":                      2,
		"getOwnPropertyDescriptor": 2,
		"getPrototypeOf":           1,
		"has":                      2,
		"isExtensible":             1,
		"ownKeys":                  1,
		"preventExtensions":        1,
		"set":                      3,
		"setPrototypeOf":           2,
	} {
		fn := lookup(t, r, "Reflect."+name)
		require.True(t, fn.IsCallable(), name)
		assert.False(t, fn.IsConstructor(), name)
		assert.Equal(t, length, get(t, r, fn, "length").AsNumber(), name)
		assert.Equal(t, name, get(t, r, fn, "name").AsString())
	}
}

func TestReflectToStringTag(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	reflect := lookup(t, r, "Reflect").AsObject()
	desc, has, err := reflect.GetOwnProperty(vm.NewSymbolKey(vm.SymbolToStringTag))
	require.NoError(t, err)
	require.True(t, has)
	assert.Equal(t, "Reflect", desc.Value.AsString())
	assert.Equal(t, vm.FlagFalse, desc.Writable)
	assert.Equal(t, vm.FlagFalse, desc.Enumerable)
	assert.Equal(t, vm.FlagTrue, desc.Configurable)

	s, err := r.Call(lookup(t, r, "Object.prototype.toString"), reflect.Value(), nil)
	require.NoError(t, err)
	assert.Equal(t, "[object Reflect]", s.AsString())

	assert.False(t, reflect.IsCallable())
	assert.Same(t, r.ObjectPrototype, mustProto(t, reflect))
}

func mustProto(t *testing.T, o *vm.Object) *vm.Object {
	t.Helper()
	p, err := o.GetPrototypeOf()
	require.NoError(t, err)
	return p
}

func TestReflectRejectsNonObjectTargets(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	for _, name := range []string{
		"defineProperty", "deleteProperty", "get", "getOwnPropertyDescriptor",
		"getPrototypeOf", "has", "isExtensible", "ownKeys", "preventExtensions",
		"set", "setPrototypeOf",
	} {
		_, err := callPath(t, r, "Reflect."+name, num(1), str("x"), vm.Null)
		assertTypeError(t, err, "1 is not an object")
	}

	_, err := callPath(t, r, "Reflect.apply", num(1), vm.Undefined, r.NewArray().Value())
	assertTypeError(t, err, "1 is not a function")
	_, err = callPath(t, r, "Reflect.construct", str("f"), r.NewArray().Value())
	assertTypeError(t, err, `"f" is not a constructor`)
}

func TestReflectGetAndSetWithReceiver(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	target := r.NewPlainObject()
	getThis := r.NewNativeFunction(0, "get", func(call vm.FunctionCall) (vm.Value, error) {
		return call.This, nil
	})
	target.DefineAccessorByKey(vm.NewStringKey("self"), getThis.Value(), vm.Undefined, true, true)
	target.SetOwn("plain", num(1))
	receiver := r.NewPlainObject()

	v, err := callPath(t, r, "Reflect.get", target.Value(), str("self"))
	require.NoError(t, err)
	assert.Same(t, target, v.AsObject())

	v, err = callPath(t, r, "Reflect.get", target.Value(), str("self"), receiver.Value())
	require.NoError(t, err)
	assert.Same(t, receiver, v.AsObject())

	ok, err := callPath(t, r, "Reflect.set", target.Value(), str("plain"), num(2), receiver.Value())
	require.NoError(t, err)
	assert.True(t, ok.AsBoolean())
	assert.Equal(t, 1.0, get(t, r, target.Value(), "plain").AsNumber(), "target keeps its value")
	assert.Equal(t, 2.0, get(t, r, receiver.Value(), "plain").AsNumber(), "receiver gets a new own property")

	ok, err = callPath(t, r, "Reflect.set", target.Value(), str("self"), num(3))
	require.NoError(t, err)
	assert.False(t, ok.AsBoolean(), "accessor without setter")
}

func TestReflectReportsFailureAsFalse(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	obj := r.NewPlainObject()
	obj.DefineOwnPropertyByKey(vm.NewStringKey("fixed"), num(1), false, false, false)

	desc := r.NewPlainObject()
	desc.SetOwn("value", num(2))
	ok, err := callPath(t, r, "Reflect.defineProperty", obj.Value(), str("fixed"), desc.Value())
	require.NoError(t, err)
	assert.False(t, ok.AsBoolean())

	ok, err = callPath(t, r, "Reflect.deleteProperty", obj.Value(), str("fixed"))
	require.NoError(t, err)
	assert.False(t, ok.AsBoolean())
	assert.Equal(t, 1.0, get(t, r, obj.Value(), "fixed").AsNumber())

	child := r.NewObjectWithPrototype(obj)
	ok, err = callPath(t, r, "Reflect.setPrototypeOf", obj.Value(), child.Value())
	require.NoError(t, err)
	assert.False(t, ok.AsBoolean(), "prototype cycles are refused")

	_, err = callPath(t, r, "Reflect.setPrototypeOf", obj.Value(), num(1))
	assertTypeError(t, err, "1 is neither an object nor null")

	ok, err = callPath(t, r, "Reflect.preventExtensions", obj.Value())
	require.NoError(t, err)
	assert.True(t, ok.AsBoolean())
	ok, err = callPath(t, r, "Reflect.isExtensible", obj.Value())
	require.NoError(t, err)
	assert.False(t, ok.AsBoolean())
	ok, err = callPath(t, r, "Reflect.setPrototypeOf", obj.Value(), vm.Null)
	require.NoError(t, err)
	assert.False(t, ok.AsBoolean())
}

func TestReflectOwnKeysOrder(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	sym := vm.NewSymbol("s")
	obj := r.NewPlainObject()
	obj.SetOwn("b", num(1))
	obj.DefineOwnPropertyByKey(vm.NewSymbolKey(sym), num(1), true, true, true)
	obj.SetOwn("2", num(1))
	obj.SetOwn("a", num(1))
	obj.SetOwn("0", num(1))

	keys, err := callPath(t, r, "Reflect.ownKeys", obj.Value())
	require.NoError(t, err)
	list, err := r.CreateListFromArrayLike(keys)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "0", list[0].AsString())
	assert.Equal(t, "2", list[1].AsString())
	assert.Equal(t, "b", list[2].AsString())
	assert.Equal(t, "a", list[3].AsString())
	assert.Same(t, sym, list[4].AsSymbol())
}

func TestReflectHasAndDescriptor(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	parent := r.NewPlainObject()
	parent.SetOwn("inherited", num(1))
	obj := r.NewObjectWithPrototype(parent)
	obj.DefineOwnPropertyByKey(vm.NewStringKey("own"), num(2), true, false, true)

	has, err := callPath(t, r, "Reflect.has", obj.Value(), str("inherited"))
	require.NoError(t, err)
	assert.True(t, has.AsBoolean())

	d, err := callPath(t, r, "Reflect.getOwnPropertyDescriptor", obj.Value(), str("inherited"))
	require.NoError(t, err)
	assert.True(t, d.IsUndefined())

	d, err = callPath(t, r, "Reflect.getOwnPropertyDescriptor", obj.Value(), str("own"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, get(t, r, d, "value").AsNumber())
	assert.True(t, get(t, r, d, "writable").AsBoolean())
	assert.False(t, get(t, r, d, "enumerable").AsBoolean())
	assert.True(t, get(t, r, d, "configurable").AsBoolean())

	p, err := callPath(t, r, "Reflect.getPrototypeOf", obj.Value())
	require.NoError(t, err)
	assert.Same(t, parent, p.AsObject())
}

func TestReflectApplyAndConstruct(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	sum := r.NewNativeFunction(2, "sum", func(call vm.FunctionCall) (vm.Value, error) {
		return num(call.Argument(0).AsNumber() + call.Argument(1).AsNumber() + get(t, r, call.This, "base").AsNumber()), nil
	})
	this := r.NewPlainObject()
	this.SetOwn("base", num(100))

	v, err := callPath(t, r, "Reflect.apply", sum.Value(), this.Value(), r.NewArray(num(1), num(2)).Value())
	require.NoError(t, err)
	assert.Equal(t, 103.0, v.AsNumber())

	_, err = callPath(t, r, "Reflect.apply", sum.Value(), this.Value(), num(3))
	assertTypeError(t, err, "3 is not an object")

	point := pointConstructor(r)
	other := r.NewConstructor(0, "Other", func(call vm.FunctionCall) (vm.Value, error) { return vm.Undefined, nil })

	obj, err := callPath(t, r, "Reflect.construct", point.Value(), r.NewArray(num(4)).Value())
	require.NoError(t, err)
	assert.Equal(t, 4.0, get(t, r, obj, "x").AsNumber())
	assert.Same(t, get(t, r, point.Value(), "prototype").AsObject(), mustProto(t, obj.AsObject()))

	obj, err = callPath(t, r, "Reflect.construct", point.Value(), r.NewArray(num(5)).Value(), other.Value())
	require.NoError(t, err)
	assert.Same(t, get(t, r, other.Value(), "prototype").AsObject(), mustProto(t, obj.AsObject()), "newTarget picks the prototype")

	_, err = callPath(t, r, "Reflect.construct", point.Value(), r.NewArray().Value(), sum.Value())
	assertTypeError(t, err, "function sum is not a constructor")
}

// pointConstructor behaves like function Point(v) { this.x = v; }.
func pointConstructor(r *vm.Realm) *vm.Object {
	return r.NewConstructor(1, "Point", func(call vm.FunctionCall) (vm.Value, error) {
		return vm.Undefined, r.SetValue(call.This.AsObject(), vm.NewStringKey("x"), call.Argument(0), true)
	})
}
