package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaobj/pkg/vm"
)

func TestFunctionCallAndApply(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	var gotThis vm.Value
	var gotArgs []vm.Value
	fn := r.NewNativeFunction(0, "probe", func(call vm.FunctionCall) (vm.Value, error) {
		gotThis, gotArgs = call.This, call.Arguments
		return num(float64(len(call.Arguments))), nil
	})
	this := r.NewPlainObject().Value()

	v, err := r.Invoke(fn.Value(), vm.NewStringKey("call"), this, num(1), num(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.AsNumber())
	assert.Same(t, this.AsObject(), gotThis.AsObject())
	assert.Equal(t, []vm.Value{num(1), num(2)}, gotArgs)

	v, err = r.Invoke(fn.Value(), vm.NewStringKey("apply"), this, r.NewArray(num(3)).Value())
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.AsNumber())

	v, err = r.Invoke(fn.Value(), vm.NewStringKey("apply"), this, vm.Null)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.AsNumber())

	_, err = r.Invoke(fn.Value(), vm.NewStringKey("apply"), this, num(1))
	assertTypeError(t, err, "1 is not an object")

	apply := lookup(t, r, "Array.prototype.push.apply")
	_, err = r.Call(apply, r.NewPlainObject().Value(), nil)
	assertTypeError(t, err, "[object Object] is not a function")
}

func TestFunctionHasInstance(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	point := pointConstructor(r)
	instance, err := r.Construct(point.Value(), []vm.Value{num(1)}, vm.Undefined)
	require.NoError(t, err)

	hasInstance, err := r.GetV(point.Value(), vm.NewSymbolKey(vm.SymbolHasInstance))
	require.NoError(t, err)
	v, err := r.Call(hasInstance, point.Value(), []vm.Value{instance.Value()})
	require.NoError(t, err)
	assert.True(t, v.AsBoolean())

	v, err = r.Call(hasInstance, point.Value(), []vm.Value{r.NewPlainObject().Value()})
	require.NoError(t, err)
	assert.False(t, v.AsBoolean())

	v, err = r.Call(hasInstance, num(1), []vm.Value{instance.Value()})
	require.NoError(t, err)
	assert.False(t, v.AsBoolean(), "non-callable receivers are never constructors of anything")

	desc, has, err := r.FunctionPrototype.GetOwnProperty(vm.NewSymbolKey(vm.SymbolHasInstance))
	require.NoError(t, err)
	require.True(t, has)
	assert.Equal(t, vm.FlagFalse, desc.Writable)
	assert.Equal(t, vm.FlagFalse, desc.Configurable)
	assert.Equal(t, "[Symbol.hasInstance]", get(t, r, desc.Value, "name").AsString())
}

func TestFunctionToString(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	s, err := r.Invoke(lookup(t, r, "Object.keys"), vm.NewStringKey("toString"))
	require.NoError(t, err)
	assert.Equal(t, "function keys() { [native code] }", s.AsString())

	toString, err := r.GetV(r.FunctionPrototype.Value(), vm.NewStringKey("toString"))
	require.NoError(t, err)
	_, err = r.Call(toString, r.NewPlainObject().Value(), nil)
	assertTypeError(t, err, "Function.prototype.toString called on incompatible receiver [object Object]")
}
