package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaobj/pkg/vm"
)

func TestErrorConstructors(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	for name, proto := range map[string]*vm.Object{
		"Error":      r.ErrorPrototype,
		"TypeError":  r.TypeErrorPrototype,
		"RangeError": r.RangeErrorPrototype,
	} {
		viaNew, err := newPath(t, r, name, str("bad"))
		require.NoError(t, err)
		viaCall, err := callPath(t, r, name, str("bad"))
		require.NoError(t, err)

		for _, e := range []vm.Value{viaNew.Value(), viaCall} {
			assert.Same(t, proto, mustProto(t, e.AsObject()), name)
			assert.Equal(t, "bad", get(t, r, e, "message").AsString())
			assert.Equal(t, name, get(t, r, e, "name").AsString())
			s, err := r.Invoke(e, vm.NewStringKey("toString"))
			require.NoError(t, err)
			assert.Equal(t, name+": bad", s.AsString())
		}
	}

	assert.Same(t, lookup(t, r, "Error").AsObject(), mustProto(t, lookup(t, r, "TypeError").AsObject()))
	assert.Same(t, r.ErrorPrototype, mustProto(t, r.RangeErrorPrototype))
}

func TestErrorMessageAndCause(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	e, err := newPath(t, r, "Error")
	require.NoError(t, err)
	has, err := r.HasOwnProperty(e, vm.NewStringKey("message"))
	require.NoError(t, err)
	assert.False(t, has, "an undefined message is not installed")
	s, err := r.Invoke(e.Value(), vm.NewStringKey("toString"))
	require.NoError(t, err)
	assert.Equal(t, "Error", s.AsString())

	cause := r.NewPlainObject()
	opts := r.NewPlainObject()
	opts.SetOwn("cause", cause.Value())
	e, err = newPath(t, r, "TypeError", str("wrapped"), opts.Value())
	require.NoError(t, err)
	assert.Same(t, cause, get(t, r, e.Value(), "cause").AsObject())
	desc, _, err := e.GetOwnProperty(vm.NewStringKey("cause"))
	require.NoError(t, err)
	assert.Equal(t, vm.FlagFalse, desc.Enumerable)
}

func TestThrownErrorsUseInstalledPrototypes(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	_, err := callPath(t, r, "Reflect.get", num(1), str("x"))
	require.Error(t, err)
	ex, ok := vm.AsException(err)
	require.True(t, ok)
	thrown := ex.Value()
	assert.Equal(t, "TypeError", get(t, r, thrown, "name").AsString())

	hasInstance, err := r.GetV(lookup(t, r, "TypeError"), vm.NewSymbolKey(vm.SymbolHasInstance))
	require.NoError(t, err)
	v, err := r.Call(hasInstance, lookup(t, r, "TypeError"), []vm.Value{thrown})
	require.NoError(t, err)
	assert.True(t, v.AsBoolean())

	s, err := r.Invoke(thrown, vm.NewStringKey("toString"))
	require.NoError(t, err)
	assert.Equal(t, "TypeError: 1 is not an object", s.AsString())
}
