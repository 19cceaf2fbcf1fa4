package builtins

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaobj/pkg/vm"
)

func TestStringConstructor(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	v, err := callPath(t, r, "String", num(12))
	require.NoError(t, err)
	assert.Equal(t, "12", v.AsString())

	v, err = callPath(t, r, "String", vm.NewSymbol("d").Value())
	require.NoError(t, err)
	assert.Equal(t, "Symbol(d)", v.AsString())

	_, err = newPath(t, r, "String", vm.NewSymbol("d").Value())
	assertTypeError(t, err, vm.MsgSymbolToString)

	obj, err := newPath(t, r, "String", str("ab"))
	require.NoError(t, err)
	assert.Equal(t, vm.KindString, obj.Kind())
	assert.Equal(t, 2.0, get(t, r, obj.Value(), "length").AsNumber())
	assert.Equal(t, "b", get(t, r, obj.Value(), "1").AsString())

	s, err := r.Invoke(obj.Value(), vm.NewStringKey("valueOf"))
	require.NoError(t, err)
	assert.Equal(t, "ab", s.AsString())

	_, err = r.Call(lookup(t, r, "String.prototype.toString"), num(1), nil)
	assertTypeError(t, err, "String.prototype.toString called on incompatible receiver 1")
}

func TestNumberConstructor(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	v, err := callPath(t, r, "Number", str("42"))
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.AsNumber())

	v, err = callPath(t, r, "Number")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.AsNumber())

	obj, err := newPath(t, r, "Number", num(7))
	require.NoError(t, err)
	assert.Equal(t, "Number", obj.Class())
	v, err = r.Invoke(obj.Value(), vm.NewStringKey("valueOf"))
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.AsNumber())

	assert.Equal(t, float64(maxSafeInteger), lookup(t, r, "Number.MAX_SAFE_INTEGER").AsNumber())
	assert.True(t, math.IsNaN(lookup(t, r, "Number.NaN").AsNumber()))
	assert.True(t, math.IsInf(lookup(t, r, "Number.NEGATIVE_INFINITY").AsNumber(), -1))
}

func TestNumberToStringRadix(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	for _, tc := range []struct {
		n     float64
		radix float64
		want  string
	}{
		{255, 16, "ff"},
		{255, 2, "11111111"},
		{-255, 36, "-73"},
		{0.5, 2, "0.1"},
		{0, 7, "0"},
		{1.5, 10, "1.5"},
	} {
		s, err := r.Invoke(num(tc.n), vm.NewStringKey("toString"), num(tc.radix))
		require.NoError(t, err)
		assert.Equal(t, tc.want, s.AsString(), "%v in radix %v", tc.n, tc.radix)
	}

	_, err := r.Invoke(num(1), vm.NewStringKey("toString"), num(37))
	assertRangeError(t, err)
}

func TestBooleanConstructor(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	v, err := callPath(t, r, "Boolean", str(""))
	require.NoError(t, err)
	assert.False(t, v.AsBoolean())

	obj, err := newPath(t, r, "Boolean", num(1))
	require.NoError(t, err)
	s, err := r.Invoke(obj.Value(), vm.NewStringKey("toString"))
	require.NoError(t, err)
	assert.Equal(t, "true", s.AsString())

	s, err = r.Invoke(vm.False, vm.NewStringKey("toString"))
	require.NoError(t, err)
	assert.Equal(t, "false", s.AsString())

	_, err = r.Call(lookup(t, r, "Boolean.prototype.valueOf"), str("x"), nil)
	assertTypeError(t, err, `Boolean.prototype.valueOf called on incompatible receiver "x"`)
}

func TestSymbolRegistry(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	a, err := callPath(t, r, "Symbol.for", str("app"))
	require.NoError(t, err)
	b, err := callPath(t, r, "Symbol.for", str("app"))
	require.NoError(t, err)
	assert.Same(t, a.AsSymbol(), b.AsSymbol())

	key, err := callPath(t, r, "Symbol.keyFor", a)
	require.NoError(t, err)
	assert.Equal(t, "app", key.AsString())

	local, err := callPath(t, r, "Symbol", str("app"))
	require.NoError(t, err)
	assert.NotSame(t, a.AsSymbol(), local.AsSymbol())
	key, err = callPath(t, r, "Symbol.keyFor", local)
	require.NoError(t, err)
	assert.True(t, key.IsUndefined())

	_, err = callPath(t, r, "Symbol.keyFor", str("app"))
	assertTypeError(t, err, `"app" is not a symbol`)

	other := vm.NewRealm(vm.Options{})
	require.NoError(t, Install(other, nil))
	c, err := callPath(t, other, "Symbol.for", str("app"))
	require.NoError(t, err)
	assert.NotSame(t, a.AsSymbol(), c.AsSymbol(), "each realm owns its registry")
}

func TestSymbolPrototype(t *testing.T) {
	t.Parallel()

	r := newRuntime(t)
	_, err := newPath(t, r, "Symbol")
	assertTypeError(t, err, "Symbol is not a constructor")

	sym, err := callPath(t, r, "Symbol", str("desc"))
	require.NoError(t, err)
	assert.Equal(t, "desc", get(t, r, sym, "description").AsString())
	s, err := r.Invoke(sym, vm.NewStringKey("toString"))
	require.NoError(t, err)
	assert.Equal(t, "Symbol(desc)", s.AsString())

	anon, err := callPath(t, r, "Symbol")
	require.NoError(t, err)
	assert.True(t, get(t, r, anon, "description").IsUndefined())

	assert.Same(t, vm.SymbolIterator, lookup(t, r, "Symbol.iterator").AsSymbol())
	assert.Same(t, vm.SymbolToStringTag, lookup(t, r, "Symbol.toStringTag").AsSymbol())

	wrapped, err := r.ToObject(sym)
	require.NoError(t, err)
	prim, err := r.ToPrimitive(wrapped.Value(), "default")
	require.NoError(t, err)
	assert.Same(t, sym.AsSymbol(), prim.AsSymbol())
}
